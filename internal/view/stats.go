package view

import (
	"math"
	"time"

	"github.com/nhle/tasknest/internal/model"
)

// TrendDays is the length of the completion trend.
const TrendDays = 7

// Breakdown counts tasks sharing one priority or category.
type Breakdown struct {
	Key       string `json:"key"`
	Count     int    `json:"count"`
	Completed int    `json:"completed"`
}

// TrendPoint is one day of the completion trend.
type TrendPoint struct {
	Date      model.Date `json:"date"`
	Label     string     `json:"label"`
	Completed int        `json:"completed"`
}

// Stats is the analytics summary of a task collection.
type Stats struct {
	Total     int `json:"totalTasks"`
	Completed int `json:"completedTasks"`
	Overdue   int `json:"overdueTasks"`
	Urgent    int `json:"urgentTasks"`

	// CompletionRate and ProductivityScore are percentages in [0, 100].
	CompletionRate    float64 `json:"completionRate"`
	ProductivityScore float64 `json:"productivityScore"`

	// AverageCompletionDays is the rounded mean of CompletedAt - CreatedAt.
	AverageCompletionDays int `json:"averageCompletionTime"`

	ByPriority []Breakdown  `json:"tasksByPriority"`
	ByCategory []Breakdown  `json:"tasksByCategory"`
	Trend      []TrendPoint `json:"completionTrend"`
	Hourly     [24]int      `json:"dailyActivity"`
}

// Compute derives Stats from tasks as seen at now. Calendar days and hours
// are taken in now's location.
func Compute(tasks []model.Task, now time.Time) Stats {
	loc := now.Location()
	today := model.DateOf(now)

	s := Stats{Total: len(tasks)}
	var completionTotal time.Duration
	var completionCount int

	for _, t := range tasks {
		if t.Completed {
			s.Completed++
			if t.CompletedAt != nil {
				completionTotal += t.CompletedAt.Sub(t.CreatedAt)
				completionCount++
			}
		} else {
			if t.IsOverdue(today) {
				s.Overdue++
			}
			if t.Priority == model.PriorityUrgent {
				s.Urgent++
			}
		}
		if !t.CreatedAt.IsZero() {
			s.Hourly[t.CreatedAt.In(loc).Hour()]++
		}
	}

	if s.Total > 0 {
		total := float64(s.Total)
		s.CompletionRate = float64(s.Completed) / total * 100
		overdueRate := float64(s.Overdue) / total * 100
		urgentRate := float64(s.Urgent) / total * 100
		s.ProductivityScore = clamp(s.CompletionRate-overdueRate*0.5-urgentRate*0.3, 0, 100)
	}

	if completionCount > 0 {
		mean := completionTotal.Hours() / 24 / float64(completionCount)
		s.AverageCompletionDays = int(math.Round(mean))
	}

	s.ByPriority = byPriority(tasks)
	s.ByCategory = byCategory(tasks)
	s.Trend = trend(tasks, today, loc)
	return s
}

func byPriority(tasks []model.Task) []Breakdown {
	out := make([]Breakdown, len(model.Priorities))
	index := make(map[model.Priority]int, len(model.Priorities))
	for i, p := range model.Priorities {
		out[i].Key = string(p)
		index[p] = i
	}
	for _, t := range tasks {
		i, ok := index[t.Priority]
		if !ok {
			continue
		}
		out[i].Count++
		if t.Completed {
			out[i].Completed++
		}
	}
	return out
}

func byCategory(tasks []model.Task) []Breakdown {
	var out []Breakdown
	index := make(map[string]int)
	for _, t := range tasks {
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, Breakdown{Key: t.Category})
		}
		out[i].Count++
		if t.Completed {
			out[i].Completed++
		}
	}
	return out
}

func trend(tasks []model.Task, today model.Date, loc *time.Location) []TrendPoint {
	out := make([]TrendPoint, TrendDays)
	for i := range out {
		ago := TrendDays - 1 - i
		d := today.AddDays(-ago)
		out[i] = TrendPoint{Date: d, Label: trendLabel(d, ago)}
	}
	first := out[0].Date
	for _, t := range tasks {
		if t.CompletedAt == nil {
			continue
		}
		d := model.DateOf(t.CompletedAt.In(loc))
		if d.Before(first) || d.After(today) {
			continue
		}
		for i := range out {
			if out[i].Date.Equal(d) {
				out[i].Completed++
				break
			}
		}
	}
	return out
}

func trendLabel(d model.Date, ago int) string {
	switch ago {
	case 0:
		return "Today"
	case 1:
		return "Yesterday"
	default:
		return d.Weekday().String()[:3]
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
