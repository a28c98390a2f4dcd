package model

import (
	"strings"
	"time"
)

// Color is a project colour tag from the fixed palette.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorPurple Color = "purple"
	ColorPink   Color = "pink"
	ColorIndigo Color = "indigo"
	ColorGray   Color = "gray"
)

// Palette lists the selectable project colours in display order.
var Palette = []Color{
	ColorBlue, ColorGreen, ColorRed, ColorYellow,
	ColorPurple, ColorPink, ColorIndigo, ColorGray,
}

func (c Color) IsValid() bool {
	for _, p := range Palette {
		if c == p {
			return true
		}
	}
	return false
}

// Label returns the capitalised colour name.
func (c Color) Label() string {
	if c == "" {
		return ""
	}
	s := string(c)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Project is a grouping container for related tasks.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       Color     `json:"color"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate checks the fields a project must carry.
func (p Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return Required("name")
	}
	if p.Color == "" {
		return Required("color")
	}
	if !p.Color.IsValid() {
		return Invalid("color", p.Color)
	}
	return nil
}
