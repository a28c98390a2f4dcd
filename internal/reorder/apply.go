package reorder

import "github.com/nhle/tasknest/internal/model"

// MoveWithin returns working with draggedID moved to targetID's index. The
// dragged task is removed first and reinserted at the target's original
// index, so dropping a task on its immediate successor swaps the two.
// It reports false, and returns working unchanged, when the ids are equal
// or either is missing.
func MoveWithin(working []model.Task, draggedID, targetID string) ([]model.Task, bool) {
	if draggedID == targetID {
		return working, false
	}
	from, to := -1, -1
	for i, t := range working {
		switch t.ID {
		case draggedID:
			from = i
		case targetID:
			to = i
		}
	}
	if from < 0 || to < 0 {
		return working, false
	}

	out := make([]model.Task, 0, len(working))
	out = append(out, working[:from]...)
	out = append(out, working[from+1:]...)

	moved := working[from]
	out = append(out, model.Task{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out, true
}

// Apply reorders the working list (the visible subset of all) and writes
// the result back into all: the slots that working tasks occupy in all are
// refilled with the reordered tasks in order. Tasks outside working keep
// their positions. The returned slice is new; inputs are not modified.
func Apply(all, working []model.Task, draggedID, targetID string) ([]model.Task, bool) {
	reordered, ok := MoveWithin(working, draggedID, targetID)
	if !ok {
		return all, false
	}

	inScope := make(map[string]bool, len(working))
	for _, t := range working {
		inScope[t.ID] = true
	}
	byID := make(map[string]model.Task, len(all))
	var slots []int
	for i, t := range all {
		if inScope[t.ID] {
			slots = append(slots, i)
			byID[t.ID] = t
		}
	}
	if len(slots) != len(reordered) {
		return all, false
	}

	out := append([]model.Task(nil), all...)
	for i, slot := range slots {
		out[slot] = byID[reordered[i].ID]
	}
	return out, true
}
