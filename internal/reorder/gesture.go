// Package reorder implements drag-to-reorder for task lists: a small state
// machine for the gesture and the splice that writes the new order back
// into the full task collection.
package reorder

import (
	"errors"
	"fmt"
)

var ErrInvalidTransition = errors.New("reorder: invalid transition")

// State is the phase of a drag gesture.
type State int

const (
	Idle State = iota
	Dragging
	Hovering
	Dropped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Hovering:
		return "hovering"
	case Dropped:
		return "dropped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Move is the outcome of a completed gesture.
type Move struct {
	DraggedID string
	TargetID  string
}

// Gesture tracks one drag at a time. The zero value is Idle.
//
//	Idle -> Dragging        Start
//	Dragging -> Hovering    Hover
//	Hovering -> Hovering    Hover (another item)
//	Hovering -> Dragging    Leave
//	Dragging|Hovering -> Dropped   Drop
//	Dropped -> Dragging     Start (next gesture)
//	any -> Idle             Cancel
type Gesture struct {
	state   State
	dragged string
	target  string
}

func (g *Gesture) State() State { return g.state }

// Dragged returns the id being dragged, or "" when idle.
func (g *Gesture) Dragged() string { return g.dragged }

// Target returns the id currently hovered, or "".
func (g *Gesture) Target() string { return g.target }

// Active reports whether a drag is in progress.
func (g *Gesture) Active() bool {
	return g.state == Dragging || g.state == Hovering
}

func (g *Gesture) Start(id string) error {
	if g.state != Idle && g.state != Dropped {
		return fmt.Errorf("%w: start while %s", ErrInvalidTransition, g.state)
	}
	if id == "" {
		return fmt.Errorf("%w: start without an item", ErrInvalidTransition)
	}
	g.state, g.dragged, g.target = Dragging, id, ""
	return nil
}

func (g *Gesture) Hover(id string) error {
	if !g.Active() {
		return fmt.Errorf("%w: hover while %s", ErrInvalidTransition, g.state)
	}
	if id == "" {
		return g.Leave()
	}
	g.state, g.target = Hovering, id
	return nil
}

func (g *Gesture) Leave() error {
	if g.state != Hovering {
		return fmt.Errorf("%w: leave while %s", ErrInvalidTransition, g.state)
	}
	g.state, g.target = Dragging, ""
	return nil
}

// Drop ends the gesture on targetID, or on the hovered item when targetID
// is empty.
func (g *Gesture) Drop(targetID string) (Move, error) {
	if !g.Active() {
		return Move{}, fmt.Errorf("%w: drop while %s", ErrInvalidTransition, g.state)
	}
	if targetID == "" {
		targetID = g.target
	}
	if targetID == "" {
		return Move{}, fmt.Errorf("%w: drop without a target", ErrInvalidTransition)
	}
	m := Move{DraggedID: g.dragged, TargetID: targetID}
	g.state, g.target = Dropped, targetID
	return m, nil
}

// Cancel abandons the gesture without producing a move.
func (g *Gesture) Cancel() {
	*g = Gesture{}
}
