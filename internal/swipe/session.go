// Package swipe implements the card-swiping session: a cursor over one
// collection's items with a tagged action history and single-step undo.
//
// A Session is a plain state machine with no I/O. Malformed calls (swiping
// while idle, undoing an empty history) are no-ops rather than errors; the
// caller gates availability of the controls on session state.
package swipe

import (
	"time"

	"tasteid/internal/models"
)

// Action records one swipe. Direction is opaque data here; its meaning is
// interpreted by the save boundary.
type Action struct {
	Direction models.SwipeDirection `json:"direction"`
	Item      models.Item           `json:"item"`
	Timestamp time.Time             `json:"timestamp"`
}

// Session is a sequential cursor over an immutable ordered item list.
// The zero value is an idle session. Sessions are not safe for concurrent use;
// Manager serializes access per user.
type Session struct {
	collection *models.Collection
	index      int
	history    []Action
}

// Open starts a session over the collection's items, resetting the cursor and
// history. Opening an empty collection is a no-op and leaves the session idle.
func (s *Session) Open(collection *models.Collection) {
	if collection == nil || len(collection.Items) == 0 {
		return
	}
	s.collection = collection
	s.index = 0
	s.history = nil
}

// Active reports whether a collection is open.
func (s *Session) Active() bool {
	return s.collection != nil
}

// Swipe records the direction against the current item and advances the
// cursor. Swiping the last item closes the session atomically: the cursor
// never rests at index == len(items). Returns the recorded action and true,
// or false when the session is idle.
func (s *Session) Swipe(direction models.SwipeDirection) (Action, bool) {
	if s.collection == nil {
		return Action{}, false
	}
	items := s.collection.Items
	if s.index >= len(items) {
		return Action{}, false
	}

	action := Action{
		Direction: direction,
		Item:      items[s.index],
		Timestamp: time.Now(),
	}
	s.history = append(s.history, action)

	if s.index+1 < len(items) {
		s.index++
	} else {
		// Exhausted: close in the same step. History is kept until the next
		// Open or Close.
		s.collection = nil
	}
	return action, true
}

// Undo pops the last history entry and steps the cursor back, floored at 0.
// It does not reverse side effects already triggered by the undone swipe.
// Returns false when there is nothing to undo.
func (s *Session) Undo() bool {
	if len(s.history) == 0 {
		return false
	}
	s.history = s.history[:len(s.history)-1]
	if s.index > 0 {
		s.index--
	}
	return true
}

// Close tears the session down, dropping the collection reference and history.
func (s *Session) Close() {
	s.collection = nil
	s.index = 0
	s.history = nil
}

// CurrentItem returns the item under the cursor, or nil when idle.
func (s *Session) CurrentItem() *models.Item {
	if s.collection == nil || s.index >= len(s.collection.Items) {
		return nil
	}
	item := s.collection.Items[s.index]
	return &item
}

// Progress returns the 1-based cursor position and total item count for
// display, or (0, 0) when idle.
func (s *Session) Progress() (current, total int) {
	if s.collection == nil {
		return 0, 0
	}
	return s.index + 1, len(s.collection.Items)
}

// History returns the recorded swipe actions in order.
func (s *Session) History() []Action {
	return s.history
}
