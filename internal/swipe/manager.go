package swipe

import (
	"context"
	"log/slog"
	"sync"

	"tasteid/internal/models"
)

// SaveFunc is the side-effect boundary invoked once per swipe with the swiped
// item and its direction. Implementations decide what a direction means.
// Errors belong to the callback; the session cursor is never rewound for them.
type SaveFunc func(ctx context.Context, userID string, item models.Item, direction models.SwipeDirection) error

// Manager holds one session per user. Each user views one collection at a
// time; the mutex serializes access so a Session itself can stay lock-free.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	save     SaveFunc
	logger   *slog.Logger
}

// NewManager creates a session manager. save may be nil, in which case swipes
// have no side effects.
func NewManager(save SaveFunc, logger *slog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		save:     save,
		logger:   logger,
	}
}

// Open starts (or restarts) the user's session over the collection.
// Returns false when the collection has no items.
func (m *Manager) Open(userID string, collection *models.Collection) bool {
	if collection == nil || len(collection.Items) == 0 {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.sessions[userID]
	if s == nil {
		s = &Session{}
		m.sessions[userID] = s
	}
	s.Open(collection)
	return true
}

// Swipe advances the user's session and fires the save callback. The cursor
// moves regardless of the callback outcome: a failed save is logged, never
// surfaced back into session state.
func (m *Manager) Swipe(ctx context.Context, userID string, direction models.SwipeDirection) (Action, bool) {
	m.mu.Lock()
	s := m.sessions[userID]
	var (
		action Action
		ok     bool
	)
	if s != nil {
		action, ok = s.Swipe(direction)
	}
	m.mu.Unlock()

	if !ok || m.save == nil {
		return action, ok
	}

	if err := m.save(ctx, userID, action.Item, action.Direction); err != nil {
		m.logger.Error("swipe save callback failed",
			slog.String("user_id", userID),
			slog.String("item_id", action.Item.ID),
			slog.String("direction", string(action.Direction)),
			slog.String("error", err.Error()),
		)
	}
	return action, true
}

// Undo rewinds the user's session by one step, if possible.
func (m *Manager) Undo(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.sessions[userID]
	if s == nil {
		return false
	}
	return s.Undo()
}

// Close tears down the user's session.
func (m *Manager) Close(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s := m.sessions[userID]; s != nil {
		s.Close()
	}
	delete(m.sessions, userID)
}

// Snapshot describes the user's session for display.
type Snapshot struct {
	Active      bool         `json:"active"`
	CurrentItem *models.Item `json:"currentItem"`
	Current     int          `json:"current"`
	Total       int          `json:"total"`
	Swipes      int          `json:"swipes"`
}

// State returns a display snapshot of the user's session.
func (m *Manager) State(userID string) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.sessions[userID]
	if s == nil {
		return Snapshot{}
	}
	current, total := s.Progress()
	return Snapshot{
		Active:      s.Active(),
		CurrentItem: s.CurrentItem(),
		Current:     current,
		Total:       total,
		Swipes:      len(s.History()),
	}
}
