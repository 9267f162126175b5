package swipe

import (
	"testing"

	"tasteid/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCollection(n int) *models.Collection {
	items := make([]models.Item, n)
	for i := range items {
		items[i] = models.Item{
			ID:       string(rune('a' + i)),
			Title:    "Item",
			Position: i,
		}
	}
	return &models.Collection{ID: "col-1", Items: items}
}

func TestSession_ZeroValueIsIdle(t *testing.T) {
	var s Session

	assert.False(t, s.Active())
	assert.Nil(t, s.CurrentItem())

	current, total := s.Progress()
	assert.Equal(t, 0, current)
	assert.Equal(t, 0, total)

	_, ok := s.Swipe(models.SwipeLeft)
	assert.False(t, ok)
	assert.False(t, s.Undo())
}

func TestSession_OpenEmptyCollectionIsNoop(t *testing.T) {
	var s Session
	s.Open(&models.Collection{ID: "empty"})
	assert.False(t, s.Active())

	s.Open(nil)
	assert.False(t, s.Active())
}

func TestSession_SwipeThroughCollection(t *testing.T) {
	var s Session
	s.Open(testCollection(3))

	require.True(t, s.Active())
	current, total := s.Progress()
	assert.Equal(t, 1, current)
	assert.Equal(t, 3, total)

	directions := []models.SwipeDirection{
		models.SwipeLeft, models.SwipeRight, models.SwipeDown,
	}

	for i, dir := range directions {
		item := s.CurrentItem()
		require.NotNil(t, item)
		assert.Equal(t, i, item.Position)

		action, ok := s.Swipe(dir)
		require.True(t, ok)
		assert.Equal(t, dir, action.Direction)
		assert.Equal(t, *item, action.Item)
		assert.False(t, action.Timestamp.IsZero())
	}

	// Last swipe closed the session in the same step.
	assert.False(t, s.Active())
	assert.Nil(t, s.CurrentItem())

	// History survives exhaustion until the next Open or Close.
	history := s.History()
	require.Len(t, history, 3)
	for i, dir := range directions {
		assert.Equal(t, dir, history[i].Direction)
	}

	_, ok := s.Swipe(models.SwipeLeft)
	assert.False(t, ok)
}

func TestSession_ProgressAdvances(t *testing.T) {
	var s Session
	s.Open(testCollection(3))

	s.Swipe(models.SwipeLeft)
	current, total := s.Progress()
	assert.Equal(t, 2, current)
	assert.Equal(t, 3, total)
}

func TestSession_UndoStepsBack(t *testing.T) {
	var s Session
	s.Open(testCollection(3))

	s.Swipe(models.SwipeRight)
	s.Swipe(models.SwipeLeft)
	require.Len(t, s.History(), 2)

	require.True(t, s.Undo())
	assert.Len(t, s.History(), 1)

	current, _ := s.Progress()
	assert.Equal(t, 2, current)
	assert.Equal(t, 1, s.CurrentItem().Position)
}

func TestSession_UndoFlooredAtFirstCard(t *testing.T) {
	var s Session
	s.Open(testCollection(3))

	s.Swipe(models.SwipeRight)
	require.True(t, s.Undo())

	current, _ := s.Progress()
	assert.Equal(t, 1, current)

	// History is empty again; a second undo has nothing to pop.
	assert.False(t, s.Undo())
	current, _ = s.Progress()
	assert.Equal(t, 1, current)
}

func TestSession_ReopenResetsHistory(t *testing.T) {
	var s Session
	s.Open(testCollection(2))
	s.Swipe(models.SwipeRight)

	s.Open(testCollection(3))
	assert.Empty(t, s.History())

	current, total := s.Progress()
	assert.Equal(t, 1, current)
	assert.Equal(t, 3, total)
}

func TestSession_CloseDropsEverything(t *testing.T) {
	var s Session
	s.Open(testCollection(3))
	s.Swipe(models.SwipeRight)

	s.Close()
	assert.False(t, s.Active())
	assert.Empty(t, s.History())
	assert.False(t, s.Undo())
}
