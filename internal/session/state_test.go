package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateComplete(t *testing.T) {
	var s State
	assert.False(t, s.Complete(), "fresh state is not complete")

	s.Done[0] = true
	assert.False(t, s.Complete(), "one answered question is not complete")

	s.Done[1] = true
	assert.True(t, s.Complete(), "both answered questions complete the session")
}

func TestFeedbackZeroValueIsPending(t *testing.T) {
	var f Feedback
	assert.Equal(t, FeedbackPending, f.Status)
	assert.Empty(t, f.Message)
}
