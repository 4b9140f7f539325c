package assign

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeadlineWindows(t *testing.T) {
	policy := DefaultPolicy()
	assignedAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, assignedAt.Add(15*time.Hour), policy.Deadline(assignedAt, WindowInitial))
	assert.Equal(t, assignedAt.Add(4*time.Hour), policy.Deadline(assignedAt, WindowReassign))
}

func TestDeadlineConfigurable(t *testing.T) {
	policy := Policy{InitialWindow: 2 * time.Hour, ReassignWindow: 30 * time.Minute}
	assignedAt := time.Now()

	assert.Equal(t, assignedAt.Add(2*time.Hour), policy.Deadline(assignedAt, WindowInitial))
	assert.Equal(t, assignedAt.Add(30*time.Minute), policy.Deadline(assignedAt, WindowReassign))
}

// TestDeadlineMonotonic - reatribuição sempre empurra o prazo para frente
func TestDeadlineMonotonic(t *testing.T) {
	policy := DefaultPolicy()

	for _, assignedAt := range []time.Time{
		time.Unix(0, 0),
		time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Now(),
		time.Now().Add(1000 * time.Hour),
	} {
		deadline := policy.Deadline(assignedAt, WindowReassign)
		assert.True(t, deadline.After(assignedAt), "deadline deve ser estritamente depois de %s", assignedAt)
	}
}

// TestOverdueBoundary - vencido exatamente no instante do deadline, não 1s antes
func TestOverdueBoundary(t *testing.T) {
	deadline := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

	assert.True(t, Overdue(deadline, deadline))
	assert.True(t, Overdue(deadline.Add(time.Second), deadline))
	assert.False(t, Overdue(deadline.Add(-time.Second), deadline))
}
