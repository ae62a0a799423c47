package traceability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLifecycle_Order(t *testing.T) {
	assert.Len(t, Lifecycle, 20)
	assert.Equal(t, StagePlanned, Lifecycle[0])
	assert.Equal(t, StageHarvested, Lifecycle[4])
	assert.Equal(t, StageDocumentsReleased, Lifecycle[19])
	for i, st := range Lifecycle {
		assert.Equal(t, i, st.Index(), st)
		assert.True(t, st.IsValid(), st)
	}
	assert.Equal(t, -1, StageWithdrawn.Index())
}

func TestStage_CanTransitionTo(t *testing.T) {
	t.Run("only the successor", func(t *testing.T) {
		for i := 0; i < len(Lifecycle)-1; i++ {
			from := Lifecycle[i]
			for j, to := range Lifecycle {
				assert.Equal(t, j == i+1, from.CanTransitionTo(to), "%s -> %s", from, to)
			}
		}
	})

	t.Run("withdrawal window", func(t *testing.T) {
		for _, st := range Lifecycle {
			want := st.Index() >= StageHarvested.Index() && st.Index() <= StageFeePaid.Index()
			assert.Equal(t, want, st.CanTransitionTo(StageWithdrawn), st)
		}
	})

	t.Run("terminal", func(t *testing.T) {
		assert.True(t, StageDocumentsReleased.IsTerminal())
		assert.True(t, StageWithdrawn.IsTerminal())
		assert.False(t, StageFeePaid.IsTerminal())
		assert.Empty(t, StageWithdrawn.AllowedTransitions())
		assert.False(t, Stage("bogus").IsValid())
		assert.False(t, Stage("bogus").IsTerminal())
	})
}
