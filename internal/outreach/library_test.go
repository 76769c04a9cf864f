package outreach

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibraryContainsAllTriggers(t *testing.T) {
	lib := NewLibrary()

	for _, trigger := range []TriggerType{
		TriggerPostTreatment,
		TriggerReactivation,
		TriggerPreventive,
		TriggerLoyalty,
		TriggerRecovery,
	} {
		seq, err := lib.Get(trigger)
		require.NoError(t, err, "trigger %s", trigger)
		assert.Equal(t, trigger, seq.Trigger)
		assert.NotEmpty(t, seq.Name)
		assert.NotEmpty(t, seq.Steps)
	}
	assert.Len(t, lib.Triggers(), 5)
}

func TestLibraryUnknownTrigger(t *testing.T) {
	lib := NewLibrary()

	_, err := lib.Get(TriggerType("nonexistent_trigger"))
	assert.ErrorIs(t, err, ErrSequenceNotFound)
}

func TestDefaultSequencesWellFormed(t *testing.T) {
	for _, seq := range DefaultSequences() {
		t.Run(string(seq.Trigger), func(t *testing.T) {
			first, ok := seq.FirstStep()
			require.True(t, ok, "every sequence needs a first step")
			assert.Equal(t, 1, first.Order)

			prev := 0
			for _, step := range seq.Steps {
				assert.Greater(t, step.Order, prev, "orders must be strictly increasing")
				prev = step.Order
				assert.GreaterOrEqual(t, step.DaysAfterStart, 0)
				assert.NotEmpty(t, step.MessageTemplate)
			}
		})
	}
}

func TestPendingSteps(t *testing.T) {
	lib := NewLibrary()
	seq, err := lib.Get(TriggerReactivation)
	require.NoError(t, err)

	pending := seq.PendingSteps()
	require.Len(t, pending, len(seq.Steps)-1)
	for i, step := range pending {
		assert.Equal(t, i+2, step.Order)
	}
}

func TestNewLibraryCustomCatalog(t *testing.T) {
	custom := Sequence{Trigger: TriggerType("vip"), Name: "VIP", Steps: []SequenceStep{{Order: 1}}}
	lib := NewLibrary(custom)

	seq, err := lib.Get(TriggerType("vip"))
	require.NoError(t, err)
	assert.Equal(t, "VIP", seq.Name)

	_, err = lib.Get(TriggerReactivation)
	assert.ErrorIs(t, err, ErrSequenceNotFound)
}
