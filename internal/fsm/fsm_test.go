package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitionLifecycle(t *testing.T) {
	next, err := Transition(StateDown, EventOpened)
	require.NoError(t, err)
	require.Equal(t, StateUp, next)

	next, err = Transition(next, EventHangup)
	require.NoError(t, err)
	require.Equal(t, StateDown, next)

	next, err = Transition(next, EventOpened)
	require.NoError(t, err)
	require.Equal(t, StateUp, next)
}

func TestTransitionCloseFromAnyState(t *testing.T) {
	for _, state := range []State{StateUp, StateDown, StateClosed} {
		next, err := Transition(state, EventClose)
		require.NoError(t, err)
		require.Equal(t, StateClosed, next)
	}
}

func TestTransitionMatrixInvalidTransitions(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		event   Event
		want    State
		wantErr bool
	}{
		{name: "up opened invalid", state: StateUp, event: EventOpened, want: StateUp, wantErr: true},
		{name: "down hangup stays down", state: StateDown, event: EventHangup, want: StateDown, wantErr: false},
		{name: "closed opened invalid", state: StateClosed, event: EventOpened, want: StateClosed, wantErr: true},
		{name: "closed hangup invalid", state: StateClosed, event: EventHangup, want: StateClosed, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Transition(tc.state, tc.event)
			require.Equal(t, tc.want, next)
			if tc.wantErr {
				require.Error(t, err)
				require.Contains(t, err.Error(), "invalid transition")
				return
			}
			require.NoError(t, err)
		})
	}
}
