package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlayerUIState(t *testing.T) {
	state := NewPlayerUIState()
	assert.Equal(t, PlayerOff, state.Mode)
	assert.Equal(t, 1.0, state.Speed)
	assert.Nil(t, state.ReadingID)
	assert.False(t, state.HasCompletedPlayback)
}

func TestReducePlayer_LoadReading(t *testing.T) {
	state := NewPlayerUIState()
	state.HasCompletedPlayback = true
	state.IsSpeedPanelOpen = true

	got := ReducePlayer(state, LoadReading{ReadingID: 7})

	assert.Equal(t, PlayerFull, got.Mode)
	require.NotNil(t, got.ReadingID)
	assert.Equal(t, 7, *got.ReadingID)
	assert.False(t, got.HasCompletedPlayback)
	assert.False(t, got.IsSpeedPanelOpen)
}

func TestReducePlayer_MarkListened(t *testing.T) {
	state := ReducePlayer(NewPlayerUIState(), LoadReading{ReadingID: 3})
	state.SavedTimeSeconds = 42.5

	got := ReducePlayer(state, MarkListened{})

	assert.True(t, got.HasCompletedPlayback)
	assert.Zero(t, got.SavedTimeSeconds)
	assert.Equal(t, PlayerOff, got.Mode)
}

func TestReducePlayer_Minimize(t *testing.T) {
	full := ReducePlayer(NewPlayerUIState(), LoadReading{ReadingID: 1})

	got := ReducePlayer(full, Minimize{})
	assert.Equal(t, PlayerMini, got.Mode)

	// Minimize from anything but Full leaves the mode alone.
	again := ReducePlayer(got, Minimize{})
	assert.Equal(t, PlayerMini, again.Mode)

	off := ReducePlayer(NewPlayerUIState(), Minimize{})
	assert.Equal(t, PlayerOff, off.Mode)
}

func TestReducePlayer_MinimizeClosesSpeedPanel(t *testing.T) {
	state := ReducePlayer(NewPlayerUIState(), LoadReading{ReadingID: 1})
	state = ReducePlayer(state, ToggleSpeedPanel{})
	require.True(t, state.IsSpeedPanelOpen)

	got := ReducePlayer(state, Minimize{})
	assert.False(t, got.IsSpeedPanelOpen)
}

func TestReducePlayer_Dismiss(t *testing.T) {
	state := ReducePlayer(NewPlayerUIState(), LoadReading{ReadingID: 1})
	state = ReducePlayer(state, ToggleSpeedPanel{})

	got := ReducePlayer(state, Dismiss{})
	assert.Equal(t, PlayerOff, got.Mode)
	assert.False(t, got.IsSpeedPanelOpen)
}

func TestReducePlayer_NavigateToSnippetKeepsMode(t *testing.T) {
	for _, mode := range []PlayerMode{PlayerOff, PlayerFull, PlayerMini} {
		state := PlayerUIState{Mode: mode, Speed: 1.0}
		got := ReducePlayer(state, NavigateToSnippet{ReadingID: 5})
		assert.Equal(t, mode, got.Mode)
	}
}

func TestReducePlayer_SetSpeed(t *testing.T) {
	got := ReducePlayer(NewPlayerUIState(), SetSpeed{Value: 1.5})
	assert.Equal(t, 1.5, got.Speed)
	assert.Equal(t, PlayerOff, got.Mode)
}

func TestReducePlayer_ToggleSpeedPanel(t *testing.T) {
	state := NewPlayerUIState()
	state = ReducePlayer(state, ToggleSpeedPanel{})
	assert.True(t, state.IsSpeedPanelOpen)
	state = ReducePlayer(state, ToggleSpeedPanel{})
	assert.False(t, state.IsSpeedPanelOpen)
}

func TestReducePlayer_RestorePosition(t *testing.T) {
	got := ReducePlayer(NewPlayerUIState(), RestorePosition{
		TimeSeconds:          42.5,
		HasCompletedPlayback: true,
		Speed:                1.25,
	})

	assert.Equal(t, 42.5, got.SavedTimeSeconds)
	assert.True(t, got.HasCompletedPlayback)
	assert.Equal(t, 1.25, got.Speed)
}

func TestReducePlayer_RestorePositionKeepsSpeedWhenUnset(t *testing.T) {
	state := ReducePlayer(NewPlayerUIState(), SetSpeed{Value: 2.0})
	got := ReducePlayer(state, RestorePosition{TimeSeconds: 10})
	assert.Equal(t, 2.0, got.Speed)
}

func TestReducePlayer_IsPure(t *testing.T) {
	state := NewPlayerUIState()
	before := state
	_ = ReducePlayer(state, LoadReading{ReadingID: 9})
	assert.Equal(t, before, state)
}
