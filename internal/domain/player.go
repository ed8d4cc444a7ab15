package domain

// PlayerMode is the lifecycle state of the audio UI surface.
type PlayerMode string

// Player surface modes.
const (
	PlayerOff  PlayerMode = "off"  // no active reading, surface hidden
	PlayerFull PlayerMode = "full" // detailed overlay for the current reading
	PlayerMini PlayerMode = "mini" // collapsed indicator while browsing elsewhere
)

// PlayerUIState is the player surface state. It is mutated exclusively
// through ReducePlayer; the persisted snapshot fields (saved time, completion
// flag, speed) are written to storage by the session layer, keyed by reading.
type PlayerUIState struct {
	Mode                 PlayerMode `json:"mode"`
	Speed                float64    `json:"speed"`
	HasCompletedPlayback bool       `json:"has_completed_playback"`
	SavedTimeSeconds     float64    `json:"saved_time_seconds"`
	ReadingID            *int       `json:"reading_id,omitempty"`
	IsSpeedPanelOpen     bool       `json:"is_speed_panel_open"`
}

// NewPlayerUIState returns the initial player state: surface off, 1x speed.
func NewPlayerUIState() PlayerUIState {
	return PlayerUIState{Mode: PlayerOff, Speed: 1.0}
}

// PlayerAction is a tagged event applied to PlayerUIState via ReducePlayer.
type PlayerAction interface {
	isPlayerAction()
}

// LoadReading activates the full player surface for a reading.
type LoadReading struct {
	ReadingID int
}

// MarkListened records completed playback and dismisses the surface.
type MarkListened struct{}

// Minimize collapses the full surface to the mini indicator.
type Minimize struct{}

// Dismiss hides the player surface entirely.
type Dismiss struct{}

// NavigateToSnippet signals navigation toward a reading without touching the
// player mode. The destination screen issues its own LoadReading once
// mounted; navigation and surface activation are deliberately independent.
type NavigateToSnippet struct {
	ReadingID int
}

// SetSpeed updates the playback rate without changing mode.
type SetSpeed struct {
	Value float64
}

// ToggleSpeedPanel opens or closes the speed selection panel.
type ToggleSpeedPanel struct{}

// RestorePosition seeds saved progress fields from a persisted snapshot.
type RestorePosition struct {
	TimeSeconds          float64
	HasCompletedPlayback bool
	Speed                float64
}

func (LoadReading) isPlayerAction()       {}
func (MarkListened) isPlayerAction()      {}
func (Minimize) isPlayerAction()          {}
func (Dismiss) isPlayerAction()           {}
func (NavigateToSnippet) isPlayerAction() {}
func (SetSpeed) isPlayerAction()          {}
func (ToggleSpeedPanel) isPlayerAction()  {}
func (RestorePosition) isPlayerAction()   {}

// ReducePlayer applies an action to a player state and returns the next
// state. It is a pure function; unnamed fields pass through unchanged.
//
// There is no dedicated expand transition from Mini back to Full: expansion
// is driven by the hosting UI reloading the reading, which is outside this
// reducer's authority.
func ReducePlayer(state PlayerUIState, action PlayerAction) PlayerUIState {
	switch a := action.(type) {
	case LoadReading:
		state.Mode = PlayerFull
		id := a.ReadingID
		state.ReadingID = &id
		state.HasCompletedPlayback = false
		state.IsSpeedPanelOpen = false

	case MarkListened:
		state.HasCompletedPlayback = true
		state.SavedTimeSeconds = 0
		state.Mode = PlayerOff

	case Minimize:
		if state.Mode == PlayerFull {
			state.Mode = PlayerMini
		}
		state.IsSpeedPanelOpen = false

	case Dismiss:
		state.Mode = PlayerOff
		state.IsSpeedPanelOpen = false

	case NavigateToSnippet:
		// Mode intentionally unchanged.

	case SetSpeed:
		state.Speed = a.Value

	case ToggleSpeedPanel:
		state.IsSpeedPanelOpen = !state.IsSpeedPanelOpen

	case RestorePosition:
		state.SavedTimeSeconds = a.TimeSeconds
		state.HasCompletedPlayback = a.HasCompletedPlayback
		if a.Speed > 0 {
			state.Speed = a.Speed
		}
	}

	return state
}
