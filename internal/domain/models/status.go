package models

import "time"

// Source marks where the currently displayed payload came from.
type Source string

const (
	SourceLive Source = "live"
	SourceMock Source = "mock"
)

// View identifies the active dashboard view.
type View string

const (
	ViewOverview    View = "overview"
	ViewAssetDetail View = "assetDetail"
	ViewLongCycle   View = "longCycle"
)

// DataStatus tracks the load lifecycle for the session. It is session-scoped
// state, not part of the payload. A session starts loading from mock; every
// refresh re-enters loading without clearing the displayed payload.
type DataStatus struct {
	Loading       bool       `json:"loading"`
	Source        Source     `json:"source"`
	Error         string     `json:"error,omitempty"`
	LastUpdatedAt *time.Time `json:"lastUpdatedAt,omitempty"`
}

// ViewState holds the renderer-facing selection state.
type ViewState struct {
	SelectedDate    string `json:"selectedDate"`
	SelectedAssetID string `json:"selectedAssetId,omitempty"`
	CurrentView     View   `json:"currentView"`
}
