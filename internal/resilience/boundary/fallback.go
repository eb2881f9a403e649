package boundary

import (
	"fmt"
	"time"

	"github.com/vietddude/liveboard/internal/core/domain"
)

// ViewKind identifies the presentational outcome for a panel.
type ViewKind string

const (
	ViewChildren   ViewKind = "children"
	ViewTimeout    ViewKind = "timeout"
	ViewConnection ViewKind = "connection"
	ViewGeneric    ViewKind = "generic"
	ViewCustom     ViewKind = "custom"
)

// Action is an operation a fallback view offers to the user.
type Action string

const (
	ActionRetry             Action = "retry"
	ActionCancel            Action = "cancel"
	ActionReconnectNow      Action = "reconnect_now"
	ActionFallbackToPolling Action = "fallback_to_polling"
	ActionReload            Action = "reload"
	ActionGoToDashboard     Action = "go_to_dashboard"
)

// OverlayKind is the non-blocking connection indicator shown alongside
// content while connectivity is degraded but rendering still succeeds.
type OverlayKind string

const (
	OverlayNone         OverlayKind = ""
	OverlayDisconnected OverlayKind = "disconnected"
	OverlayReconnecting OverlayKind = "reconnecting"
)

// View is what a boundary exposes to the dashboard for one render pass.
type View struct {
	Kind            ViewKind        `json:"kind"`
	Feature         string          `json:"feature"`
	Title           string          `json:"title,omitempty"`
	Message         string          `json:"message,omitempty"`
	Actions         []Action        `json:"actions,omitempty"`
	DisabledActions []Action        `json:"disabled_actions,omitempty"`
	AttemptLabel    string          `json:"attempt_label,omitempty"`
	LastConnectedAt *time.Time      `json:"last_connected_at,omitempty"`
	Overlay         OverlayKind     `json:"overlay,omitempty"`
	Frame           *domain.Frame   `json:"frame,omitempty"`
	Error           *domain.CapturedError `json:"error,omitempty"`
}

// Snapshot is the boundary state the selector maps from.
type Snapshot struct {
	Feature         string
	HasError        bool
	LastError       *domain.CapturedError
	Category        domain.FailureCategory
	Status          domain.ConnectionStatus
	Attempts        int
	MaxAttempts     int
	LastConnectedAt *time.Time
	PollingMode     bool
}

// SelectView maps boundary state to a presentational outcome. Pure: no side
// effects, no knowledge of handlers or layout. frame is the child content of
// the current pass (nil when the child did not render); custom, when set,
// takes precedence over the category views but still composes the overlay.
func SelectView(s Snapshot, frame *domain.Frame, custom *View) View {
	overlay := overlayFor(s.Status)

	if !s.HasError {
		return View{
			Kind:    ViewChildren,
			Feature: s.Feature,
			Frame:   frame,
			Overlay: overlay,
		}
	}

	if custom != nil {
		v := *custom
		v.Kind = ViewCustom
		v.Feature = s.Feature
		v.Overlay = overlay
		v.Error = s.LastError
		return v
	}

	switch s.Category {
	case domain.CategoryTimeout:
		return View{
			Kind:    ViewTimeout,
			Feature: s.Feature,
			Title:   "Request timed out",
			Message: "The request took longer than 30 seconds to complete. The service may be busy.",
			Actions: []Action{ActionRetry, ActionCancel},
			Overlay: overlay,
			Error:   s.LastError,
		}

	case domain.CategoryConnection:
		v := View{
			Kind:            ViewConnection,
			Feature:         s.Feature,
			Title:           "Connection lost",
			Message:         "The live data connection was interrupted.",
			Actions:         []Action{ActionReconnectNow, ActionFallbackToPolling, ActionReload},
			AttemptLabel:    attemptLabel(s),
			LastConnectedAt: s.LastConnectedAt,
			Overlay:         overlay,
			Error:           s.LastError,
		}
		if s.Status == domain.StatusReconnecting {
			v.Title = "Reconnecting"
			v.DisabledActions = []Action{ActionReconnectNow}
		}
		if s.Status == domain.StatusErrored {
			v.Title = "Connection failed"
			v.Message = "Automatic reconnection attempts are exhausted."
		}
		return v

	default: // SyncMismatch, Generic
		return View{
			Kind:    ViewGeneric,
			Feature: s.Feature,
			Title:   "Something went wrong",
			Message: "This panel hit an unexpected error.",
			Actions: []Action{ActionRetry, ActionGoToDashboard},
			Overlay: overlay,
			Error:   s.LastError,
		}
	}
}

func overlayFor(status domain.ConnectionStatus) OverlayKind {
	switch status {
	case domain.StatusDisconnected:
		return OverlayDisconnected
	case domain.StatusReconnecting:
		return OverlayReconnecting
	default:
		return OverlayNone
	}
}

// attemptLabel renders "Attempt N of M" for the attempt in progress.
func attemptLabel(s Snapshot) string {
	if s.MaxAttempts <= 0 {
		return ""
	}
	switch s.Status {
	case domain.StatusReconnecting:
		current := s.Attempts + 1
		if current > s.MaxAttempts {
			current = s.MaxAttempts
		}
		return fmt.Sprintf("Attempt %d of %d", current, s.MaxAttempts)
	case domain.StatusErrored:
		return fmt.Sprintf("Attempt %d of %d", s.MaxAttempts, s.MaxAttempts)
	default:
		return ""
	}
}
