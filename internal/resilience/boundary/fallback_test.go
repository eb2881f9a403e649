package boundary

import (
	"strings"
	"testing"
	"time"

	"github.com/vietddude/liveboard/internal/core/domain"
)

func TestSelectView_ChildrenWithOverlay(t *testing.T) {
	frame := &domain.Frame{Panel: "campaign-overview", Title: "Campaigns"}

	cases := []struct {
		status  domain.ConnectionStatus
		overlay OverlayKind
	}{
		{domain.StatusConnected, OverlayNone},
		{domain.StatusDisconnected, OverlayDisconnected},
		{domain.StatusReconnecting, OverlayReconnecting},
	}
	for _, tc := range cases {
		v := SelectView(Snapshot{Feature: "campaigns", Status: tc.status}, frame, nil)
		if v.Kind != ViewChildren {
			t.Errorf("status %q: expected children view, got %q", tc.status, v.Kind)
		}
		if v.Frame != frame {
			t.Errorf("status %q: frame not passed through", tc.status)
		}
		if v.Overlay != tc.overlay {
			t.Errorf("status %q: overlay = %q, want %q", tc.status, v.Overlay, tc.overlay)
		}
	}
}

func TestSelectView_Timeout(t *testing.T) {
	v := SelectView(Snapshot{
		Feature:  "calls",
		HasError: true,
		Category: domain.CategoryTimeout,
		Status:   domain.StatusConnected,
	}, nil, nil)

	if v.Kind != ViewTimeout {
		t.Fatalf("expected timeout view, got %q", v.Kind)
	}
	if !strings.Contains(v.Message, "30") {
		t.Errorf("timeout copy should carry the 30-second label, got %q", v.Message)
	}
	if !hasAction(v.Actions, ActionRetry) || !hasAction(v.Actions, ActionCancel) {
		t.Errorf("timeout view must offer retry and cancel, got %v", v.Actions)
	}
}

func TestSelectView_ConnectionReconnecting(t *testing.T) {
	last := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	v := SelectView(Snapshot{
		Feature:         "calls",
		HasError:        true,
		Category:        domain.CategoryConnection,
		Status:          domain.StatusReconnecting,
		Attempts:        2,
		MaxAttempts:     5,
		LastConnectedAt: &last,
	}, nil, nil)

	if v.Kind != ViewConnection {
		t.Fatalf("expected connection view, got %q", v.Kind)
	}
	if !hasAction(v.DisabledActions, ActionReconnectNow) {
		t.Error("reconnect-now must be disabled while reconnecting")
	}
	if v.AttemptLabel != "Attempt 3 of 5" {
		t.Errorf("attempt label = %q, want %q", v.AttemptLabel, "Attempt 3 of 5")
	}
	if v.LastConnectedAt == nil || !v.LastConnectedAt.Equal(last) {
		t.Error("last connected timestamp not surfaced")
	}
	if v.Overlay != OverlayReconnecting {
		t.Errorf("overlay = %q, want reconnecting", v.Overlay)
	}
}

func TestSelectView_ConnectionErrored(t *testing.T) {
	v := SelectView(Snapshot{
		Feature:     "calls",
		HasError:    true,
		Category:    domain.CategoryConnection,
		Status:      domain.StatusErrored,
		Attempts:    5,
		MaxAttempts: 5,
	}, nil, nil)

	if v.AttemptLabel != "Attempt 5 of 5" {
		t.Errorf("attempt label = %q, want %q", v.AttemptLabel, "Attempt 5 of 5")
	}
	if len(v.DisabledActions) != 0 {
		t.Errorf("manual reconnect must stay available when errored, disabled: %v", v.DisabledActions)
	}
	if !hasAction(v.Actions, ActionReconnectNow) || !hasAction(v.Actions, ActionReload) {
		t.Errorf("terminal view must offer manual retry and reload, got %v", v.Actions)
	}
}

func TestSelectView_GenericAndSync(t *testing.T) {
	for _, cat := range []domain.FailureCategory{domain.CategorySyncMismatch, domain.CategoryGeneric} {
		v := SelectView(Snapshot{
			Feature:  "settings",
			HasError: true,
			Category: cat,
			Status:   domain.StatusConnected,
		}, nil, nil)
		if v.Kind != ViewGeneric {
			t.Errorf("category %q: expected generic view, got %q", cat, v.Kind)
		}
		if !hasAction(v.Actions, ActionRetry) || !hasAction(v.Actions, ActionGoToDashboard) {
			t.Errorf("category %q: expected retry and safe-default actions, got %v", cat, v.Actions)
		}
	}
}

func TestSelectView_CustomFallbackPrecedence(t *testing.T) {
	custom := &View{Title: "Campaign panel unavailable", Actions: []Action{ActionReload}}
	capErr := &domain.CapturedError{Message: "websocket closed"}
	v := SelectView(Snapshot{
		Feature:   "campaigns",
		HasError:  true,
		LastError: capErr,
		Category:  domain.CategoryConnection,
		Status:    domain.StatusReconnecting,
	}, nil, custom)

	if v.Kind != ViewCustom {
		t.Fatalf("custom fallback must take precedence, got %q", v.Kind)
	}
	if v.Title != "Campaign panel unavailable" {
		t.Errorf("custom title lost: %q", v.Title)
	}
	if v.Overlay != OverlayReconnecting {
		t.Error("status overlay must still compose alongside a custom fallback")
	}
	if v.Error != capErr {
		t.Error("captured error not attached to custom view")
	}
}

func hasAction(actions []Action, want Action) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}
	return false
}
