package classify

import (
	"testing"

	"github.com/vietddude/liveboard/internal/core/domain"
)

func TestClassify_Categories(t *testing.T) {
	cases := []struct {
		name    string
		message string
		kind    string
		want    domain.FailureCategory
	}{
		{"websocket lowercase", "websocket connection failed", "", domain.CategoryConnection},
		{"websocket mixed case", "WebSocket connection failed", "", domain.CategoryConnection},
		{"ws scheme", "dial ws://stream.local:9443: refused", "", domain.CategoryConnection},
		{"wss scheme", "handshake to wss://stream failed", "", domain.CategoryConnection},
		{"websocket kind", "stream closed unexpectedly", "WebSocketError", domain.CategoryConnection},
		{"timeout", "Request timed out", "", domain.CategoryTimeout},
		{"timeout keyword", "context deadline: timeout waiting for frame", "", domain.CategoryTimeout},
		{"network", "network unreachable", "", domain.CategoryConnection},
		{"offline", "device is offline", "", domain.CategoryConnection},
		{"generic connection", "connection refused", "", domain.CategoryConnection},
		{"sync", "stream out of sync with server", "", domain.CategorySyncMismatch},
		{"data mismatch", "data mismatch detected in snapshot", "", domain.CategorySyncMismatch},
		{"generic", "index out of range", "", domain.CategoryGeneric},
		{"empty", "", "", domain.CategoryGeneric},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(domain.CapturedError{Message: tc.message, Kind: tc.kind})
			if got != tc.want {
				t.Errorf("Classify(%q, %q) = %q, want %q", tc.message, tc.kind, got, tc.want)
			}
		})
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	// websocket wins over every other keyword also present
	err := domain.CapturedError{
		Message: "WebSocket timed out: connection out of sync",
	}
	if got := Classify(err); got != domain.CategoryConnection {
		t.Errorf("websocket should win priority, got %q", got)
	}

	// timeout wins over connection and sync when no websocket keyword
	err = domain.CapturedError{Message: "connection timed out, data mismatch"}
	if got := Classify(err); got != domain.CategoryTimeout {
		t.Errorf("timeout should win over connection/sync, got %q", got)
	}

	// connection wins over sync
	err = domain.CapturedError{Message: "network stream out of sync"}
	if got := Classify(err); got != domain.CategoryConnection {
		t.Errorf("network should win over sync, got %q", got)
	}
}
