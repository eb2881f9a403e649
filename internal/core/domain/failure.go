package domain

import "time"

// FailureCategory classifies a captured render failure.
type FailureCategory string

const (
	CategoryNone         FailureCategory = ""
	CategoryConnection   FailureCategory = "connection"
	CategoryTimeout      FailureCategory = "timeout"
	CategorySyncMismatch FailureCategory = "sync_mismatch"
	CategoryGeneric      FailureCategory = "generic"
)

// ConnectionStatus tracks live-data connectivity for a panel boundary.
// It is orthogonal to whether a render failure has occurred.
type ConnectionStatus string

const (
	StatusConnected    ConnectionStatus = "connected"
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusReconnecting ConnectionStatus = "reconnecting"
	StatusErrored      ConnectionStatus = "errored"
)

// CapturedError holds a render failure captured by a boundary.
type CapturedError struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// Error implements the error interface.
func (e CapturedError) Error() string {
	if e.Kind != "" {
		return e.Kind + ": " + e.Message
	}
	return e.Message
}

// ErrorReport is a persisted record of a captured render failure.
type ErrorReport struct {
	ID              string           `json:"id" db:"id"`
	Feature         string           `json:"feature" db:"feature"`
	Category        FailureCategory  `json:"category" db:"category"`
	Status          ConnectionStatus `json:"status" db:"status"`
	Message         string           `json:"message" db:"message"`
	Kind            string           `json:"kind" db:"kind"`
	Stack           string           `json:"stack" db:"stack"`
	Attempts        int              `json:"attempts" db:"attempts"`
	LastConnectedAt *time.Time       `json:"last_connected_at,omitempty" db:"last_connected_at"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
}
