// Package classify maps captured render failures to failure categories.
package classify

import (
	"strings"

	"github.com/vietddude/liveboard/internal/core/domain"
)

// Keyword groups checked in priority order. Earlier groups win when a
// message matches several, so overlapping keywords resolve deterministically.
var (
	websocketPatterns = []string{"websocket", "ws://", "wss://"}
	timeoutPatterns   = []string{"timeout", "timed out"}
	networkPatterns   = []string{"connection", "network", "offline"}
	syncPatterns      = []string{"out of sync", "data mismatch", "sync"}
)

// Classify determines the failure category for a captured render error.
// Matching is case-insensitive over both the message and the error kind.
// Pure and deterministic; never fails.
func Classify(err domain.CapturedError) domain.FailureCategory {
	haystack := strings.ToLower(err.Message + " " + err.Kind)

	switch {
	case containsAny(haystack, websocketPatterns):
		return domain.CategoryConnection
	case containsAny(haystack, timeoutPatterns):
		return domain.CategoryTimeout
	case containsAny(haystack, networkPatterns):
		return domain.CategoryConnection
	case containsAny(haystack, syncPatterns):
		return domain.CategorySyncMismatch
	default:
		return domain.CategoryGeneric
	}
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
