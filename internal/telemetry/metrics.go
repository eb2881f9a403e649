package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vietddude/liveboard/internal/core/domain"
)

var (
	// RenderFailures counts captured render failures per panel and category
	RenderFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liveboard_render_failures_total",
			Help: "Total number of render failures captured by panel boundaries",
		},
		[]string{"feature", "category"},
	)

	// ReconnectAttempts counts reconnect attempt outcomes per panel
	ReconnectAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liveboard_reconnect_attempts_total",
			Help: "Total number of reconnect attempts",
		},
		[]string{"feature", "result"},
	)

	// ConnectionStatus tracks current connection status per panel.
	// 0=connected, 1=disconnected, 2=reconnecting, 3=errored
	ConnectionStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "liveboard_connection_status",
			Help: "Current connection status per panel (0=connected, 1=disconnected, 2=reconnecting, 3=errored)",
		},
		[]string{"feature"},
	)

	// FallbackViews counts fallback views served instead of panel content
	FallbackViews = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liveboard_fallback_views_total",
			Help: "Total number of fallback views served",
		},
		[]string{"feature", "view"},
	)
)

// statusCodes maps connection status to the gauge value.
var statusCodes = map[domain.ConnectionStatus]float64{
	domain.StatusConnected:    0,
	domain.StatusDisconnected: 1,
	domain.StatusReconnecting: 2,
	domain.StatusErrored:      3,
}

// SetConnectionStatus updates the per-panel status gauge.
func SetConnectionStatus(feature string, status domain.ConnectionStatus) {
	ConnectionStatus.WithLabelValues(feature).Set(statusCodes[status])
}
