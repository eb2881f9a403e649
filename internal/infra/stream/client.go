// Package stream provides the live-data transport client used by panel
// boundaries as their reconnect target and push liveness signal.
package stream

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// Config holds the live-data gateway endpoint settings.
type Config struct {
	Endpoint    string        `yaml:"endpoint"`
	Service     string        `yaml:"service"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// Client manages the gRPC connection to the live-data gateway. The
// boundary does not use it directly; the gateway wires Reconnect as the
// boundary's reconnect operation and Subscribe as its liveness signal.
type Client struct {
	cfg  Config
	conn *grpc.ClientConn
}

// NewClient dials the live-data gateway.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	target := cfg.Endpoint
	var opts []grpc.DialOption

	// Check scheme
	if strings.HasPrefix(cfg.Endpoint, "https://") || strings.HasSuffix(cfg.Endpoint, ":443") {
		creds := credentials.NewTLS(&tls.Config{})
		opts = append(opts, grpc.WithTransportCredentials(creds))
		target = strings.TrimPrefix(target, "https://")
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
		target = strings.TrimPrefix(target, "http://")
	}

	opts = append(opts, grpc.WithBlock()) // Wait for connection

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := grpc.DialContext(dialCtx, target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial live data gateway %s: %w", target, err)
	}

	return &Client{cfg: cfg, conn: conn}, nil
}

// Conn returns the underlying gRPC connection for generated clients.
func (c *Client) Conn() *grpc.ClientConn {
	return c.conn
}

// Reconnect kicks the transport out of backoff and verifies the gateway is
// serving again via the standard health protocol. Used as the boundary's
// reconnect operation.
func (c *Client) Reconnect(ctx context.Context) error {
	c.conn.ResetConnectBackoff()

	resp, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{
		Service: c.cfg.Service,
	})
	if err != nil {
		return fmt.Errorf("live data health check failed: %w", describeError(err))
	}
	if resp.Status != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("live data service %q not serving: %s", c.cfg.Service, resp.Status)
	}
	return nil
}

// Check implements the liveness probe against the gateway health service.
func (c *Client) Check(ctx context.Context) error {
	return c.Reconnect(ctx)
}

// Subscribe watches transport connectivity and reports it as the push
// liveness signal. The returned func cancels the watch.
func (c *Client) Subscribe(onChange func(online bool)) func() {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		for {
			s := c.conn.GetState()
			onChange(s == connectivity.Ready)
			if !c.conn.WaitForStateChange(ctx, s) {
				return // watch cancelled
			}
		}
	}()

	return cancel
}

// Close tears the connection down.
func (c *Client) Close() error {
	return c.conn.Close()
}

// describeError surfaces server-provided retry hints so reconnect failures
// log something actionable instead of a bare code.
func describeError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	for _, detail := range st.Details() {
		if ri, ok := detail.(*errdetails.RetryInfo); ok {
			if d := ri.GetRetryDelay(); d != nil {
				return fmt.Errorf("%s (server asks to retry after %s)", st.Message(), d.AsDuration())
			}
		}
	}
	return fmt.Errorf("%s (code %s)", st.Message(), st.Code())
}
