// Package vsphere wraps the govmomi client with the small surface the
// inventory pipeline needs: an authenticated session and a recursive
// virtual machine enumeration.
package vsphere

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/vmware/govmomi"
	"go.uber.org/zap"
)

const sdkPath = "/sdk"

// Config carries the connection parameters for one vCenter endpoint.
// URL, when set, takes precedence over Host/Port and may carry any scheme.
type Config struct {
	URL      string
	Host     string
	Port     int
	Username string
	Password string
	// Insecure disables TLS certificate verification. Off by default;
	// enabling it is logged at warn level.
	Insecure bool
}

// SDKURL builds the SOAP endpoint URL from the configuration.
func (c Config) SDKURL() (*url.URL, error) {
	if c.URL != "" {
		u, err := url.Parse(c.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing vCenter URL %q: %w", c.URL, err)
		}
		if u.Path == "" || u.Path == "/" {
			u.Path = sdkPath
		}
		return u, nil
	}

	host := c.Host
	if c.Port > 0 {
		host = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	return &url.URL{Scheme: "https", Host: host, Path: sdkPath}, nil
}

// EndpointHost returns the host name of the configured endpoint, for
// logging and report labeling.
func (c Config) EndpointHost() string {
	if c.Host != "" {
		return c.Host
	}
	if u, err := url.Parse(c.URL); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return c.URL
}

// ConnectionError reports a failure to establish or authenticate the session.
type ConnectionError struct {
	Host string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connecting to vCenter %s: %v", e.Host, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Client is an authenticated session against a vCenter endpoint. It is
// created by Connect and must be released with Logout.
type Client struct {
	vc     *govmomi.Client
	logger *zap.SugaredLogger
}

// Connect establishes an authenticated session. The returned client owns the
// session; callers must release it with Logout on every exit path.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	u, err := cfg.SDKURL()
	if err != nil {
		return nil, &ConnectionError{Host: cfg.EndpointHost(), Err: err}
	}
	u.User = url.UserPassword(cfg.Username, cfg.Password)
	return connectURL(ctx, u, cfg.Insecure)
}

func connectURL(ctx context.Context, u *url.URL, insecure bool) (*Client, error) {
	logger := zap.S().Named("vsphere")
	if insecure {
		logger.Warnw("TLS certificate verification disabled", "host", u.Host)
	}

	vc, err := govmomi.NewClient(ctx, u, insecure)
	if err != nil {
		return nil, &ConnectionError{Host: u.Host, Err: err}
	}

	logger.Infow("connected to vCenter",
		"host", u.Host,
		"version", vc.ServiceContent.About.Version)

	return &Client{vc: vc, logger: logger}, nil
}

// Logout releases the remote session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.vc.Logout(ctx); err != nil {
		return fmt.Errorf("releasing vCenter session: %w", err)
	}
	return nil
}
