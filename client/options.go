package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file avoids cluttering
// client.go and makes it easy to discover all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"time"
)

// Option configures a Client during construction in New.
//
// Options run in the order given, before the request-id wrapper is
// installed. WithHTTPClient replaces the transport chain, so pass it before
// WithDebugLogging.
type Option func(*Client) error

// WithHTTPTimeout sets the underlying http.Client Timeout used by the SDK.
//
// Prefer per-request context deadlines where possible; this timeout is a
// coarse safety net. The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithHTTPClient replaces the http.Client used for every call.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		c.http = hc
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response is
// logged when enabled is true. Do not enable in production: dumps include
// bodies and headers.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			if _, ok := c.http.Transport.(*debugTransport); ok {
				return nil
			}
			c.http.Transport = &debugTransport{base: c.http.Transport}
		}
		return nil
	}
}

// WithRefreshConfig configures the background refresh executor instead of
// reading SQ_* environment variables.
func WithRefreshConfig(cfg RefreshConfig) Option {
	return func(c *Client) error {
		if cfg.MaxAttempts < 0 {
			return fmt.Errorf("max attempts must be >= 0")
		}
		c.refreshCfg = &cfg
		return nil
	}
}
