// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package confighttp provides the HTTP server and client settings shared by
// the HTTP receiver and HTTP exporters.
package confighttp

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/cors"
)

// HTTPServerSettings configures a listening HTTP endpoint.
type HTTPServerSettings struct {
	// Endpoint is the host:port to listen on.
	Endpoint string `mapstructure:"endpoint"`

	// CORSAllowedOrigins enables CORS with the given origin list. Empty
	// disables CORS handling entirely.
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// Validate checks the settings at load time.
func (hss *HTTPServerSettings) Validate() error {
	if hss.Endpoint == "" {
		return errors.New("endpoint must be specified")
	}
	return nil
}

// ToListener opens the configured listener.
func (hss *HTTPServerSettings) ToListener() (net.Listener, error) {
	return net.Listen("tcp", hss.Endpoint)
}

// ToServer wraps the handler with the configured middleware and returns the
// server ready to Serve.
func (hss *HTTPServerSettings) ToServer(handler http.Handler) *http.Server {
	if len(hss.CORSAllowedOrigins) > 0 {
		co := cors.New(cors.Options{
			AllowedOrigins: hss.CORSAllowedOrigins,
			AllowedHeaders: []string{"*"},
		})
		handler = co.Handler(handler)
	}
	return &http.Server{Handler: handler}
}

// HTTPClientSettings configures an outbound HTTP client.
type HTTPClientSettings struct {
	// Endpoint is the base URL to send data to (e.g. http://backend:4318).
	Endpoint string `mapstructure:"endpoint"`

	// Timeout bounds each request, zero means no timeout.
	Timeout time.Duration `mapstructure:"timeout"`

	// Headers are added to every request; this is where sink
	// authentication tokens are supplied (e.g. Authorization).
	Headers map[string]string `mapstructure:"headers"`
}

// Validate checks the settings at load time.
func (hcs *HTTPClientSettings) Validate() error {
	if hcs.Endpoint == "" {
		return errors.New("endpoint must be specified")
	}
	return nil
}

// ToClient builds the configured client. The configured headers are applied
// to every request by a wrapping RoundTripper so callers cannot forget them.
func (hcs *HTTPClientSettings) ToClient() (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	var rt http.RoundTripper = transport
	if len(hcs.Headers) > 0 {
		rt = &headerRoundTripper{transport: rt, headers: hcs.Headers}
	}
	return &http.Client{
		Transport: rt,
		Timeout:   hcs.Timeout,
	}, nil
}

type headerRoundTripper struct {
	transport http.RoundTripper
	headers   map[string]string
}

func (rt *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	for k, v := range rt.headers {
		req.Header.Set(k, v)
	}
	return rt.transport.RoundTrip(req)
}
