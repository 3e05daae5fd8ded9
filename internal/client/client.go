// Package client talks to the hotel and rating services over HTTP. Target
// addresses are looked up by logical service name on every call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Clark-Hu/hotel-rating-services/internal/discovery"
)

var (
	// ErrNotFound is returned when the remote service answers 404.
	ErrNotFound = errors.New("client: not found")
	// ErrUnavailable covers unknown services, transport failures, timeouts and 5xx answers.
	ErrUnavailable = errors.New("client: downstream unavailable")
)

// Options configures the shared HTTP transport.
type Options struct {
	Timeout time.Duration
	Logger  *log.Logger
}

type remote struct {
	service  string
	resolver discovery.Resolver
	client   *http.Client
	logger   *log.Logger
}

func newRemote(service string, resolver discovery.Resolver, opts Options) remote {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return remote{
		service:  service,
		resolver: resolver,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConnsPerHost:   16,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger,
	}
}

// do sends a JSON request to the path built from segments on the resolved
// service and decodes a 2xx body into out when out is non-nil.
func (r remote) do(ctx context.Context, method string, segments []string, in, out any) error {
	base, err := r.resolver.Resolve(ctx, r.service)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	endpoint := joinSegments(base, segments)

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", r.service, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, redact(endpoint), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", r.service, err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 500:
		r.logger.Printf("client: %s answered %d for %s %s", r.service, resp.StatusCode, method, endpoint.Path)
		return fmt.Errorf("%w: %s returned %d", ErrUnavailable, r.service, resp.StatusCode)
	default:
		return fmt.Errorf("client: %s returned %d for %s %s", r.service, resp.StatusCode, method, endpoint.Path)
	}
}

func joinSegments(base *url.URL, segments []string) *url.URL {
	escaped := make([]string, len(segments))
	for i, seg := range segments {
		escaped[i] = url.PathEscape(seg)
	}
	u := *base
	u.Path = strings.TrimRight(base.Path, "/") + "/" + strings.Join(segments, "/")
	u.RawPath = strings.TrimRight(base.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	return &u
}

func redact(u *url.URL) string {
	clean := *u
	clean.User = nil
	clean.RawQuery = ""
	return clean.String()
}
