// Package discovery maps logical service names to base URLs so callers never
// hard-code network locations.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrUnknownService is returned when a name has no registered address.
var ErrUnknownService = errors.New("discovery: unknown service")

// Resolver turns a logical service name into a base URL.
type Resolver interface {
	Resolve(ctx context.Context, name string) (*url.URL, error)
}

// StaticResolver resolves names from a fixed registry. Names are matched
// case-insensitively, as service registries conventionally upper-case them.
type StaticResolver struct {
	entries map[string]*url.URL
}

// NewStaticResolver validates every registry entry up front.
func NewStaticResolver(registry map[string]string) (*StaticResolver, error) {
	entries := make(map[string]*url.URL, len(registry))
	for name, raw := range registry {
		parsed, err := url.Parse(strings.TrimRight(strings.TrimSpace(raw), "/"))
		if err != nil {
			return nil, fmt.Errorf("parse address for %s: %w", name, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return nil, fmt.Errorf("address for %s must be absolute, got %q", name, raw)
		}
		entries[Key(name)] = parsed
	}
	return &StaticResolver{entries: entries}, nil
}

// Resolve returns a copy of the registered base URL for name.
func (r *StaticResolver) Resolve(ctx context.Context, name string) (*url.URL, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	base, ok := r.entries[Key(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownService, name)
	}
	resolved := *base
	return &resolved, nil
}

// Key is the canonical form of a service name used for registry lookups.
func Key(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
