// Package source defines where raw log payloads come from. Sources read
// bytes and split records; they never parse — normalization happens inside
// the pipeline so every source feeds the same decoder.
package source

import (
	"context"
	"time"
)

// Record is one raw payload unit (a line, a queue message) plus when it was
// collected.
type Record struct {
	Payload   string
	Collected time.Time
}

// Config holds provider-specific connection settings.
type Config struct {
	Provider string
	Path     string            // file path or directory, remote path for ssh
	Extra    map[string]string // provider-specific settings
}

// Source is the interface all raw log sources implement.
type Source interface {
	// Stream sends raw records until the input is exhausted or the context
	// is cancelled, then closes the channel.
	Stream(ctx context.Context, cfg Config) (<-chan Record, error)
}
