package exporter

import (
	"time"

	"github.com/robertrahardja/mac-contacts-extract/pkg/contacts"
)

// Config holds the exporter tunables.
type Config struct {
	// CheckpointInterval is how many positions are processed between
	// checkpoint saves.
	CheckpointInterval int `validate:"gte=1"`

	// MaxRecords caps positions processed in one invocation. 0 means no
	// cap. A capped run ends Paused with a valid checkpoint.
	MaxRecords int `validate:"gte=0"`

	// MaxConsecutiveFailures pauses the run when this many positions in a
	// row fail, rather than grinding through a dead source.
	MaxConsecutiveFailures int `validate:"gte=1"`

	// KeepPolicy decides which people get a row in the output.
	KeepPolicy contacts.KeepPolicy `validate:"required"`

	// Pace is a courtesy delay between record fetches.
	Pace time.Duration `validate:"gte=0"`
}

// DefaultConfig returns the exporter defaults.
func DefaultConfig() Config {
	return Config{
		CheckpointInterval:     50,
		MaxRecords:             0,
		MaxConsecutiveFailures: 25,
		KeepPolicy:             contacts.KeepContactData,
		Pace:                   100 * time.Millisecond,
	}
}

// Option configures the exporter.
type Option func(*Config)

// WithCheckpointInterval sets the checkpoint save cadence.
func WithCheckpointInterval(n int) Option {
	return func(c *Config) {
		c.CheckpointInterval = n
	}
}

// WithMaxRecords caps positions processed per invocation.
func WithMaxRecords(n int) Option {
	return func(c *Config) {
		c.MaxRecords = n
	}
}

// WithMaxConsecutiveFailures sets the failure threshold that pauses a run.
func WithMaxConsecutiveFailures(n int) Option {
	return func(c *Config) {
		c.MaxConsecutiveFailures = n
	}
}

// WithKeepPolicy sets the drop policy.
func WithKeepPolicy(p contacts.KeepPolicy) Option {
	return func(c *Config) {
		c.KeepPolicy = p
	}
}

// WithPace sets the delay between record fetches.
func WithPace(d time.Duration) Option {
	return func(c *Config) {
		c.Pace = d
	}
}
