package admin

import "time"

// Config is the retry/timeout policy, fixed when the Admin is
// constructed. These are the only knobs the client has; everything
// else it learns from the master.
type Config struct {

	// PauseBase is the wait before the first retry. Attempt n waits
	// PauseBase << n, capped so the operation timeout is respected.
	PauseBase time.Duration

	// MaxRetries bounds the attempts after the first one.
	MaxRetries int

	// RPCTimeout bounds each individual attempt.
	RPCTimeout time.Duration

	// OperationTimeout bounds the whole operation, retries and pauses
	// included. When it expires the outcome is UNKNOWN; the remote
	// effect may still have completed.
	OperationTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		PauseBase:        100 * time.Millisecond,
		MaxRetries:       3,
		RPCTimeout:       1 * time.Second,
		OperationTimeout: 3 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PauseBase <= 0 {
		c.PauseBase = d.PauseBase
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = d.MaxRetries
	}
	if c.RPCTimeout <= 0 {
		c.RPCTimeout = d.RPCTimeout
	}
	if c.OperationTimeout <= 0 {
		c.OperationTimeout = d.OperationTimeout
	}
	return c
}
