package shardqueue

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config groups all tunables. Values are taken from environment variables with
// the prefix "SQ_". Example: SQ_SHARDS=2 SQ_MAX_ATTEMPTS=3 .
//
// MaxAttempts defaults to 1: background refreshes are not retried unless an
// operator opts in.
type Config struct {
	Shards         int           `envconfig:"SHARDS"          default:"2"`
	QueueSize      int           `envconfig:"QUEUE_SIZE"      default:"64"`
	EnqueueTimeout time.Duration `envconfig:"ENQUEUE_TIMEOUT" default:"100ms"`

	// ErrorHandler is called synchronously after a Job fails for good.
	// Leave nil if you do not care.
	ErrorHandler func(key string, err error) `envconfig:"-"`

	MaxAttempts int           `envconfig:"MAX_ATTEMPTS" default:"1"`
	BaseBackoff time.Duration `envconfig:"BASE_BACKOFF" default:"200ms"`
	MaxInterval time.Duration `envconfig:"MAX_INTERVAL" default:"5s"`
}

// LoadConfig populates Config from environment variables (prefix SQ_).
func LoadConfig() (Config, error) {
	var c Config
	return c, envconfig.Process("SQ", &c)
}

// withDefaults fills zero values.
func (c Config) withDefaults() Config {
	if c.Shards <= 0 {
		c.Shards = 2
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 64
	}
	if c.EnqueueTimeout <= 0 {
		c.EnqueueTimeout = 100 * time.Millisecond
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 1
	}
	if c.BaseBackoff <= 0 {
		c.BaseBackoff = 200 * time.Millisecond
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = 5 * time.Second
	}
	return c
}
