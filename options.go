package pairwise

import (
	"io/fs"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver    string // "valkey" or "redis"
	addrs     []string
	password  string
	keyPrefix string

	tasks fs.FS

	metrics      []string
	maxRatio     float64
	exportPolicy string

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix namespaces every stored key. Default: "pairwise:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithTasksDir sets the directory scanned for task samples.
func WithTasksDir(dir string) Option {
	return WithTasksFS(os.DirFS(dir))
}

// WithTasksFS sets the filesystem scanned for task samples.
func WithTasksFS(fsys fs.FS) Option {
	return optionFunc(func(c *clientConfig) {
		c.tasks = fsys
	})
}

// WithMetrics restricts judging to the named metrics. Default: all metrics.
func WithMetrics(names ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.metrics = names
	})
}

// WithMaxRatio bounds submitted ratios to [1/max, max]. Default: unbounded.
func WithMaxRatio(limit float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxRatio = limit
	})
}

// WithExportPolicy sets how Export treats incomplete participants:
// "skip" (default) or "fail".
func WithExportPolicy(policy string) Option {
	return optionFunc(func(c *clientConfig) {
		c.exportPolicy = policy
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
