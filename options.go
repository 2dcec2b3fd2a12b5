package munimap

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/openmuni/munimap/pkg/constants"
	"github.com/openmuni/munimap/pkg/errors"
	"github.com/openmuni/munimap/pkg/export"
)

// config holds the resolved pipeline settings.
type config struct {
	sourceURL    string
	basePath     string
	newPath      string
	outputDir    string
	reportDir    string
	manifestPath string
	iterations   int
	keyLength    int
	fetcher      Fetcher
	progress     export.ProgressFunc
	logger       *zerolog.Logger
	clock        func() time.Time
}

// defaultConfig returns pipeline settings with default values.
func defaultConfig() *config {
	return &config{
		basePath:   constants.DefaultBaseSnapshot,
		newPath:    constants.DefaultNewSnapshot,
		outputDir:  constants.DefaultOutputDir,
		reportDir:  ".",
		iterations: constants.DefaultHashIterations,
		keyLength:  constants.DefaultHashLength,
		clock:      time.Now,
	}
}

// Option is a function that configures a Pipeline.
type Option func(*config) error

// apply runs each option against the config, stopping at the first error.
func (c *config) apply(opts ...Option) (*config, error) {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WithSourceURL configures the snapshot download URL. When unset the
// pipeline skips fetching and reads the new snapshot from disk as-is.
func WithSourceURL(url string) Option {
	return func(c *config) error {
		c.sourceURL = url
		return nil
	}
}

// WithBasePath configures the frozen base snapshot location.
func WithBasePath(path string) Option {
	return func(c *config) error {
		if path == "" {
			return errors.NewValidationError("base path", path, "must not be empty")
		}
		c.basePath = path
		return nil
	}
}

// WithNewPath configures where the fresh snapshot is written and read.
func WithNewPath(path string) Option {
	return func(c *config) error {
		if path == "" {
			return errors.NewValidationError("new path", path, "must not be empty")
		}
		c.newPath = path
		return nil
	}
}

// WithOutputDir configures the directory receiving per-region exports.
func WithOutputDir(dir string) Option {
	return func(c *config) error {
		if dir == "" {
			return errors.NewValidationError("output dir", dir, "must not be empty")
		}
		c.outputDir = dir
		return nil
	}
}

// WithReportDir configures the directory receiving change reports.
// Defaults to the working directory.
func WithReportDir(dir string) Option {
	return func(c *config) error {
		if dir == "" {
			return errors.NewValidationError("report dir", dir, "must not be empty")
		}
		c.reportDir = dir
		return nil
	}
}

// WithManifestPath enables writing a YAML run manifest to the given path.
func WithManifestPath(path string) Option {
	return func(c *config) error {
		c.manifestPath = path
		return nil
	}
}

// WithIterations overrides the fingerprint derivation round count.
// Changing it changes every derived hash; exports made with different
// counts are not comparable.
func WithIterations(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return errors.NewValidationError("iterations", n, "must be positive")
		}
		c.iterations = n
		return nil
	}
}

// WithKeyLength overrides the derived key length in bytes.
func WithKeyLength(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return errors.NewValidationError("key length", n, "must be positive")
		}
		c.keyLength = n
		return nil
	}
}

// WithFetcher substitutes the snapshot downloader.
func WithFetcher(f Fetcher) Option {
	return func(c *config) error {
		c.fetcher = f
		return nil
	}
}

// WithProgress registers a callback observing export progress.
func WithProgress(fn export.ProgressFunc) Option {
	return func(c *config) error {
		c.progress = fn
		return nil
	}
}

// WithLogger overrides the context logger used for the run.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithClock overrides the time source used for report filenames and
// elapsed measurement.
func WithClock(now func() time.Time) Option {
	return func(c *config) error {
		if now == nil {
			return errors.NewValidationError("clock", nil, "must not be nil")
		}
		c.clock = now
		return nil
	}
}
