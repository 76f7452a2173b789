// Package config loads toolbox settings.
//
// Precedence, highest first: command-line flag, TOOLBOX_* environment
// variable, YAML config file, built-in default.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to upper-cased flag names to find env overrides.
const EnvPrefix = "TOOLBOX_"

type (
	// Extract holds defaults for the extract command.
	Extract struct {
		Here         bool          `yaml:"here"`
		MaxFileSize  int64         `yaml:"max_file_size"`
		MaxTotalSize int64         `yaml:"max_total_size"`
		Wait         time.Duration `yaml:"wait"`
		PollInterval time.Duration `yaml:"poll_interval"`
	}
	// Compress holds defaults for the zip command.
	Compress struct {
		LZ4 bool `yaml:"lz4"`
	}
	// App is the full configuration.
	App struct {
		Verbose  bool     `yaml:"verbose"`
		Extract  Extract  `yaml:"extract"`
		Compress Compress `yaml:"compress"`
	}
)

// Default returns the built-in configuration.
func Default() App {
	return App{
		Extract: Extract{
			MaxFileSize:  1 << 30,
			MaxTotalSize: 4 << 30,
			PollInterval: 500 * time.Millisecond,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (App, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return c, fmt.Errorf("read config %s: %w", path, err)
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	// an empty file decodes to io.EOF and leaves the defaults alone
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// FillFromEnv sets any flag not explicitly passed on the command line from
// the environment. Flag "max-file-size" maps to TOOLBOX_MAX_FILE_SIZE.
// logf, when set, is told about ignored or overridden variables.
func FillFromEnv(fs *pflag.FlagSet, logf func(string, ...any)) {
	fs.VisitAll(func(f *pflag.Flag) {
		key := EnvPrefix + strings.ReplaceAll(strings.ToUpper(f.Name), "-", "_")
		envVal, envSet := os.LookupEnv(key)
		if !envSet {
			return
		}
		if f.Changed {
			if logf != nil {
				logf("flag --%s: cli value %q overrides env %s=%q", f.Name, f.Value.String(), key, envVal)
			}
			return
		}
		prev := f.Value.String()
		if err := fs.Set(f.Name, envVal); err != nil {
			// pflag values overwrite themselves even when parsing fails
			f.Value.Set(prev)
			if logf != nil {
				logf("flag --%s: ignoring invalid env %s=%q: %v", f.Name, key, envVal, err)
			}
		}
	})
}

// Validate reports every out-of-range value at once.
func Validate(c App) error {
	var errs []error
	if c.Extract.MaxFileSize < 0 {
		errs = append(errs, fmt.Errorf("invalid max_file_size %d (must be >= 0)", c.Extract.MaxFileSize))
	}
	if c.Extract.MaxTotalSize < 0 {
		errs = append(errs, fmt.Errorf("invalid max_total_size %d (must be >= 0)", c.Extract.MaxTotalSize))
	}
	if c.Extract.MaxFileSize > 0 && c.Extract.MaxTotalSize > 0 && c.Extract.MaxFileSize > c.Extract.MaxTotalSize {
		errs = append(errs, fmt.Errorf("max_file_size %d exceeds max_total_size %d", c.Extract.MaxFileSize, c.Extract.MaxTotalSize))
	}
	if c.Extract.Wait < 0 {
		errs = append(errs, fmt.Errorf("invalid wait %s (must be >= 0)", c.Extract.Wait))
	}
	if c.Extract.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("invalid poll_interval %s (must be > 0)", c.Extract.PollInterval))
	}
	return errors.Join(errs...)
}
