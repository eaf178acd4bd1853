package config

import (
	"time"

	envstruct "code.cloudfoundry.org/go-envstruct"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/logtally/internal/output"
)

// TallyConfig stores all configuration options for logtally.
type TallyConfig struct {
	InputPath  string `env:"LOGTALLY_INPUT_PATH"`
	ReportPath string `env:"LOGTALLY_REPORT_PATH"`
	Format     string `env:"LOGTALLY_FORMAT"`
	LogLevel   string `env:"LOGTALLY_LOG_LEVEL"`
}

// LoadTally reads from the environment to create a TallyConfig.
func LoadTally() (*TallyConfig, error) {
	conf := TallyConfig{
		InputPath:  "/var/log/nginx/access.log",
		ReportPath: "log_report.txt",
		Format:     string(output.FormatText),
		LogLevel:   "info",
	}

	if err := envstruct.Load(&conf); err != nil {
		return nil, errors.Wrap(err, "load logtally config")
	}

	return &conf, nil
}

// Validate checks values that may have come from flags.
func (c *TallyConfig) Validate() error {
	if c.InputPath == "" {
		return errors.New("input path must not be empty")
	}
	if c.ReportPath == "" {
		return errors.New("report path must not be empty")
	}
	if _, err := c.ReportFormat(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	return nil
}

// ReportFormat returns the parsed report format.
func (c *TallyConfig) ReportFormat() (output.Format, error) {
	return output.ParseFormat(c.Format)
}

// HealthConfig stores all configuration options for healthcheck.
// Thresholds are fixed in the health package and are not configurable.
type HealthConfig struct {
	LogFile      string        `env:"HEALTHCHECK_LOG_FILE"`
	Interval     time.Duration `env:"HEALTHCHECK_INTERVAL"`
	SampleWindow time.Duration `env:"HEALTHCHECK_SAMPLE_WINDOW"`
	DiskPath     string        `env:"HEALTHCHECK_DISK_PATH"`
	MetricsAddr  string        `env:"HEALTHCHECK_METRICS_ADDR"`
	LogLevel     string        `env:"HEALTHCHECK_LOG_LEVEL"`
}

// LoadHealth reads from the environment to create a HealthConfig.
func LoadHealth() (*HealthConfig, error) {
	conf := HealthConfig{
		LogFile:      "system_health.log",
		SampleWindow: time.Second,
		DiskPath:     "/",
		LogLevel:     "info",
	}

	if err := envstruct.Load(&conf); err != nil {
		return nil, errors.Wrap(err, "load healthcheck config")
	}

	return &conf, nil
}

// Validate checks values that may have come from flags.
func (c *HealthConfig) Validate() error {
	if c.Interval < 0 {
		return errors.Errorf("interval must not be negative, got %s", c.Interval)
	}
	if c.SampleWindow <= 0 {
		return errors.Errorf("sample window must be positive, got %s", c.SampleWindow)
	}
	if c.Interval > 0 && c.Interval < c.SampleWindow {
		return errors.Errorf("interval %s is shorter than the sample window %s", c.Interval, c.SampleWindow)
	}
	if c.DiskPath == "" {
		return errors.New("disk path must not be empty")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	return nil
}
