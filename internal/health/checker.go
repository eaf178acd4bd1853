package health

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Checker samples the host and logs a warning for every breach.
type Checker struct {
	Sampler Sampler
	Log     logrus.FieldLogger
	// Metrics is optional.
	Metrics *Metrics
}

// Check takes one sample and reports the breaches found in it.
func (c *Checker) Check(ctx context.Context) ([]Breach, error) {
	s, err := c.Sampler.Sample(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "sample host")
	}

	breaches := Evaluate(s)
	for _, b := range breaches {
		entry := c.Log.WithFields(logrus.Fields{
			"kind":      string(b.Kind),
			"value":     b.Value,
			"threshold": b.Threshold,
		})
		if b.Kind == KindProcess {
			entry = entry.WithFields(logrus.Fields{"pid": b.PID, "name": b.Name})
		}
		entry.Warn(b.Message())
	}

	c.Log.WithFields(logrus.Fields{
		"cpu":      s.CPU,
		"memory":   s.Memory,
		"disk":     s.Disk,
		"breaches": len(breaches),
	}).Debug("sampled host")

	if c.Metrics != nil {
		c.Metrics.Observe(s, breaches)
	}
	return breaches, nil
}

// Run matches worker.Task.
func (c *Checker) Run(ctx context.Context) error {
	_, err := c.Check(ctx)
	return err
}
