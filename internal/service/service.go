package service

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"financehub/internal/latency"
	"financehub/internal/metrics"
)

// ErrNotFound is returned by Update when the target record does not exist.
var ErrNotFound = errors.New("not found")

const (
	EntityUsers        = "users"
	EntityTransactions = "transactions"
)

// Options tunes the simulated API. Zero values pick the defaults.
type Options struct {
	Delayer latency.Delayer
	Latency *latency.Profile
	Clock   func() time.Time
	NewID   func() string
	Logger  logrus.FieldLogger
	Metrics *metrics.Metrics
}

func (o Options) withDefaults() Options {
	if o.Delayer == nil {
		o.Delayer = latency.Sleep{}
	}
	if o.Latency == nil {
		p := latency.DefaultProfile()
		o.Latency = &p
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Logger == nil {
		o.Logger = logrus.New()
	}
	return o
}
