// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package exporterhelper

import (
	"context"
	"errors"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/jaegertracing/jaeger/pkg/queue"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/telepipe/telepipe/consumer/consumererror"
	"github.com/telepipe/telepipe/obsreport"
)

// QueueSettings defines configuration for queueing batches before sending.
// The queue is the backpressure boundary: when it is full, new batches are
// rejected with a throttle error instead of buffering without bound.
type QueueSettings struct {
	// Enabled indicates whether to enqueue batches before sending.
	Enabled bool `mapstructure:"enabled"`
	// NumConsumers is the number of goroutines draining the queue.
	NumConsumers int `mapstructure:"num_consumers"`
	// QueueSize is the maximum number of batches allowed in the queue.
	QueueSize int `mapstructure:"queue_size"`
}

// DefaultQueueSettings returns the default settings for QueueSettings.
func DefaultQueueSettings() QueueSettings {
	return QueueSettings{
		Enabled:      true,
		NumConsumers: 10,
		// 5000 batches at 100 batches/sec gives ~50s of buffering over
		// a destination outage.
		QueueSize: 5000,
	}
}

// Validate checks the queue settings.
func (qCfg *QueueSettings) Validate() error {
	if !qCfg.Enabled {
		return nil
	}
	if qCfg.QueueSize <= 0 {
		return errors.New("queue_size must be positive")
	}
	if qCfg.NumConsumers <= 0 {
		return errors.New("num_consumers must be positive")
	}
	return nil
}

// RetrySettings defines configuration for retrying failed sends with
// exponential backoff and jitter.
type RetrySettings struct {
	// Enabled indicates whether to retry on transient failure.
	Enabled bool `mapstructure:"enabled"`
	// InitialInterval is the wait after the first failure.
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	// MaxInterval is the upper bound on the backoff interval.
	MaxInterval time.Duration `mapstructure:"max_interval"`
	// MaxElapsedTime caps the total time spent on one batch including
	// retries; past it the batch is dropped.
	MaxElapsedTime time.Duration `mapstructure:"max_elapsed_time"`
}

// DefaultRetrySettings returns the default settings for RetrySettings.
func DefaultRetrySettings() RetrySettings {
	return RetrySettings{
		Enabled:         true,
		InitialInterval: 5 * time.Second,
		MaxInterval:     30 * time.Second,
		MaxElapsedTime:  5 * time.Minute,
	}
}

var errQueueFull = errors.New("sending queue is full")

// queueFullRetryDelay is the Retry-After hint propagated upstream when the
// queue rejects a batch.
const queueFullRetryDelay = 5 * time.Second

type requestSender interface {
	send(req request) error
}

type queuedRetrySender struct {
	cfg            QueueSettings
	signal         string
	consumerSender requestSender
	queue          *queue.BoundedQueue
	queuedItems    *atomic.Int64
	retryStopCh    chan struct{}
	logger         *zap.Logger
	obsexp         *obsreport.ExporterMetrics
}

func newQueuedRetrySender(signal string, qCfg QueueSettings, rCfg RetrySettings, nextSender requestSender, logger *zap.Logger, obsexp *obsreport.ExporterMetrics) *queuedRetrySender {
	retryStopCh := make(chan struct{})
	return &queuedRetrySender{
		cfg:    qCfg,
		signal: signal,
		consumerSender: &retrySender{
			cfg:        rCfg,
			nextSender: nextSender,
			stopCh:     retryStopCh,
			logger:     logger,
		},
		queue:       queue.NewBoundedQueue(qCfg.QueueSize, func(item interface{}) {}),
		queuedItems: atomic.NewInt64(0),
		retryStopCh: retryStopCh,
		logger:      logger,
		obsexp:      obsexp,
	}
}

// start launches the queue consumers.
func (qrs *queuedRetrySender) start() {
	qrs.obsexp.SetQueueCapacity(qrs.signal, qrs.cfg.QueueSize)
	qrs.queue.StartConsumers(qrs.cfg.NumConsumers, func(item interface{}) {
		req := item.(request)
		qrs.queuedItems.Sub(int64(req.count()))
		err := qrs.consumerSender.send(req)
		qrs.obsexp.SetQueueSize(qrs.signal, qrs.queue.Size())
		if err == nil {
			return
		}
		reason := obsreport.ReasonRetryExpired
		if consumererror.IsPermanent(err) {
			reason = obsreport.ReasonPermanent
		}
		qrs.obsexp.Dropped(req.signal(), reason, req.count())
		qrs.logger.Error("Exporting failed. Dropping data.",
			zap.Error(err), zap.Int("dropped_items", req.count()))
	})
}

// send implements requestSender. With the queue enabled it never blocks: a
// full queue rejects the batch with a throttle error that propagates all the
// way to the ingress as the backpressure signal.
func (qrs *queuedRetrySender) send(req request) error {
	if !qrs.cfg.Enabled {
		return qrs.consumerSender.send(req)
	}

	// A queued batch outlives the ingress request; keep the context's
	// values but not its cancellation.
	req.setContext(noCancellationContext{Context: req.context()})

	if !qrs.queue.Produce(req) {
		qrs.obsexp.Dropped(req.signal(), obsreport.ReasonQueueFull, req.count())
		return consumererror.NewThrottleRetry(errQueueFull, queueFullRetryDelay)
	}
	qrs.queuedItems.Add(int64(req.count()))
	qrs.obsexp.SetQueueSize(qrs.signal, qrs.queue.Size())
	return nil
}

// shutdown stops the retry goroutines first so queue workers cannot park in
// a backoff wait, then stops the queue. Batches still queued at that point
// are reported as dropped.
func (qrs *queuedRetrySender) shutdown() {
	close(qrs.retryStopCh)

	if remaining := int(qrs.queuedItems.Load()); remaining > 0 {
		qrs.obsexp.Dropped(qrs.signal, obsreport.ReasonShutdown, remaining)
		qrs.logger.Warn("Shutdown with unsent items remaining in queue",
			zap.Int("dropped_items", remaining))
	}
	qrs.queue.Stop()
	qrs.obsexp.SetQueueSize(qrs.signal, 0)
}

// noCancellationContext keeps the parent's values but detaches its deadline
// and cancellation.
type noCancellationContext struct {
	context.Context
}

func (noCancellationContext) Deadline() (deadline time.Time, ok bool) { return }
func (noCancellationContext) Done() <-chan struct{}                   { return nil }
func (noCancellationContext) Err() error                              { return nil }

type retrySender struct {
	cfg        RetrySettings
	nextSender requestSender
	stopCh     chan struct{}
	logger     *zap.Logger
}

// send retries transient failures with exponential backoff until the batch
// is delivered, the retry budget is exhausted, a permanent error is seen, or
// shutdown interrupts the wait.
func (rs *retrySender) send(req request) error {
	if !rs.cfg.Enabled {
		return rs.nextSender.send(req)
	}

	expBackoff := backoff.ExponentialBackOff{
		InitialInterval:     rs.cfg.InitialInterval,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          backoff.DefaultMultiplier,
		MaxInterval:         rs.cfg.MaxInterval,
		MaxElapsedTime:      rs.cfg.MaxElapsedTime,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	expBackoff.Reset()
	for {
		err := rs.nextSender.send(req)
		if err == nil {
			return nil
		}

		// Immediately drop data on permanent errors.
		if consumererror.IsPermanent(err) {
			return err
		}

		backoffDelay := expBackoff.NextBackOff()
		if backoffDelay == backoff.Stop {
			return fmt.Errorf("max elapsed time expired: %w", err)
		}

		// A sink's throttling signal stretches the wait to at least
		// the advertised delay.
		if throttleDelay := consumererror.ThrottleDelay(err); throttleDelay > backoffDelay {
			backoffDelay = throttleDelay
		}

		rs.logger.Info("Exporting failed. Will retry the request after interval.",
			zap.Error(err), zap.Duration("interval", backoffDelay))

		select {
		case <-req.context().Done():
			return fmt.Errorf("request is cancelled or timed out: %w", err)
		case <-rs.stopCh:
			return fmt.Errorf("interrupted due to shutdown: %w", err)
		case <-time.After(backoffDelay):
		}
	}
}
