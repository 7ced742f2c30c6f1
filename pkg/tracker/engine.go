// Package tracker implements the message tracking engine: a bounded polling
// loop that reports one Result per attempt until the message reaches a
// terminal status or the retry ceiling is hit.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/chainsafe/bridge-tracker/internal/metrics"
	"github.com/chainsafe/bridge-tracker/pkg/config"
	"github.com/chainsafe/bridge-tracker/pkg/message"
)

const (
	DefaultMaxRetries           = 30
	DefaultRetryInterval        = 10 * time.Second
	DefaultSyntheticGraceRounds = 2

	WaitingMessage = "Waiting for message to appear..."
	TimeoutMessage = "Timeout: message delivery is taking longer than expected"
)

// ErrInvalidMessageID is returned by Track before polling starts when the id
// is not a hex string.
var ErrInvalidMessageID = errors.New("invalid message id")

var validate = validator.New()

// ValidateID checks that id is a non-empty hex string, 0x prefix optional.
func ValidateID(id string) error {
	if err := validate.Var(id, "required,hexadecimal"); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMessageID, id)
	}
	return nil
}

// Fetcher looks up the current record for a message id. A nil record with a
// nil error means the message is not known yet.
//
//go:generate mockery --name Fetcher --output mocks --outpkg mocks --filename mock_fetcher.go --with-expecter
type Fetcher interface {
	FetchMessage(ctx context.Context, id string) (*message.Record, error)
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// UpdateFunc receives the result of every attempt, in attempt order.
type UpdateFunc func(Result)

// Options is the polling policy.
type Options struct {
	MaxRetries    int
	RetryInterval time.Duration
	// SyntheticGraceRounds is the number of attempts a synthetic in-flight
	// record is reported as-is before it is advanced to delivered.
	SyntheticGraceRounds int

	Sleep Sleeper
	Now   func() time.Time
}

// DefaultOptions returns the standard polling policy (30 attempts, 10s apart).
func DefaultOptions() Options {
	return Options{
		MaxRetries:           DefaultMaxRetries,
		RetryInterval:        DefaultRetryInterval,
		SyntheticGraceRounds: DefaultSyntheticGraceRounds,
	}
}

// OptionsFromConfig builds Options from the tracker configuration section.
func OptionsFromConfig(cfg *config.TrackerConfig) Options {
	return Options{
		MaxRetries:           cfg.MaxRetries,
		RetryInterval:        cfg.RetryInterval,
		SyntheticGraceRounds: cfg.SyntheticGraceRounds,
	}
}

// Engine polls a Fetcher for one message at a time. It keeps no state
// between Track calls, so a single Engine may serve many concurrent runs.
type Engine struct {
	fetcher Fetcher
	opts    Options
	logger  *zap.Logger
}

// NewEngine creates a new tracking engine
func NewEngine(fetcher Fetcher, opts Options, logger *zap.Logger) *Engine {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.RetryInterval < 0 {
		opts.RetryInterval = 0
	}
	if opts.SyntheticGraceRounds < 0 {
		opts.SyntheticGraceRounds = 0
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		fetcher: fetcher,
		opts:    opts,
		logger:  logger,
	}
}

// Options returns the effective polling policy.
func (e *Engine) Options() Options {
	return e.opts
}

// Track polls until the message is delivered or failed, or MaxRetries
// attempts have been made. onUpdate (may be nil) is called once per attempt.
//
// Fetch errors never end the run; they are reported as pending. Track only
// returns an error for an invalid id or when ctx is cancelled between
// attempts. A fetch already issued is not cancelled by ctx and is bounded
// by the fetcher's own timeout.
func (e *Engine) Track(ctx context.Context, id string, onUpdate UpdateFunc) (Result, error) {
	if err := ValidateID(id); err != nil {
		return Result{}, err
	}

	logger := e.logger.With(zap.String("message_id", id))
	logger.Info("Tracking message",
		zap.Int("max_retries", e.opts.MaxRetries),
		zap.Duration("retry_interval", e.opts.RetryInterval))

	start := e.opts.Now()
	for attempt := 0; attempt < e.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := e.opts.Sleep(ctx, e.opts.RetryInterval); err != nil {
				logger.Info("Tracking cancelled", zap.Int("attempt", attempt))
				return Result{}, fmt.Errorf("tracking %s cancelled: %w", id, err)
			}
		}

		result := e.attempt(context.WithoutCancel(ctx), logger, id, attempt)
		if onUpdate != nil {
			onUpdate(result)
		}

		if result.Terminal() {
			logger.Info("Tracking finished",
				zap.String("status", string(result.Status)),
				zap.Int("attempts", attempt+1),
				zap.Bool("synthetic", result.IsSynthetic),
				zap.String("dest_tx_hash", result.DestinationTxHash))
			observeRun(result, start, e.opts.Now())
			return result, nil
		}
	}

	logger.Warn("Tracking timed out", zap.Int("attempts", e.opts.MaxRetries))
	result := Result{Status: StatusPending, Error: TimeoutMessage}
	observeRun(result, start, e.opts.Now())
	return result, nil
}

// attempt runs one fetch and classifies its outcome.
func (e *Engine) attempt(ctx context.Context, logger *zap.Logger, id string, attempt int) Result {
	rec, err := e.fetcher.FetchMessage(ctx, id)
	switch {
	case err != nil:
		logger.Warn("Failed to fetch message status",
			zap.Int("attempt", attempt),
			zap.Error(err))
		metrics.TrackAttemptsTotal.WithLabelValues("error").Inc()
		metrics.ErrorsTotal.WithLabelValues("tracker", "fetch").Inc()
		msg := err.Error()
		if attempt == 0 {
			msg = WaitingMessage
		}
		return Result{Status: StatusPending, Error: msg}

	case rec == nil:
		logger.Debug("Message not found yet", zap.Int("attempt", attempt))
		metrics.TrackAttemptsTotal.WithLabelValues("not_found").Inc()
		r := Result{Status: StatusNotFound}
		if attempt == 0 {
			r.Error = WaitingMessage
		}
		return r
	}

	rec = rec.Clone()
	if rec.IsSynthetic && rec.Status == message.StatusInFlight && attempt > e.opts.SyntheticGraceRounds {
		logger.Info("Advancing synthetic record to delivered", zap.Int("attempt", attempt))
		rec.MarkDelivered(message.DeriveDestTxHash(id), e.opts.Now())
	}

	result := FromRecord(rec)
	metrics.TrackAttemptsTotal.WithLabelValues(string(result.Status)).Inc()
	logger.Debug("Message status",
		zap.Int("attempt", attempt),
		zap.String("status", string(rec.Status)),
		zap.Bool("synthetic", rec.IsSynthetic))
	return result
}

func observeRun(r Result, start, end time.Time) {
	metrics.TrackRunsTotal.WithLabelValues(string(r.Status), strconv.FormatBool(r.IsSynthetic)).Inc()
	metrics.TrackRunDuration.WithLabelValues(string(r.Status)).Observe(end.Sub(start).Seconds())
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
