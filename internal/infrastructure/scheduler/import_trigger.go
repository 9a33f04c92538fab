package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/commercehub/catalog-sync/internal/domain/importrun"
)

// ErrRunInFlight is returned when a manual trigger arrives while an import
// run is already executing.
var ErrRunInFlight = errors.New("an import run is already in flight")

// ImportRunner executes one catalog import run.
type ImportRunner interface {
	RunImport(ctx context.Context) (*importrun.Run, error)
}

// ImportTriggerConfig holds configuration for the import trigger
type ImportTriggerConfig struct {
	// Interval is the minimum time between two scheduled runs
	Interval time.Duration
	// RunTimeout bounds the duration of one run
	RunTimeout time.Duration
	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration
}

// DefaultImportTriggerConfig returns default import trigger configuration
func DefaultImportTriggerConfig() ImportTriggerConfig {
	return ImportTriggerConfig{
		Interval:      time.Hour,
		RunTimeout:    30 * time.Minute,
		CheckInterval: time.Minute,
	}
}

// ImportTrigger runs the catalog import on a fixed interval. At most one run
// executes at a time: a tick or manual trigger arriving while a run is in
// flight is skipped, never queued.
type ImportTrigger struct {
	config ImportTriggerConfig
	runner ImportRunner
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	inFlight  bool
	lastRun   time.Time
}

// NewImportTrigger creates a new import trigger
func NewImportTrigger(config ImportTriggerConfig, runner ImportRunner, logger *zap.Logger) *ImportTrigger {
	return &ImportTrigger{
		config: config,
		runner: runner,
		logger: logger,
	}
}

// Start starts the import trigger
func (t *ImportTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Import trigger started",
		zap.Duration("interval", t.config.Interval),
		zap.Duration("check_interval", t.config.CheckInterval),
	)

	return nil
}

// Stop stops the import trigger
func (t *ImportTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Import trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TriggerNow runs an import immediately, outside the schedule. It fails with
// ErrRunInFlight when a run is already executing.
func (t *ImportTrigger) TriggerNow(ctx context.Context) (*importrun.Run, error) {
	if !t.begin() {
		return nil, ErrRunInFlight
	}
	defer t.end()

	return t.execute(ctx)
}

// runLoop checks periodically if it's time for the next scheduled run
func (t *ImportTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.checkAndTrigger(ctx)
		}
	}
}

// checkAndTrigger runs an import when the interval has elapsed and no run is
// in flight
func (t *ImportTrigger) checkAndTrigger(ctx context.Context) {
	t.mu.Lock()
	due := time.Since(t.lastRun) >= t.config.Interval
	t.mu.Unlock()
	if !due {
		return
	}

	if !t.begin() {
		t.logger.Debug("Skipping scheduled import, a run is already in flight")
		return
	}
	defer t.end()

	t.logger.Info("Triggering scheduled catalog import")
	if _, err := t.execute(ctx); err != nil {
		t.logger.Error("Scheduled catalog import failed", zap.Error(err))
	}
}

// execute runs one import bounded by the configured timeout and records the
// run time
func (t *ImportTrigger) execute(ctx context.Context) (*importrun.Run, error) {
	runCtx, cancel := context.WithTimeout(ctx, t.config.RunTimeout)
	defer cancel()

	t.mu.Lock()
	t.lastRun = time.Now()
	t.mu.Unlock()

	return t.runner.RunImport(runCtx)
}

func (t *ImportTrigger) begin() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inFlight {
		return false
	}
	t.inFlight = true
	return true
}

func (t *ImportTrigger) end() {
	t.mu.Lock()
	t.inFlight = false
	t.mu.Unlock()
}
