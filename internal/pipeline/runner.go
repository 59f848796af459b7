package pipeline

import (
	"context"
	"errors"
	"time"

	"temperature-dashboard/internal/models"
	"go.uber.org/zap"
)

// Fetcher produces one record per city.
type Fetcher interface {
	Fetch(ctx context.Context, city string) (models.TemperatureRecord, error)
}

// RunResult is everything one pipeline run produced: the ordered successes
// and the per-city failures. A run with zero successes is still a valid
// result, not an error.
type RunResult struct {
	Records    models.ResultSet     `json:"records"`
	Failures   []*models.FetchError `json:"-"`
	StartedAt  time.Time            `json:"startedAt"`
	FinishedAt time.Time            `json:"finishedAt"`
}

// Runner iterates the configured city list in order, fetching one city at a
// time with a fixed throttle between requests.
type Runner struct {
	fetcher  Fetcher
	throttle time.Duration
	logger   *zap.Logger
}

func NewRunner(fetcher Fetcher, throttle time.Duration, logger *zap.Logger) *Runner {
	return &Runner{
		fetcher:  fetcher,
		throttle: throttle,
		logger:   logger,
	}
}

// Run fetches every city sequentially. Failures are logged and skipped; the
// run always visits the full list. The throttle applies between consecutive
// requests regardless of outcome.
func (r *Runner) Run(ctx context.Context, cities []string) *RunResult {
	result := &RunResult{
		Records:   make(models.ResultSet, 0, len(cities)),
		StartedAt: time.Now(),
	}

	r.logger.Info("Starting temperature fetch run", zap.Int("cities", len(cities)))

	for i, city := range cities {
		if i > 0 {
			time.Sleep(r.throttle)
		}

		record, err := r.fetcher.Fetch(ctx, city)
		if err != nil {
			var fetchErr *models.FetchError
			if !errors.As(err, &fetchErr) {
				fetchErr = &models.FetchError{City: city, Reason: models.FailureNetwork, Err: err}
			}
			result.Failures = append(result.Failures, fetchErr)
			r.logger.Warn("City fetch failed",
				zap.String("city", city),
				zap.String("reason", string(fetchErr.Reason)),
				zap.Error(fetchErr.Err))
			continue
		}

		result.Records = append(result.Records, record)
		r.logger.Info("City fetch succeeded",
			zap.String("city", city),
			zap.Float64("min_temp_c", record.MinTempC),
			zap.Float64("max_temp_c", record.MaxTempC))
	}

	result.FinishedAt = time.Now()
	r.logger.Info("Temperature fetch run completed",
		zap.Int("success", len(result.Records)),
		zap.Int("failure", len(result.Failures)),
		zap.Duration("duration", result.FinishedAt.Sub(result.StartedAt)))

	return result
}

// Job is a handle to a run executing in the background. The presentation
// layer waits on Done or calls Wait instead of managing its own goroutine.
type Job struct {
	done   chan struct{}
	result *RunResult
}

// RunAsync starts Run on a background goroutine and returns immediately.
func (r *Runner) RunAsync(ctx context.Context, cities []string) *Job {
	return r.RunAsyncNotify(ctx, cities, nil)
}

// RunAsyncNotify is RunAsync with a completion hook. onDone runs on the
// job's goroutine before Done is signalled, so anything it publishes is
// visible to waiters.
func (r *Runner) RunAsyncNotify(ctx context.Context, cities []string, onDone func(*RunResult)) *Job {
	job := &Job{done: make(chan struct{})}

	go func() {
		job.result = r.Run(ctx, cities)
		if onDone != nil {
			onDone(job.result)
		}
		close(job.done)
	}()

	return job
}

// Done is closed when the run has finished.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the run finishes and returns its result.
func (j *Job) Wait() *RunResult {
	<-j.done
	return j.result
}

// Running reports whether the run is still in progress.
func (j *Job) Running() bool {
	select {
	case <-j.done:
		return false
	default:
		return true
	}
}

// Result returns the run result, or nil while the run is in progress.
func (j *Job) Result() *RunResult {
	if j.Running() {
		return nil
	}
	return j.result
}
