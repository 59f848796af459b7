package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"temperature-dashboard/internal/config"
	"temperature-dashboard/internal/export"
	"temperature-dashboard/internal/models"
	"temperature-dashboard/internal/pipeline"
	"temperature-dashboard/internal/stats"
	"temperature-dashboard/internal/store"
	"temperature-dashboard/pkg/client"
	"go.uber.org/zap"
)

// ErrRunInProgress is returned when a fetch is requested while a run is
// already executing. Runs are strictly one at a time.
var ErrRunInProgress = errors.New("a fetch run is already in progress")

// Dashboard ties the fetch pipeline, run store and exporter together for
// the presentation layer. Fetch runs execute in the background; callers
// poll Running or wait on the returned Job.
type Dashboard struct {
	runner   *pipeline.Runner
	store    *store.RunStore
	exporter *export.Exporter
	cities   []string
	logger   *zap.Logger

	mu      sync.Mutex
	current *pipeline.Job
}

func NewDashboard(cfg *config.Config, logger *zap.Logger) *Dashboard {
	fetcher := client.NewWttrClient(client.ClientConfig{
		BaseURL:   cfg.Fetch.BaseURL,
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   cfg.Fetch.Timeout,
	}, logger)

	return &Dashboard{
		runner:   pipeline.NewRunner(fetcher, cfg.Fetch.Throttle, logger),
		store:    store.NewRunStore(cfg.Store.MaxHistory),
		exporter: export.NewExporter(cfg.Export.OutputDir, logger),
		cities:   cfg.Fetch.Cities,
		logger:   logger,
	}
}

// StartFetch kicks off a background run over the configured city list and
// returns its Job. Only one run may execute at a time.
func (d *Dashboard) StartFetch(ctx context.Context) (*pipeline.Job, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.current != nil && d.current.Running() {
		return nil, ErrRunInProgress
	}

	job := d.runner.RunAsyncNotify(ctx, d.cities, d.store.SaveRun)
	d.current = job

	d.logger.Info("Fetch run started", zap.Int("cities", len(d.cities)))
	return job, nil
}

// Fetch runs the pipeline and blocks until it completes.
func (d *Dashboard) Fetch(ctx context.Context) (*pipeline.RunResult, error) {
	job, err := d.StartFetch(ctx)
	if err != nil {
		return nil, err
	}
	return job.Wait(), nil
}

// Running reports whether a fetch run is currently executing.
func (d *Dashboard) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current != nil && d.current.Running()
}

// Records returns the latest run's ResultSet in original city-list order.
func (d *Dashboard) Records() (models.ResultSet, error) {
	return d.store.LatestRecords()
}

// LastRun returns the latest completed run.
func (d *Dashboard) LastRun() (*pipeline.RunResult, error) {
	return d.store.Latest()
}

// Summary computes aggregate statistics over the latest run.
func (d *Dashboard) Summary() (*stats.Summary, error) {
	records, err := d.store.LatestRecords()
	if err != nil {
		return nil, err
	}
	return stats.Summarize(records)
}

// ExportCSV exports the latest run to a timestamped CSV file.
func (d *Dashboard) ExportCSV() (string, error) {
	records, err := d.store.LatestRecords()
	if err != nil {
		return "", err
	}
	return d.exporter.ExportCSV(records)
}

// ExportJSON exports the latest run to a timestamped JSON file.
func (d *Dashboard) ExportJSON() (string, error) {
	records, err := d.store.LatestRecords()
	if err != nil {
		return "", err
	}
	return d.exporter.ExportJSON(records)
}

// Cities returns the configured city list in fetch order.
func (d *Dashboard) Cities() []string {
	return d.cities
}

// Status describes the dashboard's fetch state for the presentation layer.
type Status struct {
	Running      bool       `json:"running"`
	LastStarted  *time.Time `json:"lastStarted,omitempty"`
	LastFinished *time.Time `json:"lastFinished,omitempty"`
	Records      int        `json:"records"`
	Failures     int        `json:"failures"`
}

func (d *Dashboard) Status() Status {
	status := Status{Running: d.Running()}

	run, err := d.store.Latest()
	if err != nil {
		return status
	}

	status.LastStarted = &run.StartedAt
	status.LastFinished = &run.FinishedAt
	status.Records = len(run.Records)
	status.Failures = len(run.Failures)
	return status
}
