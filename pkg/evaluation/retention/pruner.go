package retention

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"complyhq/compass/pkg/evaluation"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to retain evaluation results.
	// 0 means keep results forever (no pruning).
	RetentionDays int

	// PruneSchedule is a cron expression for scheduling pruning.
	// Example: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string

	// ArchiveBeforeDelete enables archiving results before deletion.
	ArchiveBeforeDelete bool

	// ArchivePath is the directory to store archived results.
	ArchivePath string
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays:       0,
		PruneSchedule:       "0 3 * * *",
		ArchiveBeforeDelete: false,
		ArchivePath:         "data/archives/",
	}
}

// Pruner enforces the retention policy on stored evaluation results.
type Pruner struct {
	storage   evaluation.Storage
	config    *Config
	logger    *slog.Logger
	scheduler *Scheduler
}

// NewPruner creates a new retention pruner.
func NewPruner(storage evaluation.Storage, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}

	pruner := &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "evaluation.retention"),
	}

	pruner.scheduler = NewScheduler(pruner)

	return pruner
}

// Prune deletes evaluation results older than the retention period and
// returns how many were removed. When RetentionDays is 0 pruning is a no-op.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.RetentionDays <= 0 {
		p.logger.Debug("retention disabled, nothing to prune")
		return 0, nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -p.config.RetentionDays)

	p.logger.Debug("pruning evaluations by age",
		"cutoff_time", cutoff,
		"retention_days", p.config.RetentionDays,
	)

	if p.config.ArchiveBeforeDelete {
		if err := p.archive(ctx, cutoff); err != nil {
			return 0, evaluation.NewRetentionError(p.config.RetentionDays, err)
		}
	}

	deleted, err := p.storage.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, evaluation.NewRetentionError(p.config.RetentionDays, err)
	}

	if deleted == 0 {
		p.logger.Debug("no evaluations pruned",
			"retention_days", p.config.RetentionDays,
		)
	} else {
		p.logger.Info("evaluation pruning completed",
			"deleted_count", deleted,
			"retention_days", p.config.RetentionDays,
		)
	}

	return deleted, nil
}

// archive writes the results that are about to be deleted to a dated JSON
// file under ArchivePath.
func (p *Pruner) archive(ctx context.Context, cutoff time.Time) error {
	results, err := p.storage.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list results for archiving: %w", err)
	}

	var expired []*evaluation.Result
	for _, r := range results {
		if t := r.EvaluatedTime(); !t.IsZero() && t.Before(cutoff) {
			expired = append(expired, r)
		}
	}

	if len(expired) == 0 {
		p.logger.Debug("no results to archive")
		return nil
	}

	if err := os.MkdirAll(p.config.ArchivePath, 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	archiveFile := filepath.Join(p.config.ArchivePath,
		fmt.Sprintf("evaluations-%s.json", time.Now().Format("2006-01-02-150405")))
	f, err := os.Create(archiveFile)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer f.Close()

	data, err := json.MarshalIndent(expired, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results for archive: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write archive file: %w", err)
	}

	p.logger.Info("evaluations archived",
		"archive_file", archiveFile,
		"result_count", len(expired),
	)

	return nil
}

// Start starts the automatic pruning scheduler.
// Call this when starting the application.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops the automatic pruning scheduler.
// Call this during graceful shutdown.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the time of the next scheduled pruning.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
