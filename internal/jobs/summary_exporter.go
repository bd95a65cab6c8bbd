package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mockprep/interview/internal/interview"
	"mockprep/interview/internal/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultBatchSize = 200

// ExportSource is the persistence the exporter reads from and marks.
type ExportSource interface {
	ListCompletedUnexported(ctx context.Context, limit int) ([]models.InterviewSession, error)
	MarkExported(ctx context.Context, sessionIDs []string, at time.Time) error
}

// ExporterConfig contains configuration for the exporter job
type ExporterConfig struct {
	Schedule      string // Cron schedule (e.g., "0 2 * * *" for 2 AM daily)
	ExportDir     string // Directory to store exported files
	ExportEnabled bool   // Whether to run exports
	BatchSize     int    // Sessions read per query
}

// SummaryExporterJob writes the summaries of completed sessions to JSONL
// files so they can be analysed offline.
type SummaryExporterJob struct {
	source  ExportSource
	options interview.SummaryOptions
	config  *ExporterConfig
	cron    *cron.Cron
	logger  *zap.Logger
	now     func() time.Time
}

type exportRecord struct {
	OwnerID    string            `json:"ownerId"`
	ExportedAt time.Time         `json:"exportedAt"`
	Summary    interview.Summary `json:"summary"`
}

func NewSummaryExporterJob(source ExportSource, options interview.SummaryOptions, config *ExporterConfig, logger *zap.Logger) *SummaryExporterJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryExporterJob{
		source:  source,
		options: options,
		config:  config,
		cron:    cron.New(),
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Start begins the scheduled export job
func (j *SummaryExporterJob) Start() error {
	if !j.config.ExportEnabled {
		j.logger.Info("summary export is disabled, skipping scheduler")
		return nil
	}

	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		if _, err := j.RunExport(context.Background()); err != nil {
			j.logger.Error("summary export failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export job: %w", err)
	}

	j.cron.Start()
	j.logger.Info("summary exporter started", zap.String("schedule", j.config.Schedule))
	return nil
}

// Stop stops the scheduled export job and waits for a running export.
func (j *SummaryExporterJob) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
		j.logger.Info("summary exporter stopped")
	}
}

// RunExport writes every pending summary to one file and returns its path.
// The path is empty when nothing was pending. Each batch is marked exported
// only after its lines are on disk.
func (j *SummaryExporterJob) RunExport(ctx context.Context) (path string, err error) {
	batchSize := j.config.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	exportedAt := j.now()
	var (
		file  *os.File
		count int
	)
	defer func() {
		if file != nil {
			if cerr := file.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close export file: %w", cerr)
			}
		}
	}()

	for {
		sessions, err := j.source.ListCompletedUnexported(ctx, batchSize)
		if err != nil {
			return path, fmt.Errorf("failed to list completed sessions: %w", err)
		}
		if len(sessions) == 0 {
			break
		}

		var buf bytes.Buffer
		ids := make([]string, 0, len(sessions))
		for i := range sessions {
			record := exportRecord{
				OwnerID:    sessions[i].OwnerID,
				ExportedAt: exportedAt,
				Summary:    interview.Aggregate(&sessions[i], j.options),
			}
			line, err := json.Marshal(record)
			if err != nil {
				return path, fmt.Errorf("failed to encode summary %s: %w", sessions[i].ID, err)
			}
			buf.Write(line)
			buf.WriteByte('\n')
			ids = append(ids, sessions[i].ID)
		}

		if file == nil {
			if file, path, err = j.createFile(exportedAt); err != nil {
				return "", err
			}
		}
		if _, err := file.Write(buf.Bytes()); err != nil {
			return path, fmt.Errorf("failed to write export file: %w", err)
		}
		if err := j.source.MarkExported(ctx, ids, exportedAt); err != nil {
			return path, fmt.Errorf("failed to mark sessions exported: %w", err)
		}
		count += len(ids)

		// marked sessions drop out of the query, so a short batch is the last one
		if len(sessions) < batchSize {
			break
		}
	}

	if count == 0 {
		j.logger.Info("no completed sessions to export")
		return "", nil
	}

	j.logger.Info("exported interview summaries",
		zap.Int("count", count),
		zap.String("path", path))
	return path, nil
}

func (j *SummaryExporterJob) createFile(at time.Time) (*os.File, string, error) {
	if err := os.MkdirAll(j.config.ExportDir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create export directory: %w", err)
	}
	filename := fmt.Sprintf("interview_summaries_%s.jsonl", at.Format("20060102_150405"))
	path := filepath.Join(j.config.ExportDir, filename)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create export file: %w", err)
	}
	return file, path, nil
}
