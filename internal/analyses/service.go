package analyses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"smart-ats/internal/extract"
	"smart-ats/internal/llm"
	"smart-ats/internal/repair"
	"smart-ats/internal/scoring"
	"smart-ats/internal/shared/metrics"
	"smart-ats/internal/shared/storage/object"
	"smart-ats/internal/shared/telemetry"
)

const archiveNamespace = "analyses"

// Service runs the scoring pipeline and keeps the analysis history.
type Service struct {
	Repo Repo
	LLM  llm.Client
	// Store archives uploads and their extracted text when set.
	Store object.ObjectStore
	// Skills is the controlled vocabulary; empty means the built-in default.
	Skills   []string
	Provider string
	Model    string
	Now      func() time.Time
}

// Analyze validates the submission, extracts the resume text, scores it against the job
// description and consults the model. Model and repair failures degrade the report to
// similarity-only; they are never returned as errors.
func (s *Service) Analyze(ctx context.Context, sub Submission) (Analysis, error) {
	if len(sub.Data) == 0 {
		metrics.IncAnalysisRejected()
		return Analysis{}, fmt.Errorf("%w: resume document is required", ErrMissingInput)
	}
	if strings.TrimSpace(sub.JobDescription) == "" {
		metrics.IncAnalysisRejected()
		return Analysis{}, fmt.Errorf("%w: job description is required", ErrMissingInput)
	}

	started := s.now()
	resumeText, err := extract.ExtractTextFromBytes(ctx, sub.Data, sub.ContentType, sub.FileName)
	if err != nil {
		metrics.IncAnalysisRejected()
		return Analysis{}, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	vocab := scoring.NewVocabulary(s.Skills)
	normalizedResume := scoring.Normalize(resumeText)
	normalizedJD := scoring.Normalize(sub.JobDescription)
	signals := Signals{
		Similarity:   scoring.Similarity(normalizedResume, normalizedJD),
		ResumeSkills: vocab.Match(normalizedResume),
		JobSkills:    vocab.Match(normalizedJD),
	}

	model := llm.Pick(sub.Model, s.Model)
	llmStarted := time.Now()
	raw := llm.Complete(ctx, s.LLM, llm.Request{
		Prompt:   llm.BuildPrompt(normalizedResume, normalizedJD),
		Endpoint: strings.TrimSpace(sub.Endpoint),
		Model:    model,
	})
	metrics.ObserveLLMDurationMs(float64(time.Since(llmStarted).Microseconds()) / 1000.0)

	var res repair.Result
	if !llm.IsErrorMarker(raw) {
		res = repair.Repair(raw)
	}
	report := Present(signals, raw, res)

	analysis := Analysis{
		ID:             uuid.NewString(),
		FileName:       sub.FileName,
		JobDescription: sub.JobDescription,
		Provider:       s.Provider,
		Model:          model,
		Status:         StatusCompleted,
		Report:         report,
		CreatedAt:      started.UTC(),
	}
	if !report.Blended() {
		analysis.Status = StatusDegraded
	}

	if s.Store != nil {
		key, err := extract.Archive(ctx, s.Store, archiveNamespace, sub.FileName, sub.Data, resumeText)
		if err != nil {
			telemetry.Warn("analysis.archive_failed", map[string]any{
				"request_id":  requestIDFromContext(ctx),
				"analysis_id": analysis.ID,
				"error":       err.Error(),
			})
		}
		analysis.ArchiveKey = key
	}

	if s.Repo != nil {
		if err := s.Repo.Create(ctx, analysis); err != nil {
			return Analysis{}, fmt.Errorf("store analysis: %w", err)
		}
	}

	s.logOutcome(ctx, analysis, started)
	return analysis, nil
}

// Get returns a stored analysis.
func (s *Service) Get(ctx context.Context, id string) (Analysis, error) {
	if s.Repo == nil {
		return Analysis{}, ErrNotFound
	}
	if _, err := uuid.Parse(id); err != nil {
		return Analysis{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns the most recent analyses, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Analysis, error) {
	if s.Repo == nil {
		return []Analysis{}, nil
	}
	return s.Repo.ListRecent(ctx, limit)
}

func (s *Service) logOutcome(ctx context.Context, analysis Analysis, started time.Time) {
	fields := map[string]any{
		"request_id":   requestIDFromContext(ctx),
		"analysis_id":  analysis.ID,
		"status":       analysis.Status,
		"provider":     analysis.Provider,
		"model":        analysis.Model,
		"final_score":  analysis.Report.FinalScore,
		"score_source": analysis.Report.ScoreSource,
		"duration_ms":  float64(s.now().Sub(started).Microseconds()) / 1000.0,
	}
	if f := analysis.Report.Failure; f != nil {
		fields["failure_kind"] = f.Kind
		fields["failure_reason"] = f.Reason
	}

	if analysis.Status == StatusDegraded {
		metrics.IncAnalysisDegraded()
		telemetry.Warn("analysis.degraded", fields)
		return
	}
	metrics.IncAnalysisCompleted()
	telemetry.Info("analysis.completed", fields)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// IsClientError reports whether err was caused by the submission rather than the service.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingInput) || errors.Is(err, ErrExtraction)
}
