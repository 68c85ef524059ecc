package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

const maxListLimit = 100

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (
	id, file_name, job_description, provider, model, status,
	final_score, score_source, report, archive_key, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	reportPayload, err := json.Marshal(analysis.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.FileName,
		analysis.JobDescription,
		analysis.Provider,
		analysis.Model,
		analysis.Status,
		analysis.Report.FinalScore,
		analysis.Report.ScoreSource,
		reportPayload,
		nullString(analysis.ArchiveKey),
		analysis.CreatedAt,
	)
	return err
}

// GetByID returns an analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	const query = `
SELECT id, file_name, job_description, provider, model, status, report, archive_key, created_at
FROM analyses
WHERE id = $1
LIMIT 1`

	a, err := scanAnalysis(r.DB.QueryRowContext(ctx, query, analysisID))
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	if err != nil {
		return Analysis{}, err
	}
	return a, nil
}

// ListRecent lists analyses ordered newest-first.
func (r *PGRepo) ListRecent(ctx context.Context, limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	const query = `
SELECT id, file_name, job_description, provider, model, status, report, archive_key, created_at
FROM analyses
ORDER BY created_at DESC
LIMIT $1`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var fileName sql.NullString
	var provider sql.NullString
	var model sql.NullString
	var report sql.NullString
	var archiveKey sql.NullString
	if err := row.Scan(
		&a.ID,
		&fileName,
		&a.JobDescription,
		&provider,
		&model,
		&a.Status,
		&report,
		&archiveKey,
		&a.CreatedAt,
	); err != nil {
		return Analysis{}, err
	}
	a.FileName = fileName.String
	a.Provider = provider.String
	a.Model = model.String
	a.ArchiveKey = archiveKey.String
	if report.Valid && report.String != "" {
		if err := json.Unmarshal([]byte(report.String), &a.Report); err != nil {
			return Analysis{}, fmt.Errorf("decode report id=%s: %w", a.ID, err)
		}
	}
	return a, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
