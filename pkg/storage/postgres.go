package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

//go:embed migrations/*.sql
var postgresFS embed.FS

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db  *sql.DB
	dsn string
}

// NewPostgresStore opens a connection pool, verifies it, and runs migrations.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db, dsn: dsn}

	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) migrate() error {
	schema, err := postgresFS.ReadFile("migrations/001_schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// SaveResult persists a full analysis run inside one transaction. The raw
// result is stored as JSONB so GetResult returns it byte-for-byte; the
// recommendations table exists for ad-hoc queries across runs.
func (s *PostgresStore) SaveResult(ctx context.Context, scope string, result *models.AnalysisResult) (string, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	runID := uuid.New().String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO analysis_runs (
			id, scope, generated_at, resources_analyzed,
			recommendation_count, error_count,
			total_monthly_savings, total_annual_savings, result
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		runID, scope, result.GeneratedAt, result.ResourcesAnalyzed,
		result.RecommendationCount(), len(result.ResourceErrors),
		result.TotalMonthlySavings, result.TotalAnnualSavings, payload,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	recStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recommendations (
			id, run_id, resource_id, kind, action,
			current_shape, proposed_shape, confidence, pattern,
			monthly_savings, annual_savings, impact, reasoning
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer recStmt.Close()

	for _, rec := range result.AllRecommendations() {
		_, err = recStmt.ExecContext(ctx,
			uuid.New().String(), runID, rec.ResourceID, rec.Kind, rec.Action,
			rec.CurrentShape, rec.ProposedShape, rec.Confidence, rec.WorkloadPattern,
			rec.MonthlySavings, rec.AnnualSavings, rec.PerformanceImpact, rec.Reasoning,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert recommendation for %s: %w", rec.ResourceID, err)
		}
	}

	for _, re := range result.ResourceErrors {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO resource_errors (run_id, resource_id, message)
			VALUES ($1, $2, $3)
		`, runID, re.ResourceID, re.Message)
		if err != nil {
			return "", fmt.Errorf("failed to insert resource error for %s: %w", re.ResourceID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}

	return runID, nil
}

// GetResult retrieves the stored result payload for a run.
func (s *PostgresStore) GetResult(ctx context.Context, runID string) (*models.AnalysisResult, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT result FROM analysis_runs WHERE id = $1`, runID,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &result, nil
}

// ListRuns returns the most recent runs for a scope, newest first. An empty
// scope lists runs across all scopes.
func (s *PostgresStore) ListRuns(ctx context.Context, scope string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, scope, generated_at, resources_analyzed,
			recommendation_count, error_count,
			total_monthly_savings, total_annual_savings, created_at
		FROM analysis_runs
	`
	args := []any{}
	if scope != "" {
		query += ` WHERE scope = $1 ORDER BY created_at DESC LIMIT $2`
		args = append(args, scope, limit)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		err := rows.Scan(
			&r.ID, &r.Scope, &r.GeneratedAt, &r.ResourcesAnalyzed,
			&r.Recommendations, &r.Errors,
			&r.TotalMonthlySavings, &r.TotalAnnualSavings, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
