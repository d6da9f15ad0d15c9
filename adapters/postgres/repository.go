package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"aargeom/domain/core"
	"aargeom/domain/geometry"
	"aargeom/internal/report"
	"aargeom/ports"
)

// AARRepositoryImpl implements AARRepository for PostgreSQL
type AARRepositoryImpl struct {
	db *sqlx.DB
}

// NewAARRepository creates a new PostgreSQL AAR repository
func NewAARRepository(db *sqlx.DB) ports.AARRepository {
	return &AARRepositoryImpl{db: db}
}

// StoreAAR persists a generated AAR; re-storing the same aar_id
// replaces the previous row.
func (r *AARRepositoryImpl) StoreAAR(ctx context.Context, result *report.AARResult) error {
	contentJSON, err := json.Marshal(result.ReportContent)
	if err != nil {
		return fmt.Errorf("failed to marshal report content: %w", err)
	}
	metadataJSON, err := json.Marshal(result.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO aars (
			aar_id, mission_id, compliance_score, report_content,
			metadata, generated_at, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, 'completed', NOW())
		ON CONFLICT (aar_id) DO UPDATE SET
			mission_id = EXCLUDED.mission_id,
			compliance_score = EXCLUDED.compliance_score,
			report_content = EXCLUDED.report_content,
			metadata = EXCLUDED.metadata,
			generated_at = EXCLUDED.generated_at,
			status = EXCLUDED.status`,
		result.AARID, result.MissionID, result.ComplianceScore, contentJSON,
		metadataJSON, result.GeneratedAt.Time())

	return err
}

// StorePatternDetails persists the per-pattern validation breakdown.
func (r *AARRepositoryImpl) StorePatternDetails(ctx context.Context, aarID core.AARID, results map[geometry.Pattern]geometry.PatternResult) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM aar_patterns WHERE aar_id = $1`, aarID); err != nil {
		return err
	}

	for _, pattern := range geometry.AllPatterns() {
		pr, ok := results[pattern]
		if !ok {
			continue
		}
		detailsJSON, err := json.Marshal(pr.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal details for %s: %w", pattern, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO aar_patterns (
				aar_id, pattern_name, pattern_score, valid, details, created_at
			) VALUES ($1, $2, $3, $4, $5, NOW())`,
			aarID, pattern, pr.Score, pr.Valid, detailsJSON); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetAARStatus returns the lightweight status view of an AAR.
func (r *AARRepositoryImpl) GetAARStatus(ctx context.Context, aarID core.AARID) (*ports.AARStatus, error) {
	var status ports.AARStatus
	err := r.db.QueryRowContext(ctx, `
		SELECT aar_id, mission_id, status, compliance_score, generated_at, created_at
		FROM aars
		WHERE aar_id = $1
	`, aarID).Scan(
		&status.AARID, &status.MissionID, &status.Status,
		&status.ComplianceScore, &status.GeneratedAt, &status.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, core.ErrAARNotFound
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// GetAARReport returns the full stored AAR including report content.
func (r *AARRepositoryImpl) GetAARReport(ctx context.Context, aarID core.AARID) (*report.AARResult, error) {
	var result report.AARResult
	var contentJSON, metadataJSON []byte

	err := r.db.QueryRowContext(ctx, `
		SELECT aar_id, mission_id, compliance_score, report_content, metadata, generated_at
		FROM aars
		WHERE aar_id = $1
	`, aarID).Scan(
		&result.AARID, &result.MissionID, &result.ComplianceScore,
		&contentJSON, &metadataJSON, &result.GeneratedAt,
	)
	if err == sql.ErrNoRows {
		return nil, core.ErrAARNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(contentJSON, &result.ReportContent); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report content: %w", err)
	}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &result.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return &result, nil
}

// ListAARs returns stored AARs newest first.
func (r *AARRepositoryImpl) ListAARs(ctx context.Context, limit, offset int) ([]ports.AARStatus, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT aar_id, mission_id, status, compliance_score, generated_at, created_at
		FROM aars
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []ports.AARStatus
	for rows.Next() {
		var status ports.AARStatus
		if err := rows.Scan(
			&status.AARID, &status.MissionID, &status.Status,
			&status.ComplianceScore, &status.GeneratedAt, &status.CreatedAt,
		); err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}

	return statuses, rows.Err()
}

// GetComplianceStats aggregates stored compliance scores and buckets
// them into the standard compliance levels.
func (r *AARRepositoryImpl) GetComplianceStats(ctx context.Context) (*ports.ComplianceStats, error) {
	var stats ports.ComplianceStats
	var avg, min, max sql.NullFloat64

	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) as total_aars,
			AVG(compliance_score) as average_compliance,
			MIN(compliance_score) as min_compliance,
			MAX(compliance_score) as max_compliance
		FROM aars
	`).Scan(&stats.TotalAARs, &avg, &min, &max)
	if err != nil {
		return nil, err
	}

	if avg.Valid {
		stats.AverageCompliance = avg.Float64
	}
	if min.Valid {
		stats.MinCompliance = min.Float64
	}
	if max.Valid {
		stats.MaxCompliance = max.Float64
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			CASE
				WHEN compliance_score >= 90 THEN 'excellent'
				WHEN compliance_score >= 80 THEN 'good'
				WHEN compliance_score >= 70 THEN 'acceptable'
				WHEN compliance_score >= 50 THEN 'needs_improvement'
				ELSE 'critical'
			END as level,
			COUNT(*) as count
		FROM aars
		GROUP BY level
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats.Distribution = make(map[string]int)
	for rows.Next() {
		var level string
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			return nil, err
		}
		stats.Distribution[level] = count
	}

	return &stats, rows.Err()
}

// GetPatternTrends returns the recent score history for one pattern.
func (r *AARRepositoryImpl) GetPatternTrends(ctx context.Context, pattern geometry.Pattern, limit int) ([]ports.PatternTrendPoint, error) {
	if !geometry.IsSupported(string(pattern)) {
		return nil, core.NewPatternError(string(pattern))
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT p.aar_id, a.mission_id, p.pattern_score, p.created_at
		FROM aar_patterns p
		JOIN aars a ON a.aar_id = p.aar_id
		WHERE p.pattern_name = $1
		ORDER BY p.created_at DESC
		LIMIT $2
	`, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []ports.PatternTrendPoint
	for rows.Next() {
		var point ports.PatternTrendPoint
		if err := rows.Scan(&point.AARID, &point.MissionID, &point.Score, &point.CreatedAt); err != nil {
			return nil, err
		}
		points = append(points, point)
	}

	return points, rows.Err()
}
