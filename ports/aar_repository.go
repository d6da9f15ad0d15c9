package ports

import (
	"context"

	"aargeom/domain/core"
	"aargeom/domain/geometry"
	"aargeom/internal/report"
)

// AARStatus is the lightweight status view of a stored AAR.
type AARStatus struct {
	AARID           core.AARID     `json:"aar_id"`
	MissionID       core.MissionID `json:"mission_id"`
	Status          string         `json:"status"`
	ComplianceScore float64        `json:"compliance_score"`
	GeneratedAt     core.Timestamp `json:"generated_at"`
	CreatedAt       core.Timestamp `json:"created_at"`
}

// ComplianceStats summarizes stored compliance scores.
type ComplianceStats struct {
	TotalAARs         int            `json:"total_aars"`
	AverageCompliance float64        `json:"average_compliance"`
	MinCompliance     float64        `json:"min_compliance"`
	MaxCompliance     float64        `json:"max_compliance"`
	Distribution      map[string]int `json:"compliance_distribution"`
}

// PatternTrendPoint is one historical score for a pattern.
type PatternTrendPoint struct {
	AARID     core.AARID     `json:"aar_id"`
	MissionID core.MissionID `json:"mission_id"`
	Score     float64        `json:"pattern_score"`
	CreatedAt core.Timestamp `json:"created_at"`
}

// AARRepository defines the persistence boundary for generated AARs.
// The engine itself never touches storage; only the API layer and the
// CLIs do, through this port.
type AARRepository interface {
	StoreAAR(ctx context.Context, result *report.AARResult) error
	StorePatternDetails(ctx context.Context, aarID core.AARID, results map[geometry.Pattern]geometry.PatternResult) error
	GetAARStatus(ctx context.Context, aarID core.AARID) (*AARStatus, error)
	GetAARReport(ctx context.Context, aarID core.AARID) (*report.AARResult, error)
	ListAARs(ctx context.Context, limit, offset int) ([]AARStatus, error)
	GetComplianceStats(ctx context.Context) (*ComplianceStats, error)
	GetPatternTrends(ctx context.Context, pattern geometry.Pattern, limit int) ([]PatternTrendPoint, error)
}
