package report

import (
	"math"

	"aargeom/domain/core"
	"aargeom/domain/geometry"
	"aargeom/internal"
	"aargeom/internal/engine"
)

// AARResult is the container for a generated after-action review.
// ComplianceScore is a percentage in [0,100].
type AARResult struct {
	AARID           core.AARID             `json:"aar_id"`
	MissionID       core.MissionID         `json:"mission_id"`
	ComplianceScore float64                `json:"compliance_score"`
	ReportContent   map[string]interface{} `json:"report_content"`
	Metadata        map[string]interface{} `json:"metadata"`
	GeneratedAt     core.Timestamp         `json:"generated_at"`
}

// Params carries everything a generation run needs.
type Params struct {
	AARID            core.AARID
	MissionID        core.MissionID
	MissionType      string
	ContextData      *engine.Node
	Patterns         []string
	ComplianceTarget float64 // percentage, default 95
}

// Generator produces AAR reports shaped by the geometry engine's
// validation of the mission context.
type Generator struct {
	engine *engine.Engine
	logger *internal.Logger
}

// NewGenerator creates a report generator backed by the given engine.
func NewGenerator(eng *engine.Engine) *Generator {
	return &Generator{
		engine: eng,
		logger: internal.DefaultLogger,
	}
}

// Generate builds a complete AAR: validates the mission context,
// renders the mission-type template, applies the requested pattern
// structure enhancements and computes the blended compliance score.
func (g *Generator) Generate(params Params) (*AARResult, error) {
	if params.ComplianceTarget == 0 {
		params.ComplianceTarget = 95.0
	}

	g.logger.Info("starting AAR generation: aar_id=%s mission_type=%s",
		params.AARID, params.MissionType)

	validation := g.engine.ValidateData(params.ContextData)

	content := renderTemplate(params, validation)
	content = applyPatternStructure(content, params.Patterns)

	finalCompliance := g.finalCompliance(validation, content, params.ComplianceTarget)

	metadata := map[string]interface{}{
		"generation_method": "geometry_aar",
		"patterns_applied":  params.Patterns,
		"compliance_target": params.ComplianceTarget,
		"input_compliance":  validation.OverallCompliance,
		"template_used":     templateName(params.MissionType),
		"generator_version": "1.0.0",
	}

	g.logger.Info("AAR generation completed: aar_id=%s compliance=%.2f",
		params.AARID, finalCompliance)

	return &AARResult{
		AARID:           params.AARID,
		MissionID:       params.MissionID,
		ComplianceScore: finalCompliance,
		ReportContent:   content,
		Metadata:        metadata,
		GeneratedAt:     core.Now(),
	}, nil
}

// finalCompliance blends the input validation compliance (70%) with
// the structure compliance of the generated report itself (30%),
// penalizes missing the target, and reports a percentage capped at 100.
func (g *Generator) finalCompliance(
	validation geometry.AggregateResult,
	content map[string]interface{},
	target float64,
) float64 {
	base := validation.OverallCompliance

	structure := g.engine.ValidateData(engine.FromValue(content))
	enhancement := structure.OverallCompliance

	finalScore := base*0.7 + enhancement*0.3

	if finalScore < target/100 {
		penalty := (target/100 - finalScore) * 0.1
		finalScore = math.Max(0, finalScore-penalty)
	}

	return math.Min(finalScore*100, 100.0)
}
