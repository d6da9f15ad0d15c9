package report

import (
	"fmt"
	"strings"

	"aargeom/domain/geometry"
	"aargeom/internal/engine"
)

// Mission types with a dedicated report template. Unknown types fall
// back to the general template.
const (
	MissionFileOrganization = "file_organization"
	MissionMonitoring       = "monitoring_system"
	MissionDevelopment      = "development"
	MissionDeployment       = "deployment"
	MissionMaintenance      = "maintenance"
	MissionGeneral          = "general"
)

func templateName(missionType string) string {
	switch missionType {
	case MissionFileOrganization, MissionMonitoring, MissionDevelopment,
		MissionDeployment, MissionMaintenance:
		return missionType
	default:
		return MissionGeneral
	}
}

// renderTemplate builds the report content for the mission type.
func renderTemplate(params Params, validation geometry.AggregateResult) map[string]interface{} {
	ctx := params.ContextData

	content := map[string]interface{}{
		"aar_id":      params.AARID.String(),
		"mission_id":  params.MissionID.String(),
		"report_type": templateName(params.MissionType),
		"executive_summary": map[string]interface{}{
			"mission_overview": textOr(ctx, "mission_overview",
				textOr(ctx, "description", "Mission overview not provided")),
			"mission_status":   textOr(ctx, "status", "completed"),
			"compliance_score": validation.OverallCompliance,
		},
		"geometry_analysis":      geometryAnalysis(params.Patterns, validation),
		"what_went_well":         whatWentWell(ctx, validation),
		"what_could_be_improved": whatCouldBeImproved(ctx, validation),
		"metrics":                metricsSection(ctx, validation),
		"lessons_learned": map[string]interface{}{
			"key_insights":   listOr(ctx, "key_insights"),
			"best_practices": listOr(ctx, "best_practices"),
		},
		"action_items": map[string]interface{}{
			"immediate_actions":  listOr(ctx, "immediate_actions"),
			"follow_up_required": boolOr(ctx, "follow_up_required", false),
		},
	}

	switch templateName(params.MissionType) {
	case MissionFileOrganization:
		content["what_happened"] = map[string]interface{}{
			"files_processed":     listOr(ctx, "files_processed"),
			"directories_created": listOr(ctx, "directories_created"),
			"patterns_applied":    params.Patterns,
		}
	case MissionMonitoring:
		content["what_happened"] = map[string]interface{}{
			"alerts_triggered": listOr(ctx, "alerts_triggered"),
			"metrics_captured": numOr(ctx, "metrics_captured", 0),
			"uptime_percent":   numOr(ctx, "uptime_percent", 100.0),
			"patterns_applied": params.Patterns,
		}
	case MissionDevelopment:
		content["what_happened"] = map[string]interface{}{
			"features_delivered": listOr(ctx, "features_delivered"),
			"tests_added":        numOr(ctx, "tests_added", 0),
			"defects_resolved":   numOr(ctx, "defects_resolved", 0),
			"patterns_applied":   params.Patterns,
		}
	case MissionDeployment:
		content["what_happened"] = map[string]interface{}{
			"services_deployed":   numOr(ctx, "services_deployed", 0),
			"containers_running":  numOr(ctx, "containers_running", 0),
			"deployment_duration": textOr(ctx, "deployment_duration", "unknown"),
			"success_rate":        numOr(ctx, "success_rate", 100.0),
			"patterns_applied":    params.Patterns,
		}
	case MissionMaintenance:
		content["what_happened"] = map[string]interface{}{
			"tasks_completed":  listOr(ctx, "tasks_completed"),
			"systems_affected": listOr(ctx, "systems_affected"),
			"downtime":         textOr(ctx, "downtime", "none"),
			"patterns_applied": params.Patterns,
		}
	default:
		content["what_happened"] = map[string]interface{}{
			"total_actions":    numOr(ctx, "total_actions", 0),
			"success_rate":     numOr(ctx, "success_rate", 100.0),
			"duration":         textOr(ctx, "duration", "unknown"),
			"patterns_applied": params.Patterns,
		}
	}

	return content
}

// geometryAnalysis summarizes per-pattern scores for the report body.
func geometryAnalysis(patterns []string, validation geometry.AggregateResult) map[string]interface{} {
	score := func(p geometry.Pattern) float64 {
		if r, ok := validation.PatternResults[p]; ok {
			return r.Score
		}
		return 0
	}
	return map[string]interface{}{
		"patterns_detected":         patterns,
		"circle_completeness":       score(geometry.PatternCircle),
		"triangle_stability":        score(geometry.PatternTriangle),
		"spiral_progression":        score(geometry.PatternSpiral),
		"golden_ratio_optimization": score(geometry.PatternGoldenRatio),
		"fractal_self_similarity":   score(geometry.PatternFractal),
		"valid_patterns":            validation.ValidPatterns,
	}
}

// whatWentWell collects the patterns that passed with room to spare,
// plus efficiency signals read from the mission context.
func whatWentWell(ctx *engine.Node, validation geometry.AggregateResult) map[string]interface{} {
	successful := []interface{}{}
	for _, p := range geometry.AllPatterns() {
		if r, ok := validation.PatternResults[p]; ok && r.Valid && r.Score > 0.7 {
			successful = append(successful, fmt.Sprintf("%s: %.2f compliance", p, r.Score))
		}
	}

	return map[string]interface{}{
		"successful_patterns": successful,
		"efficient_processes": efficientProcesses(ctx),
		"pattern_adherence": map[string]interface{}{
			"overall_score":    validation.OverallCompliance,
			"compliance_level": adherenceLevel(validation.OverallCompliance),
		},
	}
}

// efficientProcesses reads the explicit list from the context, or
// infers entries from automation vocabulary when none is given.
func efficientProcesses(ctx *engine.Node) []interface{} {
	processes := listOr(ctx, "efficient_processes")
	if len(processes) > 0 {
		return processes
	}

	serialized := strings.ToLower(ctx.JSON())
	if strings.Contains(serialized, "automation") {
		processes = append(processes, "Automation processes utilized effectively")
	}
	if strings.Contains(serialized, "script") {
		processes = append(processes, "Script-based automation implemented")
	}
	return processes
}

func adherenceLevel(score float64) string {
	switch {
	case score > 0.8:
		return "high"
	case score > 0.6:
		return "medium"
	default:
		return "low"
	}
}

// whatCouldBeImproved lists underperforming patterns and carries the
// issues and challenges the mission context reported.
func whatCouldBeImproved(ctx *engine.Node, validation geometry.AggregateResult) map[string]interface{} {
	areas := []interface{}{}
	for _, p := range geometry.AllPatterns() {
		if r, ok := validation.PatternResults[p]; ok && r.Score < 0.7 {
			areas = append(areas, fmt.Sprintf("Enhance %s pattern compliance (current: %.2f)", p, r.Score))
		}
	}
	areas = append(areas, listOr(ctx, "issues")...)
	for _, challenge := range listOr(ctx, "challenges") {
		areas = append(areas, fmt.Sprintf("Address challenge: %v", challenge))
	}

	gaps := []interface{}{}
	for _, p := range geometry.AllPatterns() {
		if r, ok := validation.PatternResults[p]; ok && !r.Valid {
			gaps = append(gaps, string(p))
		}
	}

	return map[string]interface{}{
		"areas_for_improvement": areas,
		"pattern_gaps":          gaps,
	}
}

// metricsSection summarizes mission performance, per-pattern scores
// and quality measures, defaulting values the context omits.
func metricsSection(ctx *engine.Node, validation geometry.AggregateResult) map[string]interface{} {
	scores := map[string]interface{}{}
	for _, p := range geometry.AllPatterns() {
		if r, ok := validation.PatternResults[p]; ok {
			scores[string(p)] = r.Score
		}
	}

	return map[string]interface{}{
		"performance_metrics": map[string]interface{}{
			"execution_time":   textOr(ctx, "execution_time", "unknown"),
			"success_rate":     numOr(ctx, "success_rate", 1.0),
			"error_rate":       numOr(ctx, "error_rate", 0.0),
			"efficiency_score": numOr(ctx, "efficiency_score", 0.8),
			"quality_score":    numOr(ctx, "quality_score", 0.85),
		},
		"pattern_scores": scores,
		"quality_measures": map[string]interface{}{
			"accuracy":        numOr(ctx, "accuracy", 0.95),
			"completeness":    numOr(ctx, "completeness", 0.9),
			"consistency":     numOr(ctx, "consistency", 0.85),
			"maintainability": numOr(ctx, "maintainability", 0.8),
		},
	}
}

// applyPatternStructure annotates the report with the structural
// guarantees of each requested pattern.
func applyPatternStructure(content map[string]interface{}, patterns []string) map[string]interface{} {
	structure := map[string]interface{}{}
	for _, p := range patterns {
		switch geometry.Pattern(p) {
		case geometry.PatternGoldenRatio:
			structure["golden_ratio_proportioning"] = "sections proportioned toward a 62/38 content split"
		case geometry.PatternCircle:
			structure["circular_completeness"] = "all report sections cross-reference the executive summary"
		case geometry.PatternTriangle:
			structure["triangular_stability"] = "structure, content and context tiers balanced"
		case geometry.PatternSpiral:
			structure["spiral_progression"] = "sections ordered from observation to action"
		case geometry.PatternFractal:
			structure["fractal_self_similarity"] = "each section mirrors the summary/detail/action shape"
		}
	}
	if len(structure) > 0 {
		content["structure_enhancements"] = structure
	}
	return content
}

// Node accessors with defaults; missing or mismatched keys degrade to
// the fallback rather than failing.

func textOr(n *engine.Node, key, fallback string) string {
	if v := n.Get(key); v != nil && v.Kind == engine.KindString && v.Str != "" {
		return v.Str
	}
	return fallback
}

func numOr(n *engine.Node, key string, fallback float64) float64 {
	if v := n.Get(key); v != nil && (v.Kind == engine.KindInt || v.Kind == engine.KindFloat) {
		return v.Num
	}
	return fallback
}

func boolOr(n *engine.Node, key string, fallback bool) bool {
	if v := n.Get(key); v != nil && v.Kind == engine.KindBool {
		return v.Boolean
	}
	return fallback
}

func listOr(n *engine.Node, key string) []interface{} {
	if v := n.Get(key); v != nil && v.Kind == engine.KindSeq {
		if items, ok := v.Interface().([]interface{}); ok {
			return items
		}
	}
	return []interface{}{}
}
