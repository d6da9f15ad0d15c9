package report

import (
	"strings"
	"testing"

	"aargeom/domain/core"
	"aargeom/internal/engine"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	eng := engine.NewEngine()
	if err := eng.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return NewGenerator(eng)
}

func testParams(t *testing.T, missionType string) Params {
	t.Helper()
	ctx, err := engine.ParseJSON([]byte(`{
		"mission_overview": "routine run",
		"status": "completed",
		"key_insights": ["insight one"],
		"immediate_actions": ["follow up"],
		"step": 2
	}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return Params{
		AARID:       core.AARID("aar_test123"),
		MissionID:   core.MissionID("mission-1"),
		MissionType: missionType,
		ContextData: ctx,
		Patterns:    []string{"circle", "golden_ratio"},
	}
}

// TestGenerate tests the full generation path for a known mission type
func TestGenerate(t *testing.T) {
	g := newTestGenerator(t)

	result, err := g.Generate(testParams(t, MissionDevelopment))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if result.AARID != "aar_test123" {
		t.Errorf("Expected AAR ID carried through, got %s", result.AARID)
	}
	if result.ComplianceScore < 0 || result.ComplianceScore > 100 {
		t.Errorf("Expected compliance percentage in [0,100], got %v", result.ComplianceScore)
	}
	if result.GeneratedAt.IsZero() {
		t.Error("Expected a generation timestamp")
	}

	for _, section := range []string{
		"executive_summary", "what_happened", "what_went_well",
		"what_could_be_improved", "geometry_analysis", "lessons_learned",
		"action_items", "metrics", "structure_enhancements",
	} {
		if _, ok := result.ReportContent[section]; !ok {
			t.Errorf("Expected section %s in report content", section)
		}
	}
	if result.ReportContent["report_type"] != MissionDevelopment {
		t.Errorf("Expected development template, got %v", result.ReportContent["report_type"])
	}

	summary, ok := result.ReportContent["executive_summary"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected executive summary mapping")
	}
	if summary["mission_overview"] != "routine run" {
		t.Errorf("Expected context overview carried through, got %v", summary["mission_overview"])
	}

	if result.Metadata["template_used"] != MissionDevelopment {
		t.Errorf("Expected template metadata, got %v", result.Metadata["template_used"])
	}
}

// TestGenerateUnknownTypeFallsBack tests the general template fallback
func TestGenerateUnknownTypeFallsBack(t *testing.T) {
	g := newTestGenerator(t)

	result, err := g.Generate(testParams(t, "totally_unknown"))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if result.ReportContent["report_type"] != MissionGeneral {
		t.Errorf("Expected general fallback, got %v", result.ReportContent["report_type"])
	}

	what, ok := result.ReportContent["what_happened"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected what_happened mapping")
	}
	if _, ok := what["total_actions"]; !ok {
		t.Error("Expected general template fields")
	}
}

// TestGenerateRetrospectiveSections tests the went-well, improvement
// and metrics sections against the validation outcome
func TestGenerateRetrospectiveSections(t *testing.T) {
	g := newTestGenerator(t)

	result, err := g.Generate(testParams(t, MissionDevelopment))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	went, ok := result.ReportContent["what_went_well"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected what_went_well mapping")
	}
	adherence, ok := went["pattern_adherence"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected pattern_adherence mapping")
	}
	input := result.Metadata["input_compliance"].(float64)
	if adherence["overall_score"] != input {
		t.Errorf("Expected adherence score %v, got %v", input, adherence["overall_score"])
	}
	if adherence["compliance_level"] != adherenceLevel(input) {
		t.Errorf("Expected level %v, got %v", adherenceLevel(input), adherence["compliance_level"])
	}

	improved, ok := result.ReportContent["what_could_be_improved"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected what_could_be_improved mapping")
	}
	areas := improved["areas_for_improvement"].([]interface{})
	successes := went["successful_patterns"].([]interface{})
	// Every pattern scores either above or below the 0.7 threshold, so
	// the two lists cover at most all five patterns between them.
	if len(successes)+len(areas) == 0 {
		t.Error("Expected at least one pattern in the success or improvement list")
	}
	for _, area := range areas {
		if !strings.Contains(area.(string), "pattern compliance") {
			t.Errorf("Expected improvement phrasing, got %v", area)
		}
	}

	metrics, ok := result.ReportContent["metrics"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected metrics mapping")
	}
	scores, ok := metrics["pattern_scores"].(map[string]interface{})
	if !ok || len(scores) != 5 {
		t.Fatalf("Expected five pattern scores, got %v", metrics["pattern_scores"])
	}
	perf := metrics["performance_metrics"].(map[string]interface{})
	if perf["execution_time"] != "unknown" {
		t.Errorf("Expected execution_time default, got %v", perf["execution_time"])
	}
	if perf["success_rate"] != 1.0 {
		t.Errorf("Expected success_rate default 1.0, got %v", perf["success_rate"])
	}
}

// TestGenerateTargetPenalty tests that a harsher target lowers the score
func TestGenerateTargetPenalty(t *testing.T) {
	g := newTestGenerator(t)

	lenient := testParams(t, MissionGeneral)
	lenient.ComplianceTarget = 1.0

	strict := testParams(t, MissionGeneral)
	strict.ComplianceTarget = 100.0

	lenientResult, err := g.Generate(lenient)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	strictResult, err := g.Generate(strict)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if strictResult.ComplianceScore > lenientResult.ComplianceScore {
		t.Errorf("Expected strict target %v <= lenient %v",
			strictResult.ComplianceScore, lenientResult.ComplianceScore)
	}
}

// TestRenderMarkdown tests section ordering and headings
func TestRenderMarkdown(t *testing.T) {
	g := newTestGenerator(t)
	result, err := g.Generate(testParams(t, MissionGeneral))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	md := RenderMarkdown(result)
	if !strings.Contains(md, "# After Action Review aar_test123") {
		t.Error("Expected document title with AAR ID")
	}
	if !strings.Contains(md, "## Executive Summary") {
		t.Error("Expected executive summary heading")
	}

	// Retrospective sections render between the narrative and the
	// analysis, in the fixed order.
	summaryAt := strings.Index(md, "## Executive Summary")
	wentWellAt := strings.Index(md, "## What Went Well")
	improvedAt := strings.Index(md, "## What Could Be Improved")
	analysisAt := strings.Index(md, "## Geometry Analysis")
	metricsAt := strings.Index(md, "## Metrics")
	for name, at := range map[string]int{
		"What Went Well": wentWellAt, "What Could Be Improved": improvedAt, "Metrics": metricsAt,
	} {
		if at < 0 {
			t.Fatalf("Expected %s heading in markdown", name)
		}
	}
	if !(summaryAt < wentWellAt && wentWellAt < improvedAt && improvedAt < analysisAt && analysisAt < metricsAt) {
		t.Error("Expected sections in fixed order")
	}
}

// TestRenderHTML tests the markdown-to-HTML pipeline
func TestRenderHTML(t *testing.T) {
	g := newTestGenerator(t)
	result, err := g.Generate(testParams(t, MissionGeneral))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	html := string(RenderHTML(result))
	if !strings.Contains(html, "<h1") {
		t.Error("Expected an h1 element")
	}
	if !strings.Contains(html, "Executive Summary") {
		t.Error("Expected executive summary heading in HTML")
	}
}
