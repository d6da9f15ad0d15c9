package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"aargeom/domain/core"
	"aargeom/domain/geometry"
	"aargeom/internal/engine"
	"aargeom/internal/report"
	"aargeom/ports"
)

// maxBodyBytes bounds request bodies; mission contexts are small.
const maxBodyBytes = 4 << 20

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if !a.engine.IsHealthy() {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	body := map[string]interface{}{
		"status":               status,
		"geometry_engine":      a.engine.IsHealthy(),
		"monitoring_connected": a.monitoring != nil && a.monitoring.IsConnected(),
		"timestamp":            core.Now().ISO8601(),
	}

	if a.monitoring != nil {
		health, err := a.monitoring.SystemHealth(r.Context())
		if err != nil {
			a.logger.Warn("failed to fetch monitoring health: %v", err)
		} else {
			body["monitoring"] = health
		}
	}

	writeJSON(w, code, body)
}

func (a *App) handleMetrics(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"current_compliance": a.checker.CurrentCompliance(),
		"compliance_level":   a.checker.DetailedCompliance().ComplianceLevel,
		"counters": map[string]int64{
			"requests_total":       a.stats.requests.Load(),
			"validations_total":    a.stats.validations.Load(),
			"aars_generated_total": a.stats.aarsGenerated.Load(),
		},
	}

	if a.repo != nil {
		stats, err := a.repo.GetComplianceStats(r.Context())
		if err != nil {
			a.logger.Error("failed to load compliance stats: %v", err)
		} else {
			body["stored"] = stats
		}
	}

	writeJSON(w, http.StatusOK, body)
}

// handleValidate validates one arbitrary record against all patterns.
func (a *App) handleValidate(w http.ResponseWriter, r *http.Request) {
	a.stats.validations.Add(1)

	raw, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	result, err := a.engine.ValidateJSON(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleValidateBatch validates a JSON array of records concurrently.
func (a *App) handleValidateBatch(w http.ResponseWriter, r *http.Request) {
	a.stats.validations.Add(1)

	raw, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var rawRecords []json.RawMessage
	if err := json.Unmarshal(raw, &rawRecords); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON array of records")
		return
	}

	raws := make([][]byte, len(rawRecords))
	for i, rec := range rawRecords {
		raws[i] = rec
	}

	results, err := a.batch.ValidateAllJSON(r.Context(), raws)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record in batch")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(results),
		"results": results,
	})
}

// handleValidateMission grades one mission record and, for
// high-priority missions, updates the tracked compliance level.
func (a *App) handleValidateMission(w http.ResponseWriter, r *http.Request) {
	a.stats.validations.Add(1)

	raw, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	record, err := engine.ParseJSON(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	writeJSON(w, http.StatusOK, a.checker.ValidateMissionCompliance(record))
}

// generateRequest is the POST /aar/generate payload.
type generateRequest struct {
	MissionID        string          `json:"mission_id"`
	MissionType      string          `json:"mission_type"`
	ContextData      json.RawMessage `json:"context_data"`
	Patterns         []string        `json:"patterns"`
	ComplianceTarget float64         `json:"compliance_target"`
}

func (a *App) handleGenerateAAR(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	raw, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var req generateRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	missionID, err := core.ParseMissionID(req.MissionID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "mission_id is required")
		return
	}

	if len(req.Patterns) == 0 {
		req.Patterns = geometry.PatternNames()
	}
	if !a.engine.ValidatePatterns(req.Patterns) {
		writeError(w, http.StatusBadRequest, "unsupported pattern in patterns list")
		return
	}

	contextData := &engine.Node{Kind: engine.KindMap}
	if len(req.ContextData) > 0 {
		contextData, err = engine.ParseJSON(req.ContextData)
		if err != nil {
			writeError(w, http.StatusBadRequest, "context_data is not valid JSON")
			return
		}
	}

	aarID := core.AARID(a.engine.GenerateAARID(req.MissionID))

	result, err := a.generator.Generate(report.Params{
		AARID:            aarID,
		MissionID:        missionID,
		MissionType:      req.MissionType,
		ContextData:      contextData,
		Patterns:         req.Patterns,
		ComplianceTarget: req.ComplianceTarget,
	})
	if err != nil {
		a.logger.Error("AAR generation failed: mission_id=%s error=%v", missionID, err)
		writeError(w, http.StatusInternalServerError, "AAR generation failed")
		return
	}

	a.checker.UpdateCompliance(result.ComplianceScore / 100)

	if a.repo != nil {
		if err := a.repo.StoreAAR(r.Context(), result); err != nil {
			a.logger.Error("failed to store AAR: aar_id=%s error=%v", aarID, err)
			writeError(w, http.StatusInternalServerError, "failed to store AAR")
			return
		}
		validation := a.engine.ValidateData(contextData)
		if err := a.repo.StorePatternDetails(r.Context(), aarID, validation.PatternResults); err != nil {
			a.logger.Error("failed to store pattern details: aar_id=%s error=%v", aarID, err)
		}
	}

	a.stats.aarsGenerated.Add(1)
	a.sendMetrics(r.Context(), result, time.Since(started))

	writeJSON(w, http.StatusCreated, result)
}

func (a *App) sendMetrics(ctx context.Context, result *report.AARResult, elapsed time.Duration) {
	if a.monitoring == nil {
		return
	}
	err := a.monitoring.SendAARMetrics(ctx, ports.AARMetrics{
		AARID:              result.AARID,
		ComplianceScore:    result.ComplianceScore,
		ProcessingDuration: elapsed,
		Timestamp:          core.Now(),
	})
	if err != nil {
		a.logger.Warn("failed to send AAR metrics: %v", err)
	}
}

func (a *App) handleAARStatus(w http.ResponseWriter, r *http.Request) {
	if a.repo == nil {
		writeError(w, http.StatusServiceUnavailable, "storage not configured")
		return
	}

	aarID, err := core.ParseAARID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid AAR ID")
		return
	}

	status, err := a.repo.GetAARStatus(r.Context(), aarID)
	if errors.Is(err, core.ErrAARNotFound) {
		writeError(w, http.StatusNotFound, "AAR not found")
		return
	}
	if err != nil {
		a.logger.Error("failed to load AAR status: aar_id=%s error=%v", aarID, err)
		writeError(w, http.StatusInternalServerError, "failed to load AAR status")
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func (a *App) handleAARReport(w http.ResponseWriter, r *http.Request) {
	if a.repo == nil {
		writeError(w, http.StatusServiceUnavailable, "storage not configured")
		return
	}

	aarID, err := core.ParseAARID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid AAR ID")
		return
	}

	result, err := a.repo.GetAARReport(r.Context(), aarID)
	if errors.Is(err, core.ErrAARNotFound) {
		writeError(w, http.StatusNotFound, "AAR not found")
		return
	}
	if err != nil {
		a.logger.Error("failed to load AAR report: aar_id=%s error=%v", aarID, err)
		writeError(w, http.StatusInternalServerError, "failed to load AAR report")
		return
	}

	switch r.URL.Query().Get("format") {
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(report.RenderHTML(result))
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(report.RenderMarkdown(result)))
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

func (a *App) handleListAARs(w http.ResponseWriter, r *http.Request) {
	if a.repo == nil {
		writeError(w, http.StatusServiceUnavailable, "storage not configured")
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	aars, err := a.repo.ListAARs(r.Context(), limit, offset)
	if err != nil {
		a.logger.Error("failed to list AARs: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list AARs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(aars),
		"aars":  aars,
	})
}

func (a *App) handleCompliance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.checker.DetailedCompliance())
}

func (a *App) handleComplianceReport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.checker.GenerateReport())
}

func (a *App) handleComplianceAlerts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": a.checker.CheckAlerts(),
	})
}

func (a *App) handlePatternTrends(w http.ResponseWriter, r *http.Request) {
	pattern := geometry.Pattern(chi.URLParam(r, "pattern"))
	if !geometry.IsSupported(string(pattern)) {
		writeError(w, http.StatusBadRequest, "unsupported pattern")
		return
	}

	if a.repo == nil {
		writeError(w, http.StatusServiceUnavailable, "storage not configured")
		return
	}

	points, err := a.repo.GetPatternTrends(r.Context(), pattern, queryInt(r, "limit", 100))
	if err != nil {
		a.logger.Error("failed to load pattern trends: pattern=%s error=%v", pattern, err)
		writeError(w, http.StatusInternalServerError, "failed to load pattern trends")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pattern": pattern,
		"points":  points,
	})
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
}
