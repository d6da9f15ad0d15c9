package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"aargeom/domain/geometry"
	"aargeom/ports"
)

// Exporter writes compliance data into an xlsx workbook for offline
// review. One sheet summarizes overall stats, one lists stored AARs,
// and one sheet per pattern carries its score history.
type Exporter struct {
	repo ports.AARRepository
}

// NewExporter creates a workbook exporter backed by the repository
func NewExporter(repo ports.AARRepository) *Exporter {
	return &Exporter{repo: repo}
}

// Export builds the workbook and writes it to path.
func (e *Exporter) Export(ctx context.Context, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeSummary(ctx, f); err != nil {
		return fmt.Errorf("failed to write summary sheet: %w", err)
	}
	if err := e.writeAARs(ctx, f); err != nil {
		return fmt.Errorf("failed to write AAR sheet: %w", err)
	}
	if err := e.writeTrends(ctx, f); err != nil {
		return fmt.Errorf("failed to write trend sheets: %w", err)
	}

	if idx, err := f.GetSheetIndex("Summary"); err == nil {
		f.SetActiveSheet(idx)
	}
	return f.SaveAs(path)
}

func (e *Exporter) writeSummary(ctx context.Context, f *excelize.File) error {
	stats, err := e.repo.GetComplianceStats(ctx)
	if err != nil {
		return err
	}

	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	// Replace the default sheet rather than leaving an empty Sheet1.
	f.DeleteSheet("Sheet1")

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total AARs", stats.TotalAARs},
		{"Average Compliance", stats.AverageCompliance},
		{"Min Compliance", stats.MinCompliance},
		{"Max Compliance", stats.MaxCompliance},
	}
	for level, count := range stats.Distribution {
		rows = append(rows, []interface{}{"Level: " + level, count})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) writeAARs(ctx context.Context, f *excelize.File) error {
	aars, err := e.repo.ListAARs(ctx, 1000, 0)
	if err != nil {
		return err
	}

	const sheet = "AARs"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"AAR ID", "Mission ID", "Status", "Compliance Score", "Generated At"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, aar := range aars {
		row := []interface{}{
			aar.AARID.String(),
			aar.MissionID.String(),
			aar.Status,
			aar.ComplianceScore,
			aar.GeneratedAt.ISO8601(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) writeTrends(ctx context.Context, f *excelize.File) error {
	for _, pattern := range geometry.AllPatterns() {
		points, err := e.repo.GetPatternTrends(ctx, pattern, 500)
		if err != nil {
			return err
		}

		sheet := "Trend " + string(pattern)
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}

		header := []interface{}{"AAR ID", "Mission ID", "Score", "Recorded At"}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return err
		}

		for i, point := range points {
			row := []interface{}{
				point.AARID.String(),
				point.MissionID.String(),
				point.Score,
				point.CreatedAt.ISO8601(),
			}
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return err
			}
		}
	}
	return nil
}
