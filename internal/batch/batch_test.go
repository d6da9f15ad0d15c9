package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"aargeom/internal/engine"
)

// TestValidateAllMatchesSequential tests that concurrent validation of
// many records produces exactly the sequential results, in input order
func TestValidateAllMatchesSequential(t *testing.T) {
	eng := engine.NewEngine()
	if err := eng.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	records := make([]*engine.Node, 50)
	for i := range records {
		raw := fmt.Sprintf(`{
			"mission_id": "m%d",
			"mission_type": "development",
			"context_data": {"step": %d, "values": [1, 2, 3, %d]},
			"context": "batch run %d"
		}`, i, i, i, i)
		record, err := engine.ParseJSON([]byte(raw))
		if err != nil {
			t.Fatalf("Parse failed for record %d: %v", i, err)
		}
		records[i] = record
	}

	v := NewValidator(eng, 8)
	concurrent, err := v.ValidateAll(context.Background(), records)
	if err != nil {
		t.Fatalf("ValidateAll failed: %v", err)
	}
	if len(concurrent) != len(records) {
		t.Fatalf("Expected %d results, got %d", len(records), len(concurrent))
	}

	for i, record := range records {
		sequential := eng.ValidateData(record)
		if concurrent[i].OverallCompliance != sequential.OverallCompliance {
			t.Errorf("Record %d: concurrent %v != sequential %v",
				i, concurrent[i].OverallCompliance, sequential.OverallCompliance)
		}
		if concurrent[i].ValidPatterns != sequential.ValidPatterns {
			t.Errorf("Record %d: valid count %d != %d",
				i, concurrent[i].ValidPatterns, sequential.ValidPatterns)
		}
		for pattern, pr := range sequential.PatternResults {
			if concurrent[i].PatternResults[pattern].Score != pr.Score {
				t.Errorf("Record %d pattern %s: concurrent %v != sequential %v",
					i, pattern, concurrent[i].PatternResults[pattern].Score, pr.Score)
			}
		}
	}
}

// TestValidateAllNilRecords tests that nil entries yield zero-value results
func TestValidateAllNilRecords(t *testing.T) {
	eng := engine.NewEngine()
	v := NewValidator(eng, 2)

	results, err := v.ValidateAll(context.Background(), []*engine.Node{nil, nil})
	if err != nil {
		t.Fatalf("ValidateAll failed: %v", err)
	}
	for i, result := range results {
		if result.TotalPatterns != 0 || result.OverallCompliance != 0 {
			t.Errorf("Record %d: expected zero-value result, got %+v", i, result)
		}
	}
}

// TestValidateAllJSON tests raw JSON batches and parse failure handling
func TestValidateAllJSON(t *testing.T) {
	eng := engine.NewEngine()
	v := NewValidator(eng, 0)

	raws := make([][]byte, 10)
	for i := range raws {
		raws[i], _ = json.Marshal(map[string]interface{}{"index": i})
	}

	results, err := v.ValidateAllJSON(context.Background(), raws)
	if err != nil {
		t.Fatalf("ValidateAllJSON failed: %v", err)
	}
	if len(results) != len(raws) {
		t.Fatalf("Expected %d results, got %d", len(raws), len(results))
	}

	// A single malformed record fails the whole batch.
	raws[4] = []byte(`{"broken":`)
	if _, err := v.ValidateAllJSON(context.Background(), raws); err == nil {
		t.Error("Expected error for malformed record in batch")
	}
}

// TestValidateAllCancelled tests that a cancelled context aborts the batch
func TestValidateAllCancelled(t *testing.T) {
	eng := engine.NewEngine()
	v := NewValidator(eng, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := make([]*engine.Node, 100)
	for i := range records {
		records[i], _ = engine.ParseJSON([]byte(`{"a": 1}`))
	}

	if _, err := v.ValidateAll(ctx, records); err == nil {
		t.Error("Expected error for cancelled context")
	}
}
