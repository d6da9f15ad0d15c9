package ports

import (
	"context"
	"time"

	"aargeom/domain/core"
)

// AARMetrics is the telemetry payload reported after each generation.
type AARMetrics struct {
	AARID              core.AARID     `json:"aar_id"`
	ComplianceScore    float64        `json:"compliance_score"`
	ProcessingDuration time.Duration  `json:"processing_duration"`
	Timestamp          core.Timestamp `json:"timestamp"`
}

// Monitoring defines the outbound telemetry boundary. Implementations
// must be safe to call when disconnected; telemetry loss never fails
// the caller.
type Monitoring interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	IsConnected() bool
	SendAARMetrics(ctx context.Context, metrics AARMetrics) error
	SystemHealth(ctx context.Context) (map[string]interface{}, error)
}
