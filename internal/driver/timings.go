package driver

import (
	"go.uber.org/zap"

	"rewrite/internal/observ"
)

// logTimings reports the phases of one batch at debug level.
func logTimings(log *zap.Logger, kind string, t *observ.Timer) {
	if t == nil {
		return
	}
	report := t.Report()
	if len(report.Phases) == 0 {
		return
	}
	fields := make([]zap.Field, 0, len(report.Phases)+2)
	fields = append(fields, zap.String("kind", kind), zap.Float64("total_ms", report.TotalMS))
	for _, p := range report.Phases {
		fields = append(fields, zap.Float64(p.Name+"_ms", p.DurationMS))
	}
	log.Debug("timings", fields...)
}
