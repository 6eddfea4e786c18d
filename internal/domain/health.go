package domain

// HealthStatus classifies one diagnostic result.
type HealthStatus string

const (
	HealthOK   HealthStatus = "ok"
	HealthWarn HealthStatus = "warn"
	HealthFail HealthStatus = "fail"
)

// HealthCheck is one diagnostic line.
type HealthCheck struct {
	Name   string
	Status HealthStatus
	Detail string
}

// HealthReport aggregates diagnostics for display.
type HealthReport struct {
	Checks []HealthCheck
}
