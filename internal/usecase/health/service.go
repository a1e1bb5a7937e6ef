package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the survey still answers but media scanning is broken.
	Degraded Status = "degraded"
	// Unhealthy indicates the store is unreachable; no operation can succeed.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// DefaultCheckTimeout bounds each component check.
const DefaultCheckTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	tasks   TasksChecker
	timeout time.Duration
}

// New creates a Service. tasks can be nil.
func New(db DBPinger, tasks TasksChecker) *Service {
	return &Service{db: db, tasks: tasks, timeout: DefaultCheckTimeout}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.run(ctx, s.db.Ping); err != nil {
		checks["database"] = CheckError
		status = Unhealthy
	} else {
		checks["database"] = CheckOK
	}

	if s.tasks != nil {
		if err := s.run(ctx, s.tasks.HealthCheck); err != nil {
			checks["tasks_dir"] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks["tasks_dir"] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) run(ctx context.Context, check func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return check(ctx)
}
