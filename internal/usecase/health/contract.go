package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// TasksChecker checks that the sample media directory is readable.
type TasksChecker interface {
	HealthCheck(ctx context.Context) error
}
