package ports

import "context"

// HealthChecker probes the backend service.
//
// Check returns (true, nil) when the backend answered healthy, (false, nil)
// when it answered with any other status, and a non-nil error when it could
// not be reached at all. Implementations must honour ctx cancellation.
type HealthChecker interface {
	Check(ctx context.Context) (bool, error)
}

// HealthCheckFunc adapts a plain function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) (bool, error)

// Check calls f(ctx).
func (f HealthCheckFunc) Check(ctx context.Context) (bool, error) {
	return f(ctx)
}
