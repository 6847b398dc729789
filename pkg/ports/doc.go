/*
Package ports defines the driven ports (interfaces) for the peplab navigation core.

These interfaces decouple the orchestrator from external implementations, allowing
it to run against various health endpoints and session storage backends.

# Key Interfaces

  - HealthChecker: Probes the backend service that gates navigation.
  - SessionStore: Persists and loads session Snapshots (e.g., Memory or Redis).
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
*/
package ports
