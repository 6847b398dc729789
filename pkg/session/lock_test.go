package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/peplab/internal/runtime"
	"github.com/aretw0/peplab/internal/testutils"
	"github.com/aretw0/peplab/pkg/adapters/memory"
)

func TestManager_LockLifecycle(t *testing.T) {
	backendSvc := runtime.NewBackendService(testutils.NewHealth(true))
	mgr := NewManager(memory.NewStore(), func(id string) *runtime.Orchestrator {
		return runtime.NewOrchestrator(backendSvc, runtime.WithSessionID(id))
	})
	ctx := context.Background()
	count := 1000

	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_ = mgr.WithSession(ctx, sid, func(context.Context, *runtime.Orchestrator) error { return nil })
		_ = mgr.Delete(ctx, sid)
	}

	if lockCount := len(mgr.locks); lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining after %d sessions", lockCount, count)
	}
}
