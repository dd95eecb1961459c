// Package runtime abstracts the container runtime the orchestrator launches
// scanner environments in. The interface is the orchestrator's whole view of
// the runtime, so tests substitute a fake and the Docker implementation
// stays thin.
package runtime

import (
	"context"
	"errors"
	"time"
)

// ErrWaitTimeout reports that a container outlived the allotted wall-clock
// budget. The orchestrator maps it to the scan's TIMEOUT failure.
var ErrWaitTimeout = errors.New("container wait timed out")

// Handle identifies one created container for the rest of its lifecycle.
type Handle string

// Mount binds a host path into the container.
type Mount struct {
	Source   string
	Target   string
	ReadOnly bool
}

// ExitInfo captures how a container terminated.
type ExitInfo struct {
	ExitCode int64
}

// Runtime is the container-runtime client contract. Run starts detached;
// Wait blocks until termination or the timeout; Stop and Remove must be
// safe to call on containers that already exited.
type Runtime interface {
	Run(ctx context.Context, image string, mounts []Mount) (Handle, error)
	Wait(ctx context.Context, h Handle, timeout time.Duration) (ExitInfo, error)
	Logs(ctx context.Context, h Handle) (string, error)
	Stop(ctx context.Context, h Handle) error
	Remove(ctx context.Context, h Handle) error
}
