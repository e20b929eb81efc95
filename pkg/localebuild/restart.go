package localebuild

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// Restarter tells the running server to pick up a freshly compiled cache.
type Restarter interface {
	Restart(ctx context.Context) error
}

// RestartFunc adapts a function to Restarter. It is used for in-process
// reloads when the compiler runs inside the server.
type RestartFunc func(ctx context.Context) error

func (f RestartFunc) Restart(ctx context.Context) error { return f(ctx) }

// SignalRestarter sends SIGHUP to a process. The server maps SIGHUP to its
// reload hooks.
type SignalRestarter struct {
	PID int
}

func (r SignalRestarter) Restart(context.Context) error {
	if r.PID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, r.PID)
	}
	proc, err := os.FindProcess(r.PID)
	if err != nil {
		return errors.Join(ErrRestartFailed, err)
	}
	if err := proc.Signal(syscall.SIGHUP); err != nil {
		return errors.Join(ErrRestartFailed, err)
	}
	return nil
}

// PIDFileRestarter reads the server pid from path on every restart and
// signals it with SIGHUP.
type PIDFileRestarter string

func (p PIDFileRestarter) Restart(ctx context.Context) error {
	data, err := os.ReadFile(string(p))
	if err != nil {
		return errors.Join(ErrRestartFailed, err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrInvalidPID, p, err)
	}
	return SignalRestarter{PID: pid}.Restart(ctx)
}

type noopRestarter struct{}

func (noopRestarter) Restart(context.Context) error { return nil }
