package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// Session supervises the single top-level build process the user invoked,
// wiring its stdio either directly or through a pseudo-terminal, and
// forwarding signals so the build sees the same treatment it would without
// interception (§6, §8).
type Session struct {
	Command []string
	Environ map[string]string
	Dir     string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run spawns the build, forwards SIGINT/SIGTERM/SIGHUP/SIGQUIT to it for
// the duration, and returns its exit code. A nil error with a non-zero code
// means the build merely failed; a non-nil error means the build could not
// be started or supervised at all.
func (s *Session) Run(ctx context.Context) (int, error) {
	if len(s.Command) == 0 {
		return 0, fmt.Errorf("session: empty command")
	}

	cmd := exec.CommandContext(ctx, s.Command[0], s.Command[1:]...)
	cmd.Dir = s.Dir
	cmd.Env = envSlice(s.Environ)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	usePty := false
	if stdinFile, ok := s.Stdin.(*os.File); ok {
		usePty = term.IsTerminal(int(stdinFile.Fd()))
	}

	var ptmx *os.File
	var err error
	if usePty {
		ptmx, err = pty.Start(cmd)
		if err != nil {
			return 0, fmt.Errorf("session: start under pty: %w", err)
		}
		defer ptmx.Close()
		go io.Copy(ptmx, s.Stdin)
		go io.Copy(s.Stdout, ptmx)
	} else {
		cmd.Stdin = s.Stdin
		cmd.Stdout = s.Stdout
		cmd.Stderr = s.Stderr
		if err := cmd.Start(); err != nil {
			return 0, fmt.Errorf("session: start: %w", err)
		}
	}

	fwdCtx, stopForwarding := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(fwdCtx)
	g.Go(func() error {
		return forwardSignals(gctx, cmd.Process.Pid)
	})

	waitErr := cmd.Wait()
	stopForwarding()
	g.Wait()

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
		return 0, nil
	case errors.As(waitErr, &exitErr):
		if exitErr.ProcessState.Exited() {
			return exitErr.ExitCode(), nil
		}
		// Killed by signal: report the conventional 128+signal code.
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return 128 + int(ws.Signal()), nil
		}
		return 1, nil
	default:
		return 0, fmt.Errorf("session: wait: %w", waitErr)
	}
}

// forwardSignals relays the signals a shell would forward to its foreground
// process group to pid, until ctx is done.
func forwardSignals(ctx context.Context, pid int) error {
	sigs := make(chan os.Signal, 4)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	defer signal.Stop(sigs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-sigs:
			if err := syscall.Kill(pid, sig.(syscall.Signal)); err != nil {
				slog.WarnContext(ctx, "session: forward signal failed", "signal", sig, "pid", pid, "err", err)
			}
		}
	}
}

func envSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	return out
}
