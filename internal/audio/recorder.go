// Package audio runs external record and playback commands and parses WAV
// files.
package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
)

var (
	// ErrNotRunning is returned by Read and Write while no process is active.
	ErrNotRunning = errors.New("audio process is not running")
	// ErrNoCommand is returned by Start when the command string is empty.
	ErrNoCommand = errors.New("audio command is empty")
)

// Recorder captures raw audio from the stdout of an external command.
type Recorder struct {
	argv []string

	mu  sync.Mutex
	cmd *exec.Cmd
	out io.ReadCloser
}

// NewRecorder returns a recorder for command, split on whitespace.
func NewRecorder(command string) *Recorder {
	return &Recorder{argv: strings.Fields(command)}
}

// Start launches the command. Calling Start on a running recorder does nothing.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd != nil {
		return nil
	}
	if len(r.argv) == 0 {
		return ErrNoCommand
	}

	cmd := exec.Command(r.argv[0], r.argv[1:]...)
	cmd.Stderr = os.Stderr
	out, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}

	r.cmd = cmd
	r.out = out
	return nil
}

// Read reads recorded audio. A read racing with Stop reports io.EOF.
func (r *Recorder) Read(p []byte) (int, error) {
	r.mu.Lock()
	out := r.out
	r.mu.Unlock()

	if out == nil {
		return 0, ErrNotRunning
	}
	n, err := out.Read(p)
	if errors.Is(err, os.ErrClosed) {
		err = io.EOF
	}
	return n, err
}

// Stop closes the pipe, terminates the command and waits for it. It is safe
// to call on a recorder that was never started or is already stopped.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	cmd, out := r.cmd, r.out
	r.cmd, r.out = nil, nil
	r.mu.Unlock()

	if cmd == nil {
		return nil
	}

	_ = out.Close()
	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("signal recorder: %w", err)
	}
	return waitTerminated(cmd)
}

// waitTerminated waits for cmd, treating a non-zero exit as expected since
// the process was told to stop.
func waitTerminated(cmd *exec.Cmd) error {
	err := cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}
