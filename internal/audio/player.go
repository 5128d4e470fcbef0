package audio

import (
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// Player feeds raw audio to the stdin of an external command.
type Player struct {
	argv []string

	// Stdout receives the command's output. Nil discards it.
	Stdout io.Writer

	mu  sync.Mutex
	cmd *exec.Cmd
	in  io.WriteCloser
}

// NewPlayer returns a player for command, split on whitespace.
func NewPlayer(command string) *Player {
	return &Player{argv: strings.Fields(command)}
}

// Start launches the command. Calling Start on a running player does nothing.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd != nil {
		return nil
	}
	if len(p.argv) == 0 {
		return ErrNoCommand
	}

	cmd := exec.Command(p.argv[0], p.argv[1:]...)
	cmd.Stdout = p.Stdout
	cmd.Stderr = os.Stderr
	in, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}

	p.cmd = cmd
	p.in = in
	return nil
}

func (p *Player) Write(b []byte) (int, error) {
	p.mu.Lock()
	in := p.in
	p.mu.Unlock()

	if in == nil {
		return 0, ErrNotRunning
	}
	return in.Write(b)
}

// Stop closes stdin and waits for the command to finish playing what it has
// buffered. It is safe to call repeatedly.
func (p *Player) Stop() error {
	p.mu.Lock()
	cmd, in := p.cmd, p.in
	p.cmd, p.in = nil, nil
	p.mu.Unlock()

	if cmd == nil {
		return nil
	}
	if err := in.Close(); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return err
	}
	return cmd.Wait()
}
