// Package sound plays alarm tones. The core tolerates playback failure:
// a missing system player or a broken tone file degrades to a simulated
// audible cue instead of blocking or failing the alarm.
package sound

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chimeapp/chime/pkg/logger"
)

// ErrNoPlayer is returned when no system audio player is available.
var ErrNoPlayer = errors.New("no system audio player found")

// Player is the capability the firing coordinator uses to sound an alarm.
type Player interface {
	// Play plays the sound resource at path, blocking until playback
	// finishes or fails.
	Play(path string) error

	// Available reports whether this player can produce sound in the
	// current environment.
	Available() bool
}

// ExecPlayer shells out to the first system audio player found on PATH.
type ExecPlayer struct {
	bin  string
	args []string
}

// NewExecPlayer probes the platform player commands and returns the first
// available one, or nil when none exists.
func NewExecPlayer() *ExecPlayer {
	for _, cand := range playerCommands() {
		bin, err := exec.LookPath(cand[0])
		if err != nil {
			continue
		}
		return &ExecPlayer{bin: bin, args: cand[1:]}
	}
	return nil
}

// Available reports whether a player binary was found.
func (e *ExecPlayer) Available() bool {
	return e != nil && e.bin != ""
}

// Play runs the player binary against the tone file.
func (e *ExecPlayer) Play(path string) error {
	if !e.Available() {
		return ErrNoPlayer
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("tone not readable: %w", err)
	}
	args := append(append([]string{}, e.args...), path)
	cmd := exec.Command(e.bin, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("player %s: %w", filepath.Base(e.bin), err)
	}
	return nil
}

// Simulated prints a textual audible cue instead of playing audio.
type Simulated struct {
	Out   io.Writer
	Beeps int
	Delay time.Duration
}

// NewSimulated creates the default simulated cue: five beep lines half a
// second apart.
func NewSimulated(out io.Writer) *Simulated {
	return &Simulated{Out: out, Beeps: 5, Delay: 500 * time.Millisecond}
}

// Available always reports true; printing needs no environment support.
func (s *Simulated) Available() bool {
	return true
}

// Play prints the beep lines. The path is ignored.
func (s *Simulated) Play(string) error {
	n := s.Beeps
	if n <= 0 {
		n = 5
	}
	for i := 0; i < n; i++ {
		fmt.Fprintln(s.Out, "♪ BEEP BEEP BEEP ♪")
		if s.Delay > 0 {
			time.Sleep(s.Delay)
		}
	}
	return nil
}

// Pick returns the system player when one is available and the simulated
// fallback otherwise.
func Pick(out io.Writer, l logger.Logger) Player {
	if p := NewExecPlayer(); p.Available() {
		return p
	}
	if l != nil {
		l.Warning("no system audio player found, alarm sounds will be simulated")
	}
	return NewSimulated(out)
}

// Ensure implementations satisfy the Player interface.
var (
	_ Player = (*ExecPlayer)(nil)
	_ Player = (*Simulated)(nil)
)
