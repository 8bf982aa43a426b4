package sound

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/chimeapp/chime/pkg/logger"
)

func TestSimulatedPlay(t *testing.T) {
	var buf bytes.Buffer
	s := &Simulated{Out: &buf, Beeps: 3}
	if !s.Available() {
		t.Error("expected simulated player to always be available")
	}
	if err := s.Play("ignored.wav"); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	got := strings.Count(buf.String(), "BEEP")
	if got != 9 {
		t.Errorf("expected 3 beep lines (9 BEEPs), got %d BEEPs", got)
	}
}

func TestSimulatedPlayDefaultsBeeps(t *testing.T) {
	var buf bytes.Buffer
	s := &Simulated{Out: &buf}
	if err := s.Play(""); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	lines := strings.Count(buf.String(), "\n")
	if lines != 5 {
		t.Errorf("expected 5 beep lines, got %d", lines)
	}
}

func TestExecPlayerUnavailable(t *testing.T) {
	var p *ExecPlayer
	if p.Available() {
		t.Error("nil player should not be available")
	}
	err := p.Play("tone.wav")
	if !errors.Is(err, ErrNoPlayer) {
		t.Errorf("expected ErrNoPlayer, got: %v", err)
	}
}

func TestPickFallsBackToSimulated(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewMockLogger()
	p := Pick(&buf, l)
	if p == nil {
		t.Fatal("expected a player")
	}
	if !p.Available() {
		t.Error("picked player should be available")
	}
	if _, ok := p.(*Simulated); ok && len(l.WarningCalls) == 0 {
		t.Error("expected a warning when falling back to simulated playback")
	}
}
