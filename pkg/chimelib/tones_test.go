package chimelib

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureToneDir(t *testing.T) {
	if err := SetConfigDir(t.TempDir()); err != nil {
		t.Fatalf("failed to set config dir: %v", err)
	}
	if err := EnsureToneDir(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range DefaultTones {
		if _, err := os.Stat(filepath.Join(ToneDir, name)); err != nil {
			t.Errorf("expected bundled tone %s to exist: %v", name, err)
		}
	}
}

func TestPresetTone(t *testing.T) {
	if err := SetConfigDir(t.TempDir()); err != nil {
		t.Fatalf("failed to set config dir: %v", err)
	}
	p, err := PresetTone("2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(p) != "bell.wav" {
		t.Errorf("expected bell.wav, got %s", p)
	}
	if _, err := PresetTone("9"); !errors.Is(err, ErrToneNotFound) {
		t.Errorf("expected ErrToneNotFound, got %v", err)
	}
}

func TestValidateToneFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "song.mp3")
	if err := os.WriteFile(good, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateToneFile(good); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateToneFile(filepath.Join(dir, "missing.wav")); !errors.Is(err, ErrToneNotFound) {
		t.Errorf("expected ErrToneNotFound, got %v", err)
	}

	bad := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(bad, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateToneFile(bad); !errors.Is(err, ErrToneUnsupported) {
		t.Errorf("expected ErrToneUnsupported, got %v", err)
	}
}
