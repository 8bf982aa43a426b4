package chimelib

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultTones maps tone menu choices to bundled tone file names.
var DefaultTones = map[string]string{
	"1": "beep.wav",
	"2": "bell.wav",
	"3": "chime.wav",
	"4": "buzzer.wav",
}

// toneExts is the allow-list of custom tone file extensions.
var toneExts = []string{".wav", ".mp3", ".ogg", ".m4a"}

// EnsureToneDir creates the tone directory and a placeholder file for each
// bundled tone that is missing. Placeholders keep tone resolution working
// when no real audio files have been installed; playback of a placeholder
// falls back to the simulated cue.
func EnsureToneDir() error {
	if err := os.MkdirAll(ToneDir, 0755); err != nil {
		return err
	}
	for _, name := range DefaultTones {
		p := filepath.Join(ToneDir, name)
		if _, err := os.Stat(p); err == nil {
			continue
		}
		if err := os.WriteFile(p, []byte("Placeholder for "+name), 0644); err != nil {
			return err
		}
	}
	return nil
}

// PresetTone resolves a preset choice ("1" through "4") to its tone path.
func PresetTone(choice string) (string, error) {
	name, ok := DefaultTones[choice]
	if !ok {
		return "", fmt.Errorf("%w: preset %q", ErrToneNotFound, choice)
	}
	return filepath.Join(ToneDir, name), nil
}

// DefaultTone returns the path of the first preset tone.
func DefaultTone() string {
	return filepath.Join(ToneDir, DefaultTones["1"])
}

// ValidateToneFile checks a user-supplied tone file: it must exist and
// carry one of the supported audio extensions.
func ValidateToneFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrToneNotFound, path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range toneExts {
		if ext == e {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrToneUnsupported, path)
}
