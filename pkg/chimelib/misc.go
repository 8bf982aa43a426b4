package chimelib

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
)

// ConfigDirEnv is the environment variable name used to override the default
// configuration directory.
const ConfigDirEnv = "CHIME_CONFIG_DIR"

var (
	// ConfigDir is the absolute path to the chime configuration directory.
	ConfigDir string
	// ToneDir is the absolute path to the directory holding bundled
	// alarm tones.
	ToneDir string
)

var __ALARMS_FILE_NAME string

func init() {
	dir := os.Getenv(ConfigDirEnv)
	if dir == "" {
		dir = defaultConfigDir()
	}
	if err := setConfigDir(dir); err != nil {
		panic(err)
	}
}

func defaultConfigDir() string {
	cdr, err := os.UserConfigDir()
	if err != nil {
		panic(err)
	}
	return filepath.Join(cdr, "chime")
}

func setConfigDir(dir string) error {
	if dir == "" {
		return errors.New("config dir is empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return err
	}
	ConfigDir = abs
	ToneDir = filepath.Join(abs, "tones")
	__ALARMS_FILE_NAME = filepath.Join(abs, "alarms.chime")
	return nil
}

// SetConfigDir sets the configuration directory to the specified path,
// creating it if it does not exist.
func SetConfigDir(dir string) error {
	return setConfigDir(dir)
}

// generateID returns a short random hex identifier for an alarm.
func generateID() string {
	buf := make([]byte, 4)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
