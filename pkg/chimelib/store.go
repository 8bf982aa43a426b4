package chimelib

import (
	"bytes"
	"encoding/gob"
	"io"
	"log"
	"os"
	"sync"
)

// Store is the insertion-ordered collection of registered alarms.
// The background scan loop and the interactive menu touch it concurrently,
// so every operation goes through an internal RWMutex. State is persisted
// with gob after each mutation on a best-effort basis.
type Store struct {
	alarms []*Alarm
	f      *os.File
	mu     sync.RWMutex
}

// InitStore opens the persisted alarm data in the config directory and
// returns a store backed by it. An empty or corrupt data file starts a
// fresh store instead of failing.
func InitStore() (s *Store, err error) {
	s = &Store{}
	s.f, err = os.OpenFile(
		__ALARMS_FILE_NAME,
		os.O_RDWR|os.O_CREATE,
		0644,
	)
	if err != nil {
		s = nil
		return
	}
	if decErr := gob.NewDecoder(s.f).Decode(&s.alarms); decErr != nil {
		if decErr != io.EOF {
			log.Printf("chimelib: warning: failed to decode alarm data, starting fresh: %v", decErr)
		}
		s.alarms = nil
	}
	return
}

// Add appends an alarm, assigning an ID if it has none, and returns the ID.
// Duplicate schedules are allowed.
func (s *Store) Add(a *Alarm) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = generateID()
	}
	s.alarms = append(s.alarms, a)
	s.persist()
	return a.ID
}

// Get returns a copy of the alarm with the given ID.
func (s *Store) Get(id string) (Alarm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(id)
	if i < 0 {
		return Alarm{}, ErrAlarmNotFound
	}
	return *s.alarms[i], nil
}

// Alarms returns a value-copy snapshot in insertion order. Callers may
// iterate it freely without holding any lock.
func (s *Store) Alarms() []Alarm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Alarm, len(s.alarms))
	for i, a := range s.alarms {
		out[i] = *a
	}
	return out
}

// Count returns the number of registered alarms.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.alarms)
}

// EnabledCount returns the number of enabled alarms.
func (s *Store) EnabledCount() (n int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.alarms {
		if a.Enabled {
			n++
		}
	}
	return
}

// Ordinal resolves a 1-based display ordinal to an alarm ID. Ordinals are
// only meaningful at display time; everything else references alarms by ID.
func (s *Store) Ordinal(n int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n < 1 || n > len(s.alarms) {
		return "", ErrOutOfRange
	}
	return s.alarms[n-1].ID, nil
}

// ToggleEnabled flips the enabled flag of an alarm and returns the new value.
func (s *Store) ToggleEnabled(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return false, ErrAlarmNotFound
	}
	s.alarms[i].Enabled = !s.alarms[i].Enabled
	s.persist()
	return s.alarms[i].Enabled, nil
}

// SetEnabled sets the enabled flag of an alarm.
func (s *Store) SetEnabled(id string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return ErrAlarmNotFound
	}
	s.alarms[i].Enabled = enabled
	s.persist()
	return nil
}

// Remove deletes an alarm and returns a copy of it.
func (s *Store) Remove(id string) (Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return Alarm{}, ErrAlarmNotFound
	}
	removed := *s.alarms[i]
	s.alarms = append(s.alarms[:i], s.alarms[i+1:]...)
	s.persist()
	return removed, nil
}

// MarkSnoozed records that a firing episode for this alarm was snoozed:
// the alarm leaves the main scan until dismissed and its snooze count
// advances. Snooze counts change only here and in ResetSnooze.
func (s *Store) MarkSnoozed(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return ErrAlarmNotFound
	}
	s.alarms[i].Snoozed = true
	s.alarms[i].SnoozeCount++
	s.persist()
	return nil
}

// ResetSnooze clears the snooze state after a dismissal, returning the
// alarm to the main scan.
func (s *Store) ResetSnooze(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return ErrAlarmNotFound
	}
	s.alarms[i].Snoozed = false
	s.alarms[i].SnoozeCount = 0
	s.persist()
	return nil
}

// Flush deletes every alarm.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alarms = nil
	return s.persistErr()
}

// Close persists the current state and releases the data file.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.persistErr()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	s.f = nil
	return err
}

// index returns the position of the alarm with the given ID, or -1.
// Caller must hold the mutex.
func (s *Store) index(id string) int {
	for i, a := range s.alarms {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// persist writes the current state, logging failures instead of surfacing
// them: persistence is best effort and never blocks a mutation.
func (s *Store) persist() {
	if err := s.persistErr(); err != nil {
		log.Printf("chimelib: warning: failed to persist alarm data: %v", err)
	}
}

// persistErr re-encodes the whole alarm list into the data file.
// Caller must hold the mutex.
func (s *Store) persistErr() error {
	if s.f == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s.alarms); err != nil {
		return err
	}
	if err := s.f.Truncate(0); err != nil {
		return err
	}
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err := s.f.Write(buf.Bytes())
	return err
}
