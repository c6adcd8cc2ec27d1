package theme

import (
	"errors"
	"fmt"
)

// StorageKey is where the explicit choice is persisted.
const StorageKey = "kidofood.theme"

const (
	valueDark  = "dark"
	valueLight = "light"
)

var ErrStorageUnavailable = errors.New("theme storage unavailable")

// StorageError wraps a failed read or write of the preference.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("theme storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type Source int

const (
	SourceUnknown Source = iota
	SourceStored
	SourceSystem
)

func (s Source) String() string {
	switch s {
	case SourceStored:
		return "stored"
	case SourceSystem:
		return "system"
	default:
		return "unknown"
	}
}

// Preference is the resolved dark-mode setting. Known is false when no
// storage was reachable at all.
type Preference struct {
	Dark   bool
	Known  bool
	Source Source
}

// ClassName is the presentation flag put on the root element.
func (p Preference) ClassName() string {
	if p.Known && p.Dark {
		return "dark"
	}
	return ""
}

// Storage is durable per-visitor storage.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Read resolves the preference: an explicit stored choice wins, the OS
// preference is the fallback, also when the storage read fails.
func Read(s Storage, systemDark bool) (Preference, error) {
	if s == nil {
		return Preference{}, ErrStorageUnavailable
	}

	system := Preference{Dark: systemDark, Known: true, Source: SourceSystem}

	value, ok, err := s.Get(StorageKey)
	if err != nil {
		return system, &StorageError{Op: "read", Err: err}
	}
	if !ok {
		return system, nil
	}
	return Preference{Dark: value == valueDark, Known: true, Source: SourceStored}, nil
}

// Write persists the choice and returns the preference to render with.
// The returned preference reflects the choice even when persisting failed.
func Write(s Storage, dark bool) (Preference, error) {
	if s == nil {
		return Preference{}, ErrStorageUnavailable
	}

	pref := Preference{Dark: dark, Known: true, Source: SourceStored}
	value := valueLight
	if dark {
		value = valueDark
	}
	if err := s.Set(StorageKey, value); err != nil {
		return pref, &StorageError{Op: "write", Err: err}
	}
	return pref, nil
}
