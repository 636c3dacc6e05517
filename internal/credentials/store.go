// Package credentials persists the bearer token and user profile between
// CLI invocations.
//
// At most one credential is current at a time: writes replace the whole
// state file, and Clear removes the token and profile together. No expiry is
// tracked locally; a stale token is discovered only when the backend rejects
// it.
package credentials

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// State is the on-disk shape of the credential file.
type State struct {
	// AccessToken is the opaque bearer credential, empty when logged out.
	AccessToken string `json:"accessToken,omitempty"`

	// User is the JSON-serialized profile returned at login.
	User json.RawMessage `json:"user,omitempty"`
}

// Store manages the credential file with locking.
type Store struct {
	dir string
}

// NewStore creates a credential store using the given directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) statePath() string {
	return filepath.Join(s.dir, "credentials.json")
}

func (s *Store) lockPath() string {
	return filepath.Join(s.dir, "credentials.lock")
}

// Load reads the state from disk. Returns an empty state if the file doesn't
// exist.
func (s *Store) Load() (*State, error) {
	data, err := os.ReadFile(s.statePath())
	if os.IsNotExist(err) {
		return &State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credential file: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("unmarshal credentials: %w", err)
	}
	return &st, nil
}

// Token returns the stored bearer token, or "" when none is stored.
func (s *Store) Token() (string, error) {
	st, err := s.Load()
	if err != nil {
		return "", err
	}
	return st.AccessToken, nil
}

// SetToken replaces the stored bearer token, keeping the profile.
func (s *Store) SetToken(token string) error {
	return s.Update(func(st *State) error {
		st.AccessToken = token
		return nil
	})
}

// SetSession replaces both the token and the stored profile.
func (s *Store) SetSession(token string, user json.RawMessage) error {
	return s.Update(func(st *State) error {
		st.AccessToken = token
		st.User = user
		return nil
	})
}

// User returns the stored profile JSON, or nil when none is stored.
func (s *Store) User() (json.RawMessage, error) {
	st, err := s.Load()
	if err != nil {
		return nil, err
	}
	return st.User, nil
}

// Clear removes the token and profile together.
func (s *Store) Clear() error {
	return s.Update(func(st *State) error {
		st.AccessToken = ""
		st.User = nil
		return nil
	})
}

// Save writes the state to disk atomically.
func (s *Store) Save(st *State) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	if existing, err := os.ReadFile(s.statePath()); err == nil {
		if bytes.Equal(existing, data) {
			return nil
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read credential file: %w", err)
	}

	// Write atomically via temp file
	tmpFile, err := os.CreateTemp(s.dir, filepath.Base(s.statePath())+".tmp")
	if err != nil {
		return fmt.Errorf("create temp credential file: %w", err)
	}
	name := tmpFile.Name()
	if err := tmpFile.Chmod(0600); err != nil {
		tmpFile.Close()
		os.Remove(name)
		return fmt.Errorf("chmod temp credential file: %w", err)
	}
	_, err = tmpFile.Write(data)
	if err1 := tmpFile.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(name)
		return fmt.Errorf("write temp credential file: %w", err)
	}

	if err := os.Rename(name, s.statePath()); err != nil {
		os.Remove(name)
		return fmt.Errorf("rename credential file: %w", err)
	}

	return nil
}

// Update atomically reads, modifies, and writes the state with file locking.
func (s *Store) Update(fn func(st *State) error) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}

	lockFile, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer lockFile.Close()

	if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN)

	st, err := s.Load()
	if err != nil {
		return err
	}

	if err := fn(st); err != nil {
		return err
	}

	return s.Save(st)
}
