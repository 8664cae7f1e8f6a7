package main

import (
	"errors"
	"slices"
	"sync"
)

var (
	// ErrUsernameTaken is returned by Append when a profile with the same
	// username is already stored.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrProfileNotFound is returned when a username is not in the store.
	ErrProfileNotFound = errors.New("profile not found")
)

// ProfileStore is the process-wide, insertion-ordered list of profiles.
//
// A single mutex covers both append and snapshot; it is never held while
// the caller works on the data.
type ProfileStore struct {
	mu       sync.Mutex
	profiles []Profile
	onChange func(size int)
}

// NewProfileStore returns a store holding a copy of seed. Duplicate usernames
// in seed are rejected.
func NewProfileStore(seed []Profile) (*ProfileStore, error) {
	s := &ProfileStore{profiles: make([]Profile, 0, len(seed))}
	for _, p := range seed {
		if err := s.Append(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Snapshot returns a detached copy of the current sequence.
func (s *ProfileStore) Snapshot() []Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.profiles)
}

// Append adds p at the end of the sequence.
func (s *ProfileStore) Append(p Profile) error {
	s.mu.Lock()
	for _, existing := range s.profiles {
		if existing.Username == p.Username {
			s.mu.Unlock()
			return ErrUsernameTaken
		}
	}
	s.profiles = append(s.profiles, p)
	size := len(s.profiles)
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange(size)
	}
	return nil
}

// Find looks up a single profile by exact username.
func (s *ProfileStore) Find(username string) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.Username == username {
			return p, nil
		}
	}
	return Profile{}, ErrProfileNotFound
}

// Exists reports whether username is taken.
func (s *ProfileStore) Exists(username string) bool {
	_, err := s.Find(username)
	return err == nil
}

// Len returns the number of stored profiles.
func (s *ProfileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.profiles)
}

// OnChange registers fn to be called with the new size after each append.
func (s *ProfileStore) OnChange(fn func(size int)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}
