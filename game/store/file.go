package store

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
)

const profileFile = "profile.json"

// profileData is the JSON document written by FileStore
type profileData struct {
	Nickname string           `json:"nickname"`
	Flags    map[string]bool  `json:"flags"`
	Stats    map[string]Stats `json:"stats"`
}

// FileStore keeps all data in one JSON file inside a directory
type FileStore struct {
	path string
	data profileData
	mu   sync.Mutex
}

// NewFileStore creates the directory if needed and loads any existing data
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	fs := &FileStore{
		path: filepath.Join(dir, profileFile),
		data: profileData{
			Flags: make(map[string]bool),
			Stats: make(map[string]Stats),
		},
	}

	jsonData, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	if err := json.Unmarshal(jsonData, &fs.data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile data: %w", err)
	}
	if fs.data.Flags == nil {
		fs.data.Flags = make(map[string]bool)
	}
	if fs.data.Stats == nil {
		fs.data.Stats = make(map[string]Stats)
	}
	for id, st := range fs.data.Stats {
		st.QuizID = id
		fs.data.Stats[id] = st
	}
	return fs, nil
}

// Path returns the JSON file location
func (fs *FileStore) Path() string {
	return fs.path
}

func (fs *FileStore) IncrementWin(ctx context.Context, quizID string) error {
	return fs.increment(quizID, func(s *Stats) { s.Wins++ })
}

func (fs *FileStore) IncrementFail(ctx context.Context, quizID string) error {
	return fs.increment(quizID, func(s *Stats) { s.Fails++ })
}

func (fs *FileStore) increment(quizID string, apply func(*Stats)) error {
	if err := checkQuizID(quizID); err != nil {
		return err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	s := fs.data.Stats[quizID]
	s.QuizID = quizID
	apply(&s)

	next := fs.data
	next.Stats = maps.Clone(fs.data.Stats)
	next.Stats[quizID] = s
	return fs.commit(next)
}

func (fs *FileStore) Stats(ctx context.Context, quizID string) (Stats, error) {
	if err := checkQuizID(quizID); err != nil {
		return Stats{}, err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	s := fs.data.Stats[quizID]
	s.QuizID = quizID
	return s, nil
}

func (fs *FileStore) Nickname(ctx context.Context) (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.data.Nickname, nil
}

func (fs *FileStore) SetNickname(ctx context.Context, nickname string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	next := fs.data
	next.Nickname = nickname
	return fs.commit(next)
}

func (fs *FileStore) Flag(ctx context.Context, name string) (bool, error) {
	if err := checkFlag(name); err != nil {
		return false, err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.data.Flags[name], nil
}

func (fs *FileStore) SetFlag(ctx context.Context, name string, value bool) error {
	if err := checkFlag(name); err != nil {
		return err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	next := fs.data
	next.Flags = maps.Clone(fs.data.Flags)
	next.Flags[name] = value
	return fs.commit(next)
}

func (fs *FileStore) Close() error {
	return nil
}

// commit writes next to disk and only then makes it the current data.
// Callers hold fs.mu.
func (fs *FileStore) commit(next profileData) error {
	if err := fs.save(next); err != nil {
		return err
	}
	fs.data = next
	return nil
}

// save replaces the JSON file through a temp file
func (fs *FileStore) save(data profileData) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile data: %w", err)
	}

	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write profile file: %w", err)
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return fmt.Errorf("failed to replace profile file: %w", err)
	}
	return nil
}
