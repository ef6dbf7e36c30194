package store

import (
	"context"
	"sync"
)

// MemoryStore is a Store that lives as long as the process
type MemoryStore struct {
	stats    map[string]*Stats
	nickname string
	flags    map[string]bool
	mu       sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		stats: make(map[string]*Stats),
		flags: make(map[string]bool),
	}
}

func (m *MemoryStore) IncrementWin(ctx context.Context, quizID string) error {
	return m.increment(quizID, func(s *Stats) { s.Wins++ })
}

func (m *MemoryStore) IncrementFail(ctx context.Context, quizID string) error {
	return m.increment(quizID, func(s *Stats) { s.Fails++ })
}

func (m *MemoryStore) increment(quizID string, apply func(*Stats)) error {
	if err := checkQuizID(quizID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.stats[quizID]
	if !ok {
		s = &Stats{QuizID: quizID}
		m.stats[quizID] = s
	}
	apply(s)
	return nil
}

func (m *MemoryStore) Stats(ctx context.Context, quizID string) (Stats, error) {
	if err := checkQuizID(quizID); err != nil {
		return Stats{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if s, ok := m.stats[quizID]; ok {
		return *s, nil
	}
	return Stats{QuizID: quizID}, nil
}

func (m *MemoryStore) Nickname(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nickname, nil
}

func (m *MemoryStore) SetNickname(ctx context.Context, nickname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nickname = nickname
	return nil
}

func (m *MemoryStore) Flag(ctx context.Context, name string) (bool, error) {
	if err := checkFlag(name); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flags[name], nil
}

func (m *MemoryStore) SetFlag(ctx context.Context, name string, value bool) error {
	if err := checkFlag(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[name] = value
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
