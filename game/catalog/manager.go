package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/wricardo/brainstress/game/quiz"
	"github.com/wricardo/brainstress/game/service"
)

var (
	ErrQuizNotFound    = service.ErrQuizNotFound
	ErrUnknownCategory = errors.New("unknown category")
	ErrQuizExists      = errors.New("quiz already exists")
	ErrInvalidQuizFile = errors.New("invalid quiz file")
	ErrInvalidQuizID   = errors.New("quiz ID cannot be used as a file name")
)

// Recipe describes a generated arithmetic quiz
type Recipe struct {
	Operator quiz.Operator
	Count    int
}

// entry is one catalog quiz, either a recipe or a static quiz
type entry struct {
	id         string
	title      string
	category   quiz.Category
	difficulty quiz.Difficulty
	recipe     *Recipe
	static     *quiz.Quiz
	source     string
}

func (e *entry) itemCount() int {
	if e.recipe != nil {
		return e.recipe.Count
	}
	return len(e.static.Items)
}

// Manager holds the catalog and builds playable quizzes from it
type Manager struct {
	generator  *quiz.Generator
	categories []quiz.Category
	entries    map[string]*entry
	order      []string
	mu         sync.RWMutex
}

// NewManager creates a catalog with the built-in quizzes. A nil generator
// gets a randomly seeded one.
func NewManager(gen *quiz.Generator) *Manager {
	if gen == nil {
		gen = quiz.NewGenerator(nil)
	}
	m := &Manager{
		generator:  gen,
		categories: []quiz.Category{quiz.All, quiz.Math, quiz.Geography, quiz.TrickyQuestions, quiz.Automotive, quiz.Corporate},
		entries:    make(map[string]*entry),
	}

	for _, r := range builtinRecipes() {
		m.addRecipe(r.id, r.title, r.difficulty, r.recipe)
	}
	for _, q := range builtinQuizzes() {
		// built-ins are covered by tests, a failure here is a programming error
		if err := m.Register(q); err != nil {
			panic(fmt.Sprintf("invalid built-in quiz %s: %v", q.ID, err))
		}
	}
	return m
}

// Categories returns the known categories, All first
func (m *Manager) Categories() []quiz.Category {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.categories)
}

// ListQuizzes returns catalog entries in the given category. An empty
// category or "All" lists everything. Matching is case-insensitive.
func (m *Manager) ListQuizzes(category string) ([]*service.QuizInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := category == "" || strings.EqualFold(category, quiz.All.Name)
	if !all && !m.hasCategory(category) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}

	infos := make([]*service.QuizInfo, 0, len(m.order))
	for _, id := range m.order {
		e := m.entries[id]
		if !all && !strings.EqualFold(e.category.Name, category) {
			continue
		}
		infos = append(infos, toInfo(e))
	}
	return infos, nil
}

// GetInfo describes one quiz without building it
func (m *Manager) GetInfo(quizID string) (*service.QuizInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[strings.ToLower(quizID)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrQuizNotFound, quizID)
	}
	return toInfo(e), nil
}

// Build returns a playable quiz. Recipes are generated fresh on every call.
func (m *Manager) Build(quizID string) (*quiz.Quiz, error) {
	m.mu.RLock()
	e, ok := m.entries[strings.ToLower(quizID)]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrQuizNotFound, quizID)
	}

	if e.static != nil {
		return e.static.Clone(), nil
	}
	return &quiz.Quiz{
		ID:         e.id,
		Title:      e.title,
		Items:      m.generator.Generate(e.recipe.Count, e.difficulty, e.recipe.Operator),
		Category:   e.category,
		Difficulty: e.difficulty,
	}, nil
}

// Register validates q and adds it as a static quiz. Its category becomes
// known if it was not already.
func (m *Manager) Register(q *quiz.Quiz) error {
	return m.register(q, "builtin")
}

func (m *Manager) register(q *quiz.Quiz, source string) error {
	if err := quiz.Validate(q); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.existsLocked(q.ID) {
		return fmt.Errorf("%w: %s", ErrQuizExists, q.ID)
	}
	m.addLocked(q, source)
	return nil
}

func (m *Manager) existsLocked(id string) bool {
	_, ok := m.entries[strings.ToLower(id)]
	return ok
}

func (m *Manager) addLocked(q *quiz.Quiz, source string) {
	id := strings.ToLower(q.ID)
	m.entries[id] = &entry{
		id:         q.ID,
		title:      q.Title,
		category:   q.Category,
		difficulty: q.Difficulty,
		static:     q.Clone(),
		source:     source,
	}
	m.order = append(m.order, id)
	if !m.hasCategory(q.Category.Name) {
		m.categories = append(m.categories, q.Category)
	}
}

// LoadDir registers every *.json quiz in dir. Invalid files are collected
// and reported together after the valid ones are loaded.
func (m *Manager) LoadDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("quiz directory does not exist: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read quiz directory: %w", err)
	}

	var errs []error
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, de.Name())
		if err := m.loadFile(path); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", de.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read quiz file: %w", err)
	}

	var q quiz.Quiz
	if err := json.Unmarshal(data, &q); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuizFile, err)
	}
	if q.ID == "" {
		q.ID = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	return m.register(&q, path)
}

// SaveQuiz writes q as JSON into dir and registers it. Nothing is written
// when the ID is already in the catalog or already has a file in dir.
func (m *Manager) SaveQuiz(dir string, q *quiz.Quiz) error {
	if err := quiz.Validate(q); err != nil {
		return err
	}
	if err := checkFileID(q.ID); err != nil {
		return err
	}

	data, err := json.MarshalIndent(q, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal quiz: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	path := filepath.Join(dir, q.ID+".json")
	if m.existsLocked(q.ID) {
		return fmt.Errorf("%w: %s", ErrQuizExists, q.ID)
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrQuizExists, path)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write quiz file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace quiz file: %w", err)
	}
	m.addLocked(q, path)
	return nil
}

// checkFileID rejects IDs that would leave the target directory
func checkFileID(id string) error {
	if id == "." || id == ".." || filepath.Base(id) != id || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidQuizID, id)
	}
	return nil
}

// Count returns the number of catalog entries
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Manager) addRecipe(id, title string, difficulty quiz.Difficulty, r Recipe) {
	key := strings.ToLower(id)
	m.entries[key] = &entry{
		id:         id,
		title:      title,
		category:   quiz.Math,
		difficulty: difficulty,
		recipe:     &r,
		source:     "generator",
	}
	m.order = append(m.order, key)
}

// hasCategory expects m.mu to be held
func (m *Manager) hasCategory(name string) bool {
	return slices.ContainsFunc(m.categories, func(c quiz.Category) bool {
		return strings.EqualFold(c.Name, name)
	})
}

func toInfo(e *entry) *service.QuizInfo {
	return &service.QuizInfo{
		ID:         e.id,
		Title:      e.title,
		Category:   e.category.Name,
		Difficulty: string(e.difficulty),
		ItemCount:  e.itemCount(),
		Generated:  e.recipe != nil,
		Source:     e.source,
	}
}
