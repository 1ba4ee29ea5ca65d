package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/project/models"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/platform/sentinel"
)

// InMemoryStore keeps the initial implementation lightweight and testable.
// It intentionally favors clarity over performance.
type InMemoryStore struct {
	mu         sync.RWMutex
	nextProjID int64
	nextTaskID int64
	projects   map[int64]*models.Project
	tasks      map[int64]*models.Task
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		nextProjID: 1,
		nextTaskID: 1,
		projects:   make(map[int64]*models.Project),
		tasks:      make(map[int64]*models.Task),
	}
}

func (s *InMemoryStore) CreateProject(_ context.Context, project *models.Project) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *project
	stored.ID = s.nextProjID
	s.nextProjID++
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	s.projects[stored.ID] = &stored

	copied := stored
	return &copied, nil
}

func (s *InMemoryStore) FindProject(_ context.Context, id int64) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if project, ok := s.projects[id]; ok {
		copied := *project
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) CreateTask(_ context.Context, task *models.Task) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *task
	stored.ID = s.nextTaskID
	s.nextTaskID++
	now := time.Now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.tasks[stored.ID] = &stored

	copied := stored
	return &copied, nil
}

func (s *InMemoryStore) FindTask(_ context.Context, id int64) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if task, ok := s.tasks[id]; ok {
		copied := *task
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) UpdateTask(_ context.Context, task *models.Task) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; !ok {
		return nil, sentinel.ErrNotFound
	}

	stored := *task
	stored.UpdatedAt = time.Now()
	s.tasks[stored.ID] = &stored

	copied := stored
	return &copied, nil
}

func (s *InMemoryStore) DeleteTask(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *InMemoryStore) ListTasksByAssignee(_ context.Context, assigneeID int64, status models.Status) ([]*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Task
	for _, task := range s.tasks {
		if task.AssigneeID != assigneeID {
			continue
		}
		if status != "" && task.Status != status {
			continue
		}
		copied := *task
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
