package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/todo"
	repo "todoTracker/internal/repository"
)

type TodoStorage struct {
	storage map[int64]*todo.Todo
	mtx     *sync.RWMutex
	ids     []int64
	lastID  int64
	now     func() time.Time
}

func NewTodoStorage() *TodoStorage {
	return &TodoStorage{
		storage: make(map[int64]*todo.Todo),
		mtx:     &sync.RWMutex{},
		ids:     []int64{},
		now:     time.Now,
	}
}

func (s *TodoStorage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *TodoStorage) Create(ctx context.Context, todoToCreate *todo.Todo) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.lastID++
	now := s.now()
	todoToCreate.ID = s.lastID
	todoToCreate.CreatedAt = now
	todoToCreate.UpdatedAt = now

	s.storage[todoToCreate.ID] = todoToCreate.Clone()
	s.ids = append(s.ids, todoToCreate.ID)
	return nil
}

func (s *TodoStorage) Update(ctx context.Context, todoToUpdate *todo.Todo) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existed, ok := s.storage[todoToUpdate.ID]
	if !ok {
		return repo.ErrNotFound
	}

	todoToUpdate.CreatedAt = existed.CreatedAt
	todoToUpdate.UpdatedAt = s.nextUpdatedAt(existed.UpdatedAt)
	s.storage[todoToUpdate.ID] = todoToUpdate.Clone()

	return nil
}

func (s *TodoStorage) ToggleResolved(ctx context.Context, id int64) (*todo.Todo, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existed, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	existed.IsResolved = !existed.IsResolved
	existed.UpdatedAt = s.nextUpdatedAt(existed.UpdatedAt)

	return existed.Clone(), nil
}

func (s *TodoStorage) GetByID(ctx context.Context, id int64) (*todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	todoToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return todoToGet.Clone(), nil
}

// полное удаление
func (s *TodoStorage) Delete(ctx context.Context, id int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}

// все задачи: сначала нерешённые, затем решённые
func (s *TodoStorage) List(ctx context.Context) ([]*todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*todo.Todo, 0, len(s.ids))
	for _, id := range s.ids {
		res = append(res, s.storage[id].Clone())
	}

	todo.SortForListing(res)
	return res, nil
}

// нерешённые задачи со сроком раньше today, ближайшие сроки первыми
func (s *TodoStorage) ListOverdue(ctx context.Context, today time.Time) ([]*todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*todo.Todo{}
	for _, id := range s.ids {
		t := s.storage[id]
		if t.IsOverdue(today) {
			res = append(res, t.Clone())
		}
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].DueDate.Before(*res[j].DueDate)
	})
	return res, nil
}

// updated_at обязан расти даже при одинаковых показаниях часов
func (s *TodoStorage) nextUpdatedAt(prev time.Time) time.Time {
	now := s.now()
	if !now.After(prev) {
		now = prev.Add(time.Microsecond)
	}
	return now
}
