package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/todo"
	rep "todoTracker/internal/repository"

	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type TodoService struct {
	repo     TodoRepository
	RepoType RepoType
	Now      func() time.Time
}

func NewTodoService(repo TodoRepository, repoType RepoType) TodoService {
	return TodoService{
		repo:     repo,
		RepoType: repoType,
		Now:      time.Now,
	}
}

func (s *TodoService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *TodoService) CreateTodo(ctx context.Context, title string, opts ...todo.Option) (*todo.Todo, error) {
	newTodo := todo.New(title, opts...)

	if err := s.validate(newTodo); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, newTodo); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана", zap.Int64("todo_id", newTodo.ID))
	return newTodo, nil
}

func (s *TodoService) GetTodoByID(ctx context.Context, id int64) (*todo.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrapRepoError(err, id, "получение задачи")
	}
	return t, nil
}

// UpdateTodo применяет опции к сохранённой задаче; updated_at обновляет репозиторий
func (s *TodoService) UpdateTodo(ctx context.Context, id int64, opts ...todo.Option) (*todo.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrapRepoError(err, id, "получение задачи")
	}

	t.Apply(opts...)
	t.ID = id

	if err := s.validate(t); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, s.wrapRepoError(err, id, "обновление задачи")
	}

	logger.Info("Service: Задача обновлена", zap.Int64("todo_id", id))
	return t, nil
}

func (s *TodoService) ToggleResolved(ctx context.Context, id int64) (*todo.Todo, error) {
	t, err := s.repo.ToggleResolved(ctx, id)
	if err != nil {
		return nil, s.wrapRepoError(err, id, "переключение статуса")
	}

	logger.Info("Service: Статус задачи изменён",
		zap.Int64("todo_id", id),
		zap.Bool("is_resolved", t.IsResolved))
	return t, nil
}

func (s *TodoService) DeleteTodo(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.wrapRepoError(err, id, "удаление задачи")
	}

	logger.Info("Service: Задача удалена", zap.Int64("todo_id", id))
	return nil
}

func (s *TodoService) ListTodos(ctx context.Context) ([]*todo.Todo, error) {
	todos, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return todos, nil
}

func (s *TodoService) ListOverdueTodos(ctx context.Context) ([]*todo.Todo, error) {
	todos, err := s.repo.ListOverdue(ctx, s.Now())
	if err != nil {
		return nil, fmt.Errorf("получение просроченных задач: %w", err)
	}
	return todos, nil
}

func (s *TodoService) validate(t *todo.Todo) error {
	err := t.Validate()
	if err == nil {
		return nil
	}

	var fields todo.FieldErrors
	if errors.As(err, &fields) {
		logger.Info("Service: Ошибка валидации", zap.Any("fields", map[string]string(fields)))
		return NewValidationError(fields, err)
	}
	return fmt.Errorf("валидация задачи: %w", err)
}

func (s *TodoService) wrapRepoError(err error, id int64, op string) error {
	if errors.Is(err, rep.ErrNotFound) {
		logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
		return NewNotFound(s.RepoType, id)
	}
	return fmt.Errorf("%s: %w", op, err)
}
