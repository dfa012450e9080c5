package service

import (
	"context"
	"time"
	"todoTracker/internal/models/todo"
)

type TodoRepository interface {
	HealthCheck(context.Context) error
	Create(context.Context, *todo.Todo) error
	GetByID(context.Context, int64) (*todo.Todo, error)
	Update(context.Context, *todo.Todo) error
	ToggleResolved(context.Context, int64) (*todo.Todo, error)
	Delete(context.Context, int64) error
	List(context.Context) ([]*todo.Todo, error)
	ListOverdue(context.Context, time.Time) ([]*todo.Todo, error)
}

type RepoType string

const (
	DBType       RepoType = "postgres"
	InMemoryType RepoType = "inmemory"
)
