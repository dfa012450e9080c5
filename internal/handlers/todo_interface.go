package handlers

import (
	"context"
	"todoTracker/internal/models/todo"
)

type Service interface {
	HealthCheck(context.Context) error
	CreateTodo(context.Context, string, ...todo.Option) (*todo.Todo, error)
	GetTodoByID(context.Context, int64) (*todo.Todo, error)
	UpdateTodo(context.Context, int64, ...todo.Option) (*todo.Todo, error)
	ToggleResolved(context.Context, int64) (*todo.Todo, error)
	DeleteTodo(context.Context, int64) error
	ListTodos(context.Context) ([]*todo.Todo, error)
	ListOverdueTodos(context.Context) ([]*todo.Todo, error)
}
