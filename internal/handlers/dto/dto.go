package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
	"todoTracker/internal/models/todo"
)

// Date is a calendar day encoded as "YYYY-MM-DD"
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(todo.DateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("due_date должен быть строкой: %w", err)
	}
	parsed, err := time.Parse(todo.DateLayout, raw)
	if err != nil {
		return fmt.Errorf("due_date должен быть в формате YYYY-MM-DD: %w", err)
	}
	d.Time = parsed
	return nil
}

// OptionalDate отличает отсутствующее поле от явного null
type OptionalDate struct {
	Set   bool
	Value *time.Time
}

func (o *OptionalDate) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var d Date
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	o.Value = &d.Time
	return nil
}

type CreateTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     *Date  `json:"due_date,omitempty"`
	IsResolved  bool   `json:"is_resolved"`
}

func (r CreateTodoRequest) Options() []todo.Option {
	opts := []todo.Option{
		todo.WithDescription(r.Description),
		todo.WithResolved(r.IsResolved),
	}
	if r.DueDate != nil {
		opts = append(opts, todo.WithDueDate(&r.DueDate.Time))
	}
	return opts
}

type UpdateTodoRequest struct {
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	DueDate     OptionalDate `json:"due_date"`
	IsResolved  *bool        `json:"is_resolved,omitempty"`
}

// Options переводит заполненные поля в опции обновления
func (r UpdateTodoRequest) Options() []todo.Option {
	var opts []todo.Option
	if r.Title != nil {
		opts = append(opts, todo.WithTitle(*r.Title))
	}
	if r.Description != nil {
		opts = append(opts, todo.WithDescription(*r.Description))
	}
	if r.DueDate.Set {
		opts = append(opts, todo.WithDueDate(r.DueDate.Value))
	}
	if r.IsResolved != nil {
		opts = append(opts, todo.WithResolved(*r.IsResolved))
	}
	return opts
}

type TodoResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     *Date     `json:"due_date"`
	IsResolved  bool      `json:"is_resolved"`
	IsOverdue   bool      `json:"is_overdue"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromTodo(t *todo.Todo, now time.Time) TodoResponse {
	resp := TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		IsResolved:  t.IsResolved,
		IsOverdue:   t.IsOverdue(now),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.DueDate != nil {
		resp.DueDate = &Date{Time: *t.DueDate}
	}
	return resp
}

func FromTodoList(todos []*todo.Todo, now time.Time) []TodoResponse {
	result := make([]TodoResponse, len(todos))
	for i, t := range todos {
		result[i] = FromTodo(t, now)
	}
	return result
}
