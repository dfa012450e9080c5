package handlers

import (
	"net/http"
	"strings"
	"todoTracker/internal/models/todo"
)

const invalidDateMessage = "Enter a valid date."

// todoForm хранит введённые значения, чтобы вернуть их в форму при ошибке
type todoForm struct {
	Title       string
	Description string
	DueDate     string
	IsResolved  bool
	Errors      map[string]string
}

func formFromTodo(t *todo.Todo) todoForm {
	return todoForm{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     todo.FormatDate(t.DueDate),
		IsResolved:  t.IsResolved,
	}
}

func parseTodoForm(r *http.Request) (todoForm, error) {
	if err := r.ParseForm(); err != nil {
		return todoForm{}, err
	}
	return todoForm{
		Title:       r.PostForm.Get("title"),
		Description: r.PostForm.Get("description"),
		DueDate:     r.PostForm.Get("due_date"),
		IsResolved:  checkboxValue(r.PostForm.Get("is_resolved")),
	}, nil
}

// checkboxValue: отсутствие поля и значения false, 0, off означают false
func checkboxValue(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "false", "0", "off":
		return false
	default:
		return true
	}
}

// options проверяет форму целиком и возвращает опции для сервиса.
// Форма описывает задачу полностью, поэтому пустая дата очищает срок.
func (f *todoForm) options() ([]todo.Option, bool) {
	f.Errors = make(map[string]string)

	dueDate, err := todo.ParseDate(f.DueDate)
	if err != nil {
		f.Errors["due_date"] = invalidDateMessage
	}

	opts := []todo.Option{
		todo.WithTitle(f.Title),
		todo.WithDescription(f.Description),
		todo.WithDueDate(dueDate),
		todo.WithResolved(f.IsResolved),
	}

	if err := todo.New(f.Title, opts...).Validate(); err != nil {
		if fields, ok := err.(todo.FieldErrors); ok {
			for field, msg := range fields {
				f.Errors[field] = msg
			}
		}
	}

	return opts, len(f.Errors) == 0
}
