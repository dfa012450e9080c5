package todo

import (
	"strings"
	"time"
)

type Option func(*Todo)

func WithTitle(title string) Option {
	return func(t *Todo) {
		t.Title = strings.TrimSpace(title)
	}
}

func WithDescription(description string) Option {
	return func(t *Todo) {
		t.Description = description
	}
}

// WithDueDate keeps only the calendar day; nil clears the due date.
func WithDueDate(dueDate *time.Time) Option {
	return func(t *Todo) {
		if dueDate == nil {
			t.DueDate = nil
			return
		}
		d := Date(*dueDate)
		t.DueDate = &d
	}
}

func WithResolved(resolved bool) Option {
	return func(t *Todo) {
		t.IsResolved = resolved
	}
}
