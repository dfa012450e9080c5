package todo

import (
	"sort"
	"time"
)

const MaxTitleLength = 200

type Todo struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title" validate:"required,max=200"`
	Description string     `json:"description" db:"description"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	IsResolved  bool       `json:"is_resolved" db:"is_resolved"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// New builds an unsaved todo with the default field values.
func New(title string, opts ...Option) *Todo {
	t := &Todo{}
	WithTitle(title)(t)
	t.Apply(opts...)
	return t
}

func (t *Todo) Apply(opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
}

func (t *Todo) String() string {
	return t.Title
}

// IsOverdue reports whether the todo is unresolved and its due date lies
// before the calendar day of now.
func (t *Todo) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.IsResolved {
		return false
	}
	return Date(*t.DueDate).Before(Date(now))
}

func (t *Todo) Clone() *Todo {
	if t == nil {
		return nil
	}
	c := *t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return &c
}

// SortForListing orders unresolved todos before resolved ones, newest first
// inside each group.
func SortForListing(todos []*Todo) {
	sort.SliceStable(todos, func(i, j int) bool {
		if todos[i].IsResolved != todos[j].IsResolved {
			return !todos[i].IsResolved
		}
		return todos[i].ID > todos[j].ID
	})
}
