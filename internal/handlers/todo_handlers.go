package handlers

import (
	"net/http"
	"time"
	"todoTracker/internal/logger"
	"todoTracker/internal/service"

	"go.uber.org/zap"
)

type TodoHandler struct {
	TodoService Service
	Now         func() time.Time
}

func NewTodoHandler(todoService Service) TodoHandler {
	return TodoHandler{
		TodoService: todoService,
		Now:         time.Now,
	}
}

func (h *TodoHandler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/todos", http.StatusFound)
}

func (h *TodoHandler) ListPage(w http.ResponseWriter, r *http.Request) {
	todos, err := h.TodoService.ListTodos(r.Context())
	if err != nil {
		pageError(w, r, err, "list_todos")
		return
	}

	render(w, http.StatusOK, pageList, listPage{Todos: todos, Now: h.Now()})
}

func (h *TodoHandler) NewPage(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, pageForm, formPage{})
}

func (h *TodoHandler) CreateFromForm(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Отправка формы создания")

	form, err := parseTodoForm(r)
	if err != nil {
		logger.Warn("HTTP: Ошибка чтения формы", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	opts, ok := form.options()
	if !ok {
		render(w, http.StatusOK, pageForm, formPage{Form: form})
		return
	}

	created, err := h.TodoService.CreateTodo(r.Context(), form.Title, opts...)
	if err != nil {
		if fields := service.FieldErrors(err); fields != nil {
			form.Errors = fields
			render(w, http.StatusOK, pageForm, formPage{Form: form})
			return
		}
		pageError(w, r, err, "create_todo")
		return
	}

	logger.Info("HTTP: Задача создана из формы", zap.Int64("todo_id", created.ID))
	http.Redirect(w, r, "/todos", http.StatusSeeOther)
}

func (h *TodoHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	existing, err := h.TodoService.GetTodoByID(r.Context(), id)
	if err != nil {
		pageError(w, r, err, "get_todo")
		return
	}

	render(w, http.StatusOK, pageForm, formPage{Todo: existing, Form: formFromTodo(existing)})
}

func (h *TodoHandler) UpdateFromForm(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Отправка формы редактирования")

	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	existing, err := h.TodoService.GetTodoByID(r.Context(), id)
	if err != nil {
		pageError(w, r, err, "get_todo")
		return
	}

	form, err := parseTodoForm(r)
	if err != nil {
		logger.Warn("HTTP: Ошибка чтения формы", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	opts, ok := form.options()
	if !ok {
		render(w, http.StatusOK, pageForm, formPage{Todo: existing, Form: form})
		return
	}

	if _, err := h.TodoService.UpdateTodo(r.Context(), id, opts...); err != nil {
		if fields := service.FieldErrors(err); fields != nil {
			form.Errors = fields
			render(w, http.StatusOK, pageForm, formPage{Todo: existing, Form: form})
			return
		}
		pageError(w, r, err, "update_todo")
		return
	}

	http.Redirect(w, r, "/todos", http.StatusSeeOther)
}

func (h *TodoHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	existing, err := h.TodoService.GetTodoByID(r.Context(), id)
	if err != nil {
		pageError(w, r, err, "get_todo")
		return
	}

	render(w, http.StatusOK, pageConfirmDelete, deletePage{Todo: existing})
}

func (h *TodoHandler) DeleteFromForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := h.TodoService.DeleteTodo(r.Context(), id); err != nil {
		pageError(w, r, err, "delete_todo")
		return
	}

	http.Redirect(w, r, "/todos", http.StatusSeeOther)
}

func (h *TodoHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if _, err := h.TodoService.ToggleResolved(r.Context(), id); err != nil {
		pageError(w, r, err, "toggle_todo")
		return
	}

	http.Redirect(w, r, "/todos", http.StatusSeeOther)
}

// pageError отвечает 404 на отсутствующую задачу и 500 на всё остальное
func pageError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if service.IsNotFound(err) {
		logger.Warn("HTTP: Задача не найдена",
			zap.String("operation", operation),
			zap.String("path", r.URL.Path))
		http.NotFound(w, r)
		return
	}

	logger.Error("HTTP: Ошибка Service", err,
		zap.String("operation", operation),
		zap.String("client_ip", r.RemoteAddr))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
