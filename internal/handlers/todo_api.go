package handlers

import (
	"net/http"
	"time"
	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/logger"

	"go.uber.org/zap"
)

const jsonContentType = "application/json"

func (h *TodoHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.TodoService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Health check не пройден", err)
		responseWithJSON(w, http.StatusServiceUnavailable, toPayload("status", "unavailable"))
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}

func (h *TodoHandler) GetTodos(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	todos, err := h.TodoService.ListTodos(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "list_todos")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(todos)),
		zap.Duration("ms", time.Since(start)))

	responseWithData(w, http.StatusOK, dto.FromTodoList(todos, h.Now()))
}

func (h *TodoHandler) GetOverdueTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.TodoService.ListOverdueTodos(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "list_overdue_todos")
		return
	}

	responseWithData(w, http.StatusOK, dto.FromTodoList(todos, h.Now()))
}

func (h *TodoHandler) PostTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if !checkContentType(r, jsonContentType) {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", jsonContentType),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateTodoRequest
	if err := decodeJSON(w, r, createTodoSchema, &request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	created, err := h.TodoService.CreateTodo(r.Context(), request.Title, request.Options()...)
	if err != nil {
		handleServiceError(w, r, err, "create_todo")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.Int64("todo_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithData(w, http.StatusCreated, dto.FromTodo(created, h.Now()))
}

func (h *TodoHandler) GetTodoByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		responseWithError(w, http.StatusNotFound, "задача не найдена")
		return
	}

	found, err := h.TodoService.GetTodoByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_todo")
		return
	}

	responseWithData(w, http.StatusOK, dto.FromTodo(found, h.Now()))
}

func (h *TodoHandler) UpdateTodoByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := parseID(r)
	if !ok {
		responseWithError(w, http.StatusNotFound, "задача не найдена")
		return
	}

	if !checkContentType(r, jsonContentType) {
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.UpdateTodoRequest
	if err := decodeJSON(w, r, updateTodoSchema, &request); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления: "+err.Error())
		return
	}

	updated, err := h.TodoService.UpdateTodo(r.Context(), id, request.Options()...)
	if err != nil {
		handleServiceError(w, r, err, "update_todo")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.Int64("todo_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithData(w, http.StatusOK, dto.FromTodo(updated, h.Now()))
}

func (h *TodoHandler) ToggleTodoByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		responseWithError(w, http.StatusNotFound, "задача не найдена")
		return
	}

	toggled, err := h.TodoService.ToggleResolved(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "toggle_todo")
		return
	}

	responseWithData(w, http.StatusOK, dto.FromTodo(toggled, h.Now()))
}

func (h *TodoHandler) DeleteTodoByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		responseWithError(w, http.StatusNotFound, "задача не найдена")
		return
	}

	if err := h.TodoService.DeleteTodo(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_todo")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Int64("todo_id", id),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}
