package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterPages подключает HTML-страницы
func (h *TodoHandler) RegisterPages(r chi.Router) {
	r.Get("/", h.Index)

	r.Route("/todos", func(r chi.Router) {
		r.Get("/", h.ListPage)           // GET /todos
		r.Get("/new", h.NewPage)         // GET /todos/new
		r.Post("/new", h.CreateFromForm) // POST /todos/new

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/edit", h.EditPage)          // GET /todos/{id}/edit
			r.Post("/edit", h.UpdateFromForm)   // POST /todos/{id}/edit
			r.Get("/delete", h.DeletePage)      // GET /todos/{id}/delete
			r.Post("/delete", h.DeleteFromForm) // POST /todos/{id}/delete
			r.Get("/toggle", h.Toggle)          // GET /todos/{id}/toggle
		})
	})
}

// RegisterAPI подключает JSON API
func (h *TodoHandler) RegisterAPI(r chi.Router) {
	r.Get("/", h.GetTodos)               // GET /api/todos
	r.Post("/", h.PostTodo)              // POST /api/todos
	r.Get("/overdue", h.GetOverdueTodos) // GET /api/todos/overdue

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetTodoByID)           // GET /api/todos/{id}
		r.Put("/", h.UpdateTodoByID)        // PUT /api/todos/{id}
		r.Delete("/", h.DeleteTodoByID)     // DELETE /api/todos/{id}
		r.Post("/toggle", h.ToggleTodoByID) // POST /api/todos/{id}/toggle
	})
}
