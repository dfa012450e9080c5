package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/todo"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageList          = "todo_list.html"
	pageForm          = "todo_form.html"
	pageConfirmDelete = "todo_confirm_delete.html"
)

var pages = mustParsePages(pageList, pageForm, pageConfirmDelete)

var templateFuncs = template.FuncMap{
	"date": todo.FormatDate,
}

func mustParsePages(names ...string) map[string]*template.Template {
	parsed := make(map[string]*template.Template, len(names))
	for _, name := range names {
		parsed[name] = template.Must(
			template.New("base.html").Funcs(templateFuncs).
				ParseFS(templateFS, "templates/base.html", "templates/"+name),
		)
	}
	return parsed
}

type listPage struct {
	Todos []*todo.Todo
	Now   time.Time
}

type formPage struct {
	Todo *todo.Todo
	Form todoForm
}

type deletePage struct {
	Todo *todo.Todo
}

// render сначала пишет шаблон в буфер, чтобы ошибка не оставила половину страницы
func render(w http.ResponseWriter, status int, page string, data any) {
	var buf bytes.Buffer
	if err := pages[page].Execute(&buf, data); err != nil {
		logger.Error("HTTP: Ошибка шаблона", err, zap.String("template", page))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Error("HTTP: Ошибка записи ответа", err, zap.String("template", page))
	}
}
