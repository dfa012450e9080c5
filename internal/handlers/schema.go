package handlers

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const maxBodyBytes = 1 << 20

var (
	createTodoSchema = mustCompileSchema("schemas/create_todo.json")
	updateTodoSchema = mustCompileSchema("schemas/update_todo.json")
)

func mustCompileSchema(name string) *jsonschema.Schema {
	data, err := schemaFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("схема %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		panic(fmt.Sprintf("схема %s: %v", name, err))
	}
	return compiler.MustCompile(name)
}

// decodeJSON проверяет тело по схеме и только потом разбирает его в dst
func decodeJSON(w http.ResponseWriter, r *http.Request, schema *jsonschema.Schema, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("чтение тела: %w", err)
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("некорректный JSON: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return schemaError(err)
	}

	return json.Unmarshal(body, dst)
}

func schemaError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}

	var msgs []string
	collectSchemaErrors(ve, &msgs)
	return fmt.Errorf("тело не соответствует схеме: %s", strings.Join(msgs, "; "))
}

func collectSchemaErrors(ve *jsonschema.ValidationError, msgs *[]string) {
	if len(ve.Causes) == 0 {
		location := ve.InstanceLocation
		if location == "" {
			location = "/"
		}
		*msgs = append(*msgs, location+": "+ve.Message)
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaErrors(cause, msgs)
	}
}
