package actions

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/granjadata/avicola_backend/utils"
)

// Action is one proposed mutation or query: a kind plus its raw arguments.
// Args stay raw JSON until the kind's handler validates them.
type Action struct {
	Kind string          `json:"kind"`
	Args json.RawMessage `json:"args"`
}

// Result is the uniform envelope every execution returns. Status carries the
// HTTP mapping for the transport layer and is never serialized.
type Result struct {
	OK     bool   `json:"ok"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
	Status int    `json:"-"`
}

func okResult(data any) *Result {
	return &Result{OK: true, Data: data, Status: http.StatusOK}
}

func failResult(status int, err error) *Result {
	return &Result{OK: false, Error: err.Error(), Status: status}
}

// ErrActionNotFound covers both a bogus token and a token that was already
// consumed; the client cannot tell the difference and should not retry.
var ErrActionNotFound = errors.New("action not found or already executed")

// SchemaViolationError reports arguments that failed shape or constraint
// validation. Such an action is never registered or executed.
type SchemaViolationError struct {
	Kind    string
	Field   string
	Message string
}

func (e *SchemaViolationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// UnknownKindError reports an action kind absent from the registry.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown action kind %q", e.Kind)
}

// tagType re-shapes a result row as a map carrying the `type` discriminator,
// so generic callers can dispatch on result shape alone.
func tagType(v any, typ string) (map[string]any, error) {
	m, err := utils.StructToMap(v)
	if err != nil {
		return nil, err
	}
	m["type"] = typ
	return m, nil
}

func tagTypeSlice[T any](rows []T, typ string) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(rows))
	for i := range rows {
		m, err := tagType(rows[i], typ)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
