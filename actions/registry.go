package actions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/granjadata/avicola_backend/config"
	"github.com/granjadata/avicola_backend/models"
	"github.com/granjadata/avicola_backend/utils"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report violations under the wire field name, not the Go one.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// Handler binds one action kind to its argument schema and its effect.
// Decode owns validation; Execute only ever sees arguments Decode accepted.
type Handler interface {
	Kind() string
	Description() string
	Parameters() map[string]any
	Decode(raw json.RawMessage) (any, error)
	Execute(ctx context.Context, args any) (any, error)
}

// crossChecker lets an argument struct enforce either/or constraints that
// single-field tags cannot express.
type crossChecker interface {
	crossCheck() error
}

// handler is the shared Handler implementation: T is the argument struct,
// run is the executor body.
type handler[T any] struct {
	kind        string
	description string
	parameters  map[string]any
	run         func(ctx context.Context, args *T) (any, error)
}

func (h *handler[T]) Kind() string               { return h.kind }
func (h *handler[T]) Description() string        { return h.description }
func (h *handler[T]) Parameters() map[string]any { return h.parameters }

func (h *handler[T]) Decode(raw json.RawMessage) (any, error) {
	args := new(T)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, args); err != nil {
			return nil, &SchemaViolationError{Kind: h.kind, Message: "arguments are not a valid JSON object"}
		}
	}
	if err := validate.Struct(args); err != nil {
		return nil, schemaViolation(h.kind, err)
	}
	if checker, ok := any(args).(crossChecker); ok {
		if err := checker.crossCheck(); err != nil {
			return nil, &SchemaViolationError{Kind: h.kind, Message: err.Error()}
		}
	}
	return args, nil
}

func (h *handler[T]) Execute(ctx context.Context, args any) (any, error) {
	typed, ok := args.(*T)
	if !ok {
		return nil, errors.New("argument type mismatch")
	}
	return h.run(ctx, typed)
}

// schemaViolation maps the first validator failure to a readable message.
func schemaViolation(kind string, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &SchemaViolationError{Kind: kind, Message: err.Error()}
	}
	config.GetLogger().WithField("violations", utils.ProcessValidationErrors(err)).
		Debug("schema validation failed for " + kind)
	fe := fieldErrs[0]
	message := ""
	switch fe.Tag() {
	case "required":
		message = "field is required"
	case "datetime":
		message = "must be a date in YYYY-MM-DD format"
	case "oneof":
		message = "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "uuid", "uuid4":
		message = "must be a valid uuid"
	case "min":
		if fe.Kind() == reflect.String {
			message = "must not be empty"
		} else {
			message = "must be at least " + fe.Param()
		}
	case "gt":
		message = "must be greater than " + fe.Param()
	case "gte":
		message = "must be at least " + fe.Param()
	case "lte":
		message = "must be at most " + fe.Param()
	default:
		message = "failed constraint " + fe.Tag()
	}
	return &SchemaViolationError{Kind: kind, Field: fe.Field(), Message: message}
}

// ToolSpec is the shape the assistant layer needs to advertise a kind as a
// callable function.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// PreviewPayload is the canonical rendering of a validated action, shown to
// the user before they confirm.
type PreviewPayload struct {
	Kind   string `json:"kind"`
	Values any    `json:"values"`
}

// PreviewResult couples the pending token with the action it refers to.
type PreviewResult struct {
	ActionID string         `json:"actionId"`
	Action   Action         `json:"action"`
	Preview  PreviewPayload `json:"preview"`
}

// Registry maps action kinds to handlers and drives the preview/confirm
// lifecycle on top of a PendingStore.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	order    []string
	pending  PendingStore
}

func NewRegistry(pending PendingStore) *Registry {
	return &Registry{
		handlers: map[string]Handler{},
		pending:  pending,
	}
}

func (r *Registry) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[h.Kind()]; !exists {
		r.order = append(r.order, h.Kind())
	}
	r.handlers[h.Kind()] = h
}

func (r *Registry) Get(kind string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[kind]
	return h, ok
}

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) ToolSpecs() []ToolSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ToolSpec, 0, len(r.order))
	for _, kind := range r.order {
		h := r.handlers[kind]
		out = append(out, ToolSpec{
			Name:        h.Kind(),
			Description: h.Description(),
			Parameters:  h.Parameters(),
		})
	}
	return out
}

// Preview validates the raw arguments, registers the action as pending and
// returns the token plus the canonical argument values. Nothing is resolved
// or written here; name references stay names until execution.
func (r *Registry) Preview(ctx context.Context, kind string, raw json.RawMessage) (*PreviewResult, error) {
	h, ok := r.Get(kind)
	if !ok {
		return nil, &UnknownKindError{Kind: kind}
	}
	decoded, err := h.Decode(raw)
	if err != nil {
		return nil, err
	}
	canonical, err := json.Marshal(decoded)
	if err != nil {
		return nil, err
	}
	action := Action{Kind: kind, Args: canonical}
	token, err := r.pending.Put(ctx, action)
	if err != nil {
		return nil, err
	}
	return &PreviewResult{
		ActionID: token,
		Action:   action,
		Preview:  PreviewPayload{Kind: kind, Values: json.RawMessage(canonical)},
	}, nil
}

// Execute runs an action end to end and always returns a Result envelope:
// schema and kind failures map to 400, everything the store throws to 500.
func (r *Registry) Execute(ctx context.Context, action Action) *Result {
	h, ok := r.Get(action.Kind)
	if !ok {
		return failResult(http.StatusBadRequest, &UnknownKindError{Kind: action.Kind})
	}
	decoded, err := h.Decode(action.Args)
	if err != nil {
		return failResult(http.StatusBadRequest, err)
	}
	data, err := h.Execute(ctx, decoded)
	if err != nil {
		logExecuteFailure(ctx, action.Kind, err)
		status := http.StatusInternalServerError
		var refErr *models.ReferenceNotFoundError
		if errors.As(err, &refErr) {
			status = http.StatusBadRequest
		}
		return failResult(status, err)
	}
	return okResult(data)
}

// ExecuteToken consumes a pending token and executes its action. A missing
// or already-consumed token yields ErrActionNotFound.
func (r *Registry) ExecuteToken(ctx context.Context, token string) (*Result, error) {
	action, found, err := r.pending.Take(ctx, token)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrActionNotFound
	}
	return r.Execute(ctx, action), nil
}

func logExecuteFailure(ctx context.Context, kind string, err error) {
	cid, _ := utils.GetCorrelationIdFromContext(ctx)
	config.LogError(config.GetLogger(), "actions", "Execute", kind, map[string]string{"correlation_id": cid}, err)
}
