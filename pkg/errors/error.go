package errors

import (
	"context"
	"fmt"

	"github.com/linearapp/linear-mcp-server/pkg/utils"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// TransportError reports a non-success HTTP status from the Linear endpoint.
// It is returned by the query execution primitive before any GraphQL-level
// handling takes place.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("linear api: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("linear api: unexpected status %d: %s", e.StatusCode, e.Body)
}

// QueryError reports a GraphQL response that carried no data payload. The
// message is the first remote error message, passed through verbatim.
type QueryError struct {
	Message string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %s", e.Message)
}

// NotFoundError reports an absent entity for a by-identifier lookup.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// MutationError reports a mutation the remote service acknowledged but
// declined (success: false). Every mutation surfaces failure through this one
// channel instead of a nil result.
type MutationError struct {
	Operation string
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("linear reported %s as unsuccessful", e.Operation)
}

type linearErrorKey struct{}

type linearCtxErrors struct {
	errs []*OperationError
}

// OperationError retains a failed operation alongside its underlying error so
// middleware can inspect everything that went wrong during a request.
type OperationError struct {
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *OperationError) Error() string {
	return fmt.Errorf("%s: %w", e.Message, e.Err).Error()
}

// ContextWithLinearErrors updates or creates a context with a collector for
// Linear operation errors (to be read by middleware after the call).
func ContextWithLinearErrors(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if val, ok := ctx.Value(linearErrorKey{}).(*linearCtxErrors); ok {
		val.errs = []*OperationError{}
	} else {
		ctx = context.WithValue(ctx, linearErrorKey{}, &linearCtxErrors{})
	}
	return ctx
}

// GetLinearErrors retrieves the operation errors recorded during the request.
func GetLinearErrors(ctx context.Context) ([]*OperationError, error) {
	if val, ok := ctx.Value(linearErrorKey{}).(*linearCtxErrors); ok {
		return val.errs, nil
	}
	return nil, fmt.Errorf("context does not contain linear error collector")
}

func addLinearErrorToContext(ctx context.Context, err *OperationError) {
	if val, ok := ctx.Value(linearErrorKey{}).(*linearCtxErrors); ok {
		val.errs = append(val.errs, err)
	}
}

// NewLinearErrorResponse converts an operation failure into the uniform
// host-facing failure string and retains the error in the context for
// middleware. No typed error crosses the host boundary unconverted.
func NewLinearErrorResponse(ctx context.Context, message string, err error) *mcp.CallToolResult {
	opErr := &OperationError{Message: message, Err: err}
	if ctx != nil {
		addLinearErrorToContext(ctx, opErr)
	}
	return utils.NewToolResultError(fmt.Sprintf("Error: %s - %s", message, err.Error()))
}
