package response

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oakworks/orderhub/pkg/errorbank"
)

// genericInternalMessage is the only internal-error text ever sent to a
// caller; the wrapped cause stays in the logs.
const genericInternalMessage = "Internal server error"

// Builder constructs the two response envelopes the API speaks:
// {"success":true,"message":...,"data":...} on success and
// {"error":...,"details":...} on failure.
type Builder struct {
	ctx     echo.Context
	status  int
	message string
	data    any
	err     error
}

// New instantiates a Builder for the provided request context.
func New(ctx echo.Context) *Builder {
	return &Builder{ctx: ctx, status: http.StatusOK}
}

// WithStatus overrides the response status code.
func (b *Builder) WithStatus(status int) *Builder {
	if status > 0 {
		b.status = status
	}
	return b
}

// WithMessage sets the success message.
func (b *Builder) WithMessage(message string) *Builder {
	b.message = message
	return b
}

// WithData attaches a success payload.
func (b *Builder) WithData(data any) *Builder {
	b.data = data
	return b
}

// WithError records an error to be rendered.
func (b *Builder) WithError(err error) *Builder {
	b.err = err
	return b
}

// Build finalises and emits the HTTP response.
func (b *Builder) Build() error {
	if b.err != nil {
		return b.buildError()
	}
	return b.buildSuccess()
}

func (b *Builder) buildSuccess() error {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	payload := struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    any    `json:"data,omitempty"`
	}{
		Success: true,
		Message: b.message,
		Data:    b.data,
	}
	return b.ctx.JSON(b.status, payload)
}

func (b *Builder) buildError() error {
	appErr := errorbank.From(b.err)
	status := b.status
	if status < http.StatusBadRequest {
		status = appErr.StatusCode()
	}

	payload := struct {
		Error   string         `json:"error"`
		Details map[string]any `json:"details,omitempty"`
	}{
		Error:   appErr.Message(),
		Details: appErr.Details(),
	}
	if appErr.Kind() == errorbank.KindInternal {
		payload.Error = genericInternalMessage
		payload.Details = nil
	}

	return b.ctx.JSON(status, payload)
}
