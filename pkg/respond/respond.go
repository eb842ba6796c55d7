package respond

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Envelope is the uniform response shape of the API.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody carries a machine-readable code alongside the human message.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error codes of the API error taxonomy.
const (
	CodeValidation        = "validation"
	CodeNotFound          = "not_found"
	CodeInvalidTransition = "invalid_transition"
	CodeNotCompleted      = "not_completed"
	CodeInvalidAmount     = "invalid_amount"
	CodeConflict          = "conflict"
	CodeInternal          = "internal"
)

// APIError is an error that knows its HTTP status and envelope code.
// Handlers return it; the error handler renders it.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string { return e.Message }

// NewError builds an APIError.
func NewError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

// JSON writes a successful envelope with data.
func JSON(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

// Message writes a successful envelope with data and a message.
func Message(c echo.Context, status int, data interface{}, message string) error {
	return c.JSON(status, Envelope{Success: true, Data: data, Message: message})
}

// HTTPErrorHandler renders every error as the API envelope. Echo HTTP errors
// keep their status; APIErrors keep their code; anything else is a 500 and is
// logged with its request id.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := ErrorBody{Message: "internal server error", Code: CodeInternal}

		switch e := err.(type) {
		case *APIError:
			status = e.Status
			body = ErrorBody{Message: e.Message, Code: e.Code}
		case *echo.HTTPError:
			status = e.Code
			if msg, ok := e.Message.(string); ok {
				body.Message = msg
			}
			body.Code = codeForStatus(e.Code)
		default:
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(err).
				Str("request_id", rid).
				Str("path", c.Request().URL.Path).
				Msg("unhandled error")
		}

		_ = c.JSON(status, Envelope{Success: false, Error: &body})
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeValidation
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	default:
		return CodeInternal
	}
}
