package backend

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// RequestError is a non-2xx response from the backend. Message is the text
// the backend supplied and is meant to be shown to the operator as is.
type RequestError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return e.Message
}

// TransportError is a failure with no usable backend response: the request
// could not be sent, or the body could not be read or decoded.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend %s unreachable: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// newRequestError reads the message out of a failed response. The backend
// normally answers {"error": "..."} but some endpoints reply with plain text.
func newRequestError(endpoint string, resp *http.Response) *RequestError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	text := strings.TrimSpace(string(raw))

	message := ""
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		message = strings.TrimSpace(body.Error)
		if message == "" {
			message = strings.TrimSpace(body.Message)
		}
	}
	if message == "" && !strings.HasPrefix(text, "{") {
		message = text
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	if message == "" {
		message = fmt.Sprintf("status %d", resp.StatusCode)
	}

	return &RequestError{
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}
