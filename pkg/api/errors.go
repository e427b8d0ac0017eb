package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// StatusError is returned when the server answers with an unexpected
// status code.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: unexpected status %d %s: %s", e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode), e.Message)
	}
	return fmt.Sprintf("%s: unexpected status %d %s", e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode))
}

func newStatusError(endpoint string, statusCode int, body []byte) *StatusError {
	var errResp struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &errResp)
	return &StatusError{Endpoint: endpoint, StatusCode: statusCode, Message: errResp.Error}
}

type statusCheck func(code int) bool

func acceptSuccess(code int) bool {
	return code >= 200 && code < 300
}

func acceptOK(code int) bool {
	return code == http.StatusOK
}
