// Package testutil builds gin contexts and decodes envelopes for handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/ezpsa-inc/ezpsa/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewTestContext returns a context for method and path. A non-nil body is
// sent as JSON.
func NewTestContext(method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	if body == nil {
		return newContext(method, path, "", nil)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	return newContext(method, path, "application/json", bytes.NewReader(payload))
}

// NewRawTestContext returns a context whose body is sent verbatim, for
// malformed-input cases.
func NewRawTestContext(method, path, contentType, body string) (*gin.Context, *httptest.ResponseRecorder) {
	return newContext(method, path, contentType, bytes.NewBufferString(body))
}

func newContext(method, path, contentType string, body io.Reader) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, body)
	if contentType != "" {
		c.Request.Header.Set("Content-Type", contentType)
	}
	return c, w
}

// SetQueryParams replaces the request's query string.
func SetQueryParams(c *gin.Context, params map[string]string) {
	q := make(url.Values, len(params))
	for k, v := range params {
		q.Set(k, v)
	}
	c.Request.URL.RawQuery = q.Encode()
}

// ParseResponse decodes the recorded JSON body into target.
func ParseResponse(w *httptest.ResponseRecorder, target any) error {
	return json.Unmarshal(w.Body.Bytes(), target)
}

// APIResponse is utils.APIResponse with Data left raw for JSONEq assertions.
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func NewMockLogger() logger.Interface {
	return logger.NewNop()
}
