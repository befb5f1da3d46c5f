package middleware_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/pilgrimages/backend/internal/middleware"
)

// bodyReadingHandler reads the whole body the way a JSON-decoding handler
// would and answers 413 when the read hits the size limit.
var bodyReadingHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if _, err := io.ReadAll(r.Body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
})

func postBody(size int, contentLength int64) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/pilgrimages", strings.NewReader(strings.Repeat("x", size)))
	req.ContentLength = contentLength
	return req
}

func TestMaxBodySizeHandler_SmallBody_PassesThrough(t *testing.T) {
	h := middleware.NewMaxBodySizeHandler(100)(bodyReadingHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, postBody(50, 50))

	require.Equal(t, http.StatusOK, rec.Code)
}

// A declared Content-Length over the limit is refused before the handler
// runs, with the standard error envelope.
func TestMaxBodySizeHandler_ContentLengthExceedsLimit_Returns413(t *testing.T) {
	h := middleware.NewMaxBodySizeHandler(100)(bodyReadingHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, postBody(200, 200))

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.Nil(t, body["data"])
	assert.NotEmpty(t, body["message"])
}

// Without Content-Length the limit is enforced while the handler reads.
func TestMaxBodySizeHandler_StreamingBodyExceedsLimit_Returns413(t *testing.T) {
	h := middleware.NewMaxBodySizeHandler(100)(bodyReadingHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, postBody(200, -1))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
