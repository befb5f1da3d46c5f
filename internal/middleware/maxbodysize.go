package middleware

import "net/http"

// NewMaxBodySizeHandler returns a middleware that limits incoming request body
// sizes to limit bytes. A request that declares a larger Content-Length is
// rejected with 413 before reaching the next handler; a streamed body is cut
// off by http.MaxBytesReader, and the handler's read fails with
// *http.MaxBytesError.
func NewMaxBodySizeHandler(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				reject(w, http.StatusRequestEntityTooLarge, "El cuerpo de la solicitud es demasiado grande")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
