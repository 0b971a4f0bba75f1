package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/truckparts/backend/internal/usecase"
)

// IdempotencyKeyHeader carries the client-chosen key for replayable
// mutations.
const IdempotencyKeyHeader = "Idempotency-Key"

const (
	idempotencyTTL = 24 * time.Hour

	// inFlightMarker is what the store returns while the first request
	// with a key is still being processed.
	inFlightMarker = "processing"
)

// IdempotencyMiddleware replays stored responses for repeated mutating
// requests carrying the same Idempotency-Key. A duplicate checkout retried
// by a flaky client returns the original order instead of decrementing
// stock twice.
type IdempotencyMiddleware struct {
	store usecase.IdempotencyStore
}

func NewIdempotencyMiddleware(store usecase.IdempotencyStore) *IdempotencyMiddleware {
	return &IdempotencyMiddleware{store: store}
}

func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" || !isMutating(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		seen, cached, err := m.store.CheckAndSet(r.Context(), key, nil, idempotencyTTL)
		if err != nil {
			http.Error(w, "idempotency check failed", http.StatusInternalServerError)
			return
		}

		if seen && len(cached) > 0 && string(cached) != inFlightMarker {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Idempotency-Replay", "true")
			_, _ = w.Write(cached)
			return
		}

		rec := &bodyRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		// Failures stay retryable, so only 2xx responses are stored.
		if rec.status >= 200 && rec.status < 300 {
			_ = m.store.Update(r.Context(), key, rec.body.Bytes(), idempotencyTTL)
		}
	})
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

type bodyRecorder struct {
	http.ResponseWriter

	status int
	body   bytes.Buffer
}

func (r *bodyRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *bodyRecorder) Write(p []byte) (int, error) {
	r.body.Write(p)
	return r.ResponseWriter.Write(p)
}
