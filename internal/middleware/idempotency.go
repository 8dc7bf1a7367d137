// Package middleware provides the HTTP middleware of the packing list service.
package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-list-service/internal/service/cache"
)

const (
	// IdempotencyKeyHeader is the request header carrying the client key.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks responses served from the replay store.
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyCachePrefix namespaces replay entries in the shared cache.
	IdempotencyCachePrefix = "idempotency:"
)

type replay struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// Idempotency replays the stored 2xx response of a POST, PUT or PATCH that
// repeats an Idempotency-Key with the same method, path and body. A nil
// store disables it.
func Idempotency(store cache.Cache) gin.HandlerFunc {
	if store == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || !replayable(c.Request.Method) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		storeKey := IdempotencyCachePrefix + fingerprint(key, c.Request)

		if b, ok := store.Get(ctx, storeKey); ok {
			var r replay
			if err := json.Unmarshal(b, &r); err == nil {
				c.Header(IdempotencyReplayedHeader, "true")
				c.Data(r.Status, r.ContentType, r.Body)
				c.Abort()
				return
			}
		}

		rec := &recorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		status := rec.Status()
		if status < 200 || status >= 300 {
			return
		}
		b, err := json.Marshal(replay{
			Status:      status,
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
		})
		if err == nil {
			store.Set(ctx, storeKey, b)
		}
	}
}

func replayable(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

// fingerprint hashes the key with method, path and body. The body is
// restored for the handler.
func fingerprint(key string, req *http.Request) string {
	h := sha256.New()
	h.Write([]byte(key))
	h.Write([]byte{0})
	h.Write([]byte(req.Method))
	h.Write([]byte{0})
	h.Write([]byte(req.URL.Path))
	h.Write([]byte{0})
	if req.Body != nil {
		body, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(body))
		h.Write(body)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// recorder keeps a copy of the body written through it.
type recorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (r *recorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *recorder) WriteString(s string) (int, error) {
	r.body.WriteString(s)
	return r.ResponseWriter.WriteString(s)
}
