package cache

import (
	"bytes"
	"net/http"
	"strconv"

	"notekit/internal/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const contentTypeJSON = "application/json; charset=utf-8"

// page is a captured response, replayed verbatim for deduplicated misses.
type page struct {
	status int
	body   []byte
}

// bodyCapture tees the handler's response body into a buffer.
type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCapture) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Middleware serves GET responses from the cache. On a hit the downstream
// handler is skipped; on a miss the handler runs under singleflight (one
// execution per key for concurrent identical requests) and its 2xx body is
// stored with the configured TTL.
func (c *ResponseCache) Middleware(resource string) gin.HandlerFunc {
	return func(g *gin.Context) {
		if g.Request.Method != http.MethodGet {
			g.Next()
			return
		}
		key := Key(resource, identityFrom(g), g.Request.URL.Path, g.Request.URL.Query())

		body, err := c.Get(g.Request.Context(), key)
		if err != nil {
			c.log.Warn("cache get failed, serving uncached", zap.String("key", key), zap.Error(err))
			g.Next()
			return
		}
		if body != nil {
			g.Header("X-Cache", "HIT")
			g.Data(http.StatusOK, contentTypeJSON, body)
			g.Abort()
			return
		}

		ran := false
		v, _, _ := c.sf.Do(key, func() (any, error) {
			ran = true
			w := &bodyCapture{ResponseWriter: g.Writer}
			g.Writer = w
			g.Header("X-Cache", "MISS")
			g.Next()
			res := page{status: w.Status(), body: w.buf.Bytes()}
			if res.status >= 200 && res.status < 300 {
				if err := c.Set(g.Request.Context(), key, res.body); err != nil {
					c.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
				}
			}
			return res, nil
		})
		if ran {
			return
		}
		// This request waited on another one computing the same key. Only a
		// 2xx result is shared; errors are per-request, so recompute those.
		res := v.(page)
		if res.status < 200 || res.status >= 300 {
			g.Next()
			return
		}
		g.Header("X-Cache", "HIT")
		g.Data(res.status, contentTypeJSON, res.body)
		g.Abort()
	}
}

func identityFrom(g *gin.Context) string {
	if id := auth.UserIDFromContext(g); id != 0 {
		return strconv.FormatInt(id, 10)
	}
	return ""
}
