package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yuqie6/trainerhub/internal/auth"
	apperrors "github.com/yuqie6/trainerhub/internal/errors"
)

type ownerHandler func(w http.ResponseWriter, r *http.Request, owner int64)

// auth 校验 Bearer 令牌；EventSource 无法设置请求头，允许 ?token= 兜底
func (a *apiServer) auth(fn ownerHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var token string
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		} else {
			token = r.URL.Query().Get("token")
		}

		owner, err := a.core.Issuer.Verify(token)
		if err != nil {
			slog.Debug("令牌校验失败", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusUnauthorized, apperrors.CodeUnauthenticated, apperrors.GetMessage(err))
			return
		}

		r = r.WithContext(auth.WithOwner(r.Context(), owner))
		fn(w, r, owner)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

func withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Debug("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
