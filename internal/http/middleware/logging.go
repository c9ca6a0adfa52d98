package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/straye-as/client-admin/internal/auth"
	"github.com/straye-as/client-admin/internal/logger"
	"github.com/straye-as/client-admin/internal/transport"
	"go.uber.org/zap"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	written     int64
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Logging logs each console request. The request id is taken from the
// X-Request-ID header or generated, echoed on the response and carried in
// the context so backend calls made for this request share it.
func Logging(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := r.Header.Get(transport.RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			w.Header().Set(transport.RequestIDHeader, requestID)

			// handlers further down add the operator to this holder
			holder := &userHolder{}
			ctx := transport.WithRequestID(r.Context(), requestID)
			ctx = withUserHolder(ctx, holder)

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r.WithContext(ctx))

			duration := time.Since(start)
			reqLog := logger.WithRequest(log, r.Method, r.URL.Path, requestID)
			if holder.user != nil {
				reqLog = logger.WithUser(reqLog, holder.user.Email, string(holder.user.Role))
			}
			reqLog.Info(
				fmt.Sprintf("%s %-30s -> %3d (%s)", r.Method, r.URL.Path, rw.statusCode, duration.Truncate(time.Microsecond)),
				zap.Int("status_code", rw.statusCode),
				zap.Int64("response_size", rw.written),
				zap.Duration("duration", duration),
			)
		})
	}
}

// userHolder lets the guard report the operator back to the logging
// middleware, which runs outside it
type userHolder struct {
	user *auth.UserContext
}
