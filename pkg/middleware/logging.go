package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/vfg2006/inventory-sync-api/pkg/apiErrors"
	"github.com/vfg2006/inventory-sync-api/pkg/log"
)

const slowRequestThreshold = 500 * time.Millisecond

// healthcheck e coleta do Prometheus só aparecem em debug
var quietPaths = []string{"/healthcheck", "/metrics"}

type requestFieldsKey struct{}

// requestFields acumula os campos que os handlers querem no log de conclusão
type requestFields struct {
	mu     sync.Mutex
	fields log.Fields
}

// AddRequestFields anexa campos ao log de conclusão da requisição, como o job disparado.
// Fora do LoggingMiddleware não faz nada.
func AddRequestFields(ctx context.Context, fields log.Fields) {
	holder, ok := ctx.Value(requestFieldsKey{}).(*requestFields)
	if !ok {
		return
	}

	holder.mu.Lock()
	defer holder.mu.Unlock()
	for k, v := range fields {
		holder.fields[k] = v
	}
}

func (h *requestFields) snapshot() log.Fields {
	h.mu.Lock()
	defer h.mu.Unlock()

	fields := make(log.Fields, len(h.fields))
	for k, v := range h.fields {
		fields[k] = v
	}
	return fields
}

// LoggingMiddleware registra cada requisição com id de correlação e os campos anexados pelo handler
func LoggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, correlationID := log.WithCorrelationID(r.Context())
			holder := &requestFields{fields: log.Fields{}}
			ctx = context.WithValue(ctx, requestFieldsKey{}, holder)
			r = r.WithContext(ctx)

			lrw := newLoggingResponseWriter(w)
			startTime := time.Now()

			next.ServeHTTP(lrw, r)

			elapsed := time.Since(startTime)

			fields := holder.snapshot()
			fields["correlation_id"] = correlationID
			fields["method"] = r.Method
			fields["path"] = r.URL.Path
			fields["status_code"] = lrw.statusCode
			fields["duration_ms"] = elapsed.Milliseconds()
			if r.URL.RawQuery != "" {
				fields["query"] = r.URL.RawQuery
			}
			if !log.IsDevelopment() {
				fields["remote_addr"] = r.RemoteAddr
				fields["user_agent"] = r.UserAgent()
				fields["response_bytes"] = lrw.written
			}

			logger := log.L.WithFields(fields)
			msg := fmt.Sprintf("%s %s concluída em %s", r.Method, r.URL.Path, formatDuration(elapsed))

			switch {
			case lrw.statusCode >= 500:
				logger.Error(msg)
			case lrw.statusCode >= 400:
				logger.Warn(msg)
			case isQuietPath(r.URL.Path):
				logger.Debug(msg)
			default:
				logger.Info(msg)
			}

			if elapsed > slowRequestThreshold && !isQuietPath(r.URL.Path) {
				logger.Warnf("Requisição lenta: %s", elapsed)
			}
		})
	}
}

func isQuietPath(path string) bool {
	for _, quiet := range quietPaths {
		if strings.HasPrefix(path, quiet) {
			return true
		}
	}
	return false
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%d µs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%d ms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2f s", d.Seconds())
	}
}

// loggingResponseWriter captura status e tamanho da resposta
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int
}

func newLoggingResponseWriter(w http.ResponseWriter) *loggingResponseWriter {
	return &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	n, err := lrw.ResponseWriter.Write(b)
	lrw.written += n
	return n, err
}

// LogPanicMiddleware converte panics de handlers em 500 no formato de erro da API
func LogPanicMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					stack := make([]byte, 4096)
					stack = stack[:runtime.Stack(stack, false)]

					logger := log.ForContext(r.Context()).WithFields(log.Fields{
						"error":  err,
						"method": r.Method,
						"path":   r.URL.Path,
					})
					logger.Error("Erro não tratado na aplicação")
					logger.WithField("stack_trace", string(stack)).Debug("Stack trace do erro")

					apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno no servidor", nil)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
