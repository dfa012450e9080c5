package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
	"todoTracker/internal/logger"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const RequestIdKey contextKey = "request_id"

const RequestIdHeader = "X-Request-ID"

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := r.Header.Get(RequestIdHeader)
		if requestId == "" {
			requestId = uuid.New().String()
		}

		w.Header().Set(RequestIdHeader, requestId)

		ctx := context.WithValue(r.Context(), RequestIdKey, requestId)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIdKey).(string); ok {
		return id
	}
	return ""
}

type loggingWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (lw *loggingWriter) WriteHeader(code int) {
	if !lw.wroteHeader {
		lw.status = code
		lw.wroteHeader = true
		lw.ResponseWriter.WriteHeader(code)
	}
}

func (lw *loggingWriter) Write(b []byte) (int, error) {
	if !lw.wroteHeader {
		lw.WriteHeader(http.StatusOK)
	}

	n, err := lw.ResponseWriter.Write(b)
	lw.size += n
	return n, err
}

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ids := requestFields(r)

		logger.Info(
			"HTTP_IN: Начало запроса",
			append(ids,
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.String("client_ip", r.RemoteAddr),
			)...,
		)

		lw := &loggingWriter{
			ResponseWriter: w,
			status:         http.StatusOK,
		}
		next.ServeHTTP(lw, r)

		logger.Log(
			levelForStatus(lw.status),
			"HTTP_OUT: Завершение запроса",
			append(ids,
				zap.Int("status", lw.status),
				zap.Int("bytes_written", lw.size),
				zap.Duration("ms", time.Since(start)),
			)...,
		)
	})
}

// requestFields связывает запись лога с request id и активным спаном
func requestFields(r *http.Request) []zap.Field {
	fields := []zap.Field{zap.String("request_id", GetRequestID(r.Context()))}
	if sc := trace.SpanFromContext(r.Context()).SpanContext(); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	return fields[:len(fields):len(fields)]
}

func levelForStatus(status int) zapcore.Level {
	switch {
	case status >= 500:
		return zap.ErrorLevel
	case status >= 400:
		return zap.WarnLevel
	default:
		return zap.InfoLevel
	}
}

type clientInfo struct {
	count   int
	resetAt time.Time
}

// rateLimiter считает запросы по IP в окне фиксированной длины.
// Истёкшие записи удаляются не чаще раза за окно.
type rateLimiter struct {
	rpm       int
	window    time.Duration
	now       func() time.Time
	mtx       sync.Mutex
	clients   map[string]*clientInfo
	nextSweep time.Time
}

func newRateLimiter(rpm int, window time.Duration, now func() time.Time) *rateLimiter {
	return &rateLimiter{
		rpm:     rpm,
		window:  window,
		now:     now,
		clients: make(map[string]*clientInfo),
	}
}

// allow учитывает запрос и возвращает, пропускать ли его
func (l *rateLimiter) allow(ip string) (bool, int, time.Time) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	now := l.now()
	l.sweep(now)

	info, exists := l.clients[ip]
	switch {
	case !exists:
		info = &clientInfo{count: 1, resetAt: now.Add(l.window)}
		l.clients[ip] = info
	case now.After(info.resetAt):
		info.count = 1
		info.resetAt = now.Add(l.window)
	case info.count >= l.rpm:
		return false, 0, info.resetAt
	default:
		info.count++
	}

	return true, max(l.rpm-info.count, 0), info.resetAt
}

func (l *rateLimiter) sweep(now time.Time) {
	if now.Before(l.nextSweep) {
		return
	}
	for ip, info := range l.clients {
		if now.After(info.resetAt) {
			delete(l.clients, ip)
		}
	}
	l.nextSweep = now.Add(l.window)
}

func (l *rateLimiter) size() int {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return len(l.clients)
}

func (l *rateLimiter) handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getIp(r)
		allowed, remaining, resetAt := l.allow(ip)

		if !allowed {
			retryAfter := int(resetAt.Sub(l.now()).Seconds()) + 1

			logger.Warn("HTTP: Превышен лимит запросов",
				zap.String("client_ip", ip),
				zap.String("request_id", GetRequestID(r.Context())))

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.WriteHeader(http.StatusTooManyRequests)

			json.NewEncoder(w).Encode(map[string]any{
				"error":       "rate_limit_exceeded",
				"message":     "Слишком много запросов. Попробуйте позже.",
				"retry_after": retryAfter,
				"request_id":  GetRequestID(r.Context()),
			})
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.rpm))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		next.ServeHTTP(w, r)
	})
}

// RateLimit ограничивает число запросов с одного IP за минуту. rpm <= 0 отключает лимит.
func RateLimit(rpm int) func(http.Handler) http.Handler {
	if rpm <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return newRateLimiter(rpm, time.Minute, time.Now).handler
}

func getIp(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
