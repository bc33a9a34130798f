package logger

import (
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the request id in and out of the HTTP adapter.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// Logger wraps logrus logger
type Logger struct {
	*logrus.Entry
}

// NewLogger creates a JSON logger tagged with the service name. Unknown
// levels fall back to info.
func NewLogger(serviceName, level string) *Logger {
	return newLogger(os.Stdout, serviceName, level)
}

func newLogger(out io.Writer, serviceName, level string) *Logger {
	log := logrus.New()

	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	log.SetOutput(out)

	switch level {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	return &Logger{Entry: log.WithField("service", serviceName)}
}

// WithRequestID adds request ID to logger
func (l *Logger) WithRequestID(requestID string) *logrus.Entry {
	return l.WithField(requestIDKey, requestID)
}

// RequestID returns the id assigned by Middleware, or "".
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Middleware assigns every request an id (reusing a client supplied
// X-Request-ID) and logs it once the handler chain has finished.
func Middleware(l *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		entry := l.WithRequestID(id).WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
		if len(c.Errors) > 0 {
			entry.WithField("error", c.Errors.String()).Error("request failed")
			return
		}
		entry.Info("request")
	}
}
