package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger routes GORM output into zap. SQL errors that the repositories
// translate into domain errors (missing rows, duplicate line items, deletes
// blocked by a foreign key) are logged at debug; anything else is an error.
type GormLogger struct {
	logger        *zap.Logger
	logLevel      gormlogger.LogLevel
	slowThreshold time.Duration
	expected      []error
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the duration above which a query is logged as slow.
// Zero disables slow query logging.
func WithSlowThreshold(threshold time.Duration) GormLoggerOption {
	return func(l *GormLogger) {
		l.slowThreshold = threshold
	}
}

// WithIgnoreRecordNotFoundError controls whether a missing row counts as an
// expected outcome
func WithIgnoreRecordNotFoundError(ignore bool) GormLoggerOption {
	return func(l *GormLogger) {
		if !ignore {
			l.expected = without(l.expected, gorm.ErrRecordNotFound)
		}
	}
}

// NewGormLogger creates a GORM logger writing under the "gorm" name
func NewGormLogger(zapLogger *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	gl := &GormLogger{
		logger:        zapLogger.Named("gorm"),
		logLevel:      level,
		slowThreshold: 200 * time.Millisecond,
		expected:      []error{gorm.ErrRecordNotFound, gorm.ErrDuplicatedKey, gorm.ErrForeignKeyViolated},
	}
	for _, opt := range opts {
		opt(gl)
	}
	return gl
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.logLevel = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.logLevel >= gormlogger.Info {
		l.forContext(ctx).Sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.logLevel >= gormlogger.Warn {
		l.forContext(ctx).Sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.logLevel >= gormlogger.Error {
		l.forContext(ctx).Sugar().Errorf(msg, data...)
	}
}

// Trace logs one executed statement
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.logLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	log := l.forContext(ctx)
	fields := func() []zap.Field {
		sql, rows := fc()
		return []zap.Field{
			zap.Duration("elapsed", elapsed),
			zap.Int64("rows", rows),
			zap.String("sql", sql),
		}
	}

	switch {
	case err != nil && l.isExpected(err):
		if l.logLevel >= gormlogger.Info {
			log.Debug("SQL constraint outcome", append(fields(), zap.Error(err))...)
		}
	case err != nil && l.logLevel >= gormlogger.Error:
		log.Error("SQL Error", append(fields(), zap.Error(err))...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.logLevel >= gormlogger.Warn:
		log.Warn("SLOW SQL", append(fields(), zap.Duration("threshold", l.slowThreshold))...)
	case l.logLevel >= gormlogger.Info:
		log.Debug("SQL Query", fields()...)
	}
}

// forContext tags the logger with the request id and the active span
func (l *GormLogger) forContext(ctx context.Context) *zap.Logger {
	log := l.logger
	if requestID := GetRequestID(ctx); requestID != "" {
		log = log.With(zap.String("request_id", requestID))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		log = log.With(zap.String("trace_id", sc.TraceID().String()))
	}
	return log
}

func (l *GormLogger) isExpected(err error) bool {
	for _, target := range l.expected {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func without(errs []error, target error) []error {
	out := errs[:0:0]
	for _, e := range errs {
		if e != target {
			out = append(out, e)
		}
	}
	return out
}

var _ gormlogger.Interface = (*GormLogger)(nil)

// MapGormLogLevel maps the application log level to a GORM log level.
// Statements are only traced at debug.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
