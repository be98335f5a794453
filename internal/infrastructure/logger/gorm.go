package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// slowQueryThreshold is the elapsed time past which a query logs at warn
const slowQueryThreshold = 200 * time.Millisecond

// GormLogger adapts zap to GORM's logging interface. Successful queries
// log at debug, slow ones at warn, failures at error. Record-not-found is
// an expected outcome and is never logged as a failure.
type GormLogger struct {
	zl    *zap.Logger
	level gormlogger.LogLevel
}

// NewGormLogger creates a GORM logger backed by zap
func NewGormLogger(zl *zap.Logger, level gormlogger.LogLevel) *GormLogger {
	return &GormLogger{zl: zl.Named("gorm"), level: level}
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.zl.Info(fmt.Sprintf(msg, args...))
	}
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.zl.Warn(fmt.Sprintf(msg, args...))
	}
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.zl.Error(fmt.Sprintf(msg, args...))
	}
}

// Trace implements gormlogger.Interface
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gormlogger.ErrRecordNotFound):
		sql, rows := fc()
		l.zl.Error("query failed", l.queryFields(ctx, sql, rows, elapsed, zap.Error(err))...)

	case elapsed >= slowQueryThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.zl.Warn("slow query", l.queryFields(ctx, sql, rows, elapsed)...)

	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.zl.Debug("query", l.queryFields(ctx, sql, rows, elapsed)...)
	}
}

func (l *GormLogger) queryFields(ctx context.Context, sql string, rows int64, elapsed time.Duration, extra ...zap.Field) []zap.Field {
	fields := append([]zap.Field{
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}, extra...)
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	return fields
}
