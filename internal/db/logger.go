package db

import (
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

type gormWriter struct {
	log zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Debug().Msgf(format, args...)
}

// newGormLogger routes gorm's SQL log through zerolog. SQL statements are
// only visible when the service runs at debug level.
func newGormLogger(log zerolog.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if log.GetLevel() <= zerolog.DebugLevel {
		level = gormlogger.Info
	}

	return gormlogger.New(gormWriter{log: log.With().Str("component", "gorm").Logger()}, gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
