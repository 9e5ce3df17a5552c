package gormlog

import (
	"log"
	"os"
	"time"

	"gorm.io/gorm/logger"
)

const slowThreshold = 200 * time.Millisecond

// New returns the SQL logger shared by every gorm connection. Missing rows
// are an expected lookup outcome here, so they are never logged as errors.
func New(w logger.Writer, level logger.LogLevel) logger.Interface {
	if w == nil {
		w = log.New(os.Stdout, "\r\n", log.LstdFlags)
	}
	return logger.New(w, logger.Config{
		SlowThreshold:             slowThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
