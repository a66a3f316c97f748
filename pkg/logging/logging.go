package logging

import (
	"io"

	"github.com/go-kratos/kratos/v2/log"
)

// New returns a key/value logger writing to w that drops records below
// level and tags every line with the service name.
func New(w io.Writer, level log.Level, service string) log.Logger {
	logger := log.With(log.NewStdLogger(w),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service", service,
	)
	return log.NewFilter(logger, log.FilterLevel(level))
}
