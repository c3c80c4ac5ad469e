package share

import (
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/log"
)

// InitSentry enables error reporting. An empty DSN leaves it disabled.
func InitSentry(dsn string) error {
	if dsn == "" {
		return nil
	}

	return sentry.Init(
		sentry.ClientOptions{
			Dsn:           dsn,
			HTTPTransport: new(http.Transport),
		},
	)
}

func FlushSentry() {
	sentry.Flush(2 * time.Second)
}

// CaptureError logs err with its stack and reports it.
func CaptureError(err error) {
	if err == nil || IsContextClosedError(err) {
		return
	}

	log.Error().Stack().Err(err).Send()
	sentry.CaptureException(err)
}
