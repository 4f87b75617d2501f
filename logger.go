package wyvern

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger behind the same Debug/Info/Warn/Error/Fatal
// surface the framework's handlers and middlewares reach for, keeping the
// call sites stable while the backing implementation is a structured,
// leveled logger instead of a hand-rolled template renderer.
type Logger struct {
	appName string
	zl      zerolog.Logger
}

// NewLogger returns a Logger writing to out (os.Stdout if nil), tagged with
// appName on every line.
func NewLogger(appName string, out io.Writer) *Logger {
	if out == nil {
		out = os.Stdout
	}
	return &Logger{
		appName: appName,
		zl:      zerolog.New(out).With().Timestamp().Str("app_name", appName).Logger(),
	}
}

// Debug logs msg at debug level with key/value pairs from fields.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.event(l.zl.Debug(), fields).Msg(msg)
}

// Info logs msg at info level with key/value pairs from fields.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.event(l.zl.Info(), fields).Msg(msg)
}

// Warn logs msg at warn level with key/value pairs from fields.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.event(l.zl.Warn(), fields).Msg(msg)
}

// Error logs msg at error level with err and key/value pairs from fields.
func (l *Logger) Error(msg string, err error, fields map[string]interface{}) {
	ev := l.zl.Error()
	if err != nil {
		ev = ev.Err(err)
	}
	l.event(ev, fields).Msg(msg)
}

// Fatal logs msg at fatal level with err and key/value pairs from fields,
// then terminates the process, matching the teacher's Logger.Fatal
// behavior.
func (l *Logger) Fatal(msg string, err error, fields map[string]interface{}) {
	ev := l.zl.Fatal()
	if err != nil {
		ev = ev.Err(err)
	}
	l.event(ev, fields).Msg(msg)
}

func (l *Logger) event(ev *zerolog.Event, fields map[string]interface{}) *zerolog.Event {
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	return ev
}

// RequestLogger returns a child Logger with the request's correlation ID
// attached to every subsequent line, used by the dispatcher to thread
// Request.ID through per-request log output.
func (l *Logger) RequestLogger(requestID string) *Logger {
	return &Logger{
		appName: l.appName,
		zl:      l.zl.With().Str("request_id", requestID).Logger(),
	}
}
