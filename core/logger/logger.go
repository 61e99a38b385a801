package logger

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu   sync.RWMutex
	base = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

// Init configures the process logger. Development uses a console writer,
// everything else logs JSON.
func Init(env string, level string) {
	InitWithWriter(env, level, nil)
}

// InitWithWriter is Init with an explicit output, used by tests.
func InitWithWriter(env string, level string, out io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	var w io.Writer = out
	if env == "development" {
		w = zerolog.ConsoleWriter{Out: out}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
		if env == "development" {
			lvl = zerolog.DebugLevel
		}
	}

	mu.Lock()
	base = zerolog.New(w).With().Timestamp().Logger().Level(lvl)
	mu.Unlock()
}

// With returns a child logger tagged with a component name.
func With(component string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.With().Str("component", component).Logger()
}

func Debug(msg string, kv ...any) {
	write(zerolog.DebugLevel, msg, kv)
}

func Info(msg string, kv ...any) {
	write(zerolog.InfoLevel, msg, kv)
}

func Warn(msg string, kv ...any) {
	write(zerolog.WarnLevel, msg, kv)
}

func Error(msg string, kv ...any) {
	write(zerolog.ErrorLevel, msg, kv)
}

func write(level zerolog.Level, msg string, kv []any) {
	mu.RLock()
	l := base
	mu.RUnlock()

	ev := l.WithLevel(level)
	if ev == nil {
		return
	}

	var extra []any
	for i := 0; i < len(kv); i++ {
		key, ok := kv[i].(string)
		if !ok || i+1 >= len(kv) {
			// Callers sometimes pass a bare error or value without a key.
			if err, isErr := kv[i].(error); isErr {
				ev = ev.Err(err)
				continue
			}
			extra = append(extra, kv[i])
			continue
		}
		val := kv[i+1]
		i++
		switch v := val.(type) {
		case error:
			ev = ev.AnErr(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	if len(extra) > 0 {
		ev = ev.Interface("args", extra)
	}
	ev.Msg(msg)
}
