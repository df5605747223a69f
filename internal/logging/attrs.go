package logging

import (
	"log/slog"
	"time"
)

// Field names shared between emitters and the console handler.
const (
	FieldComponent = "component"
	FieldSlot      = "slot"
	FieldSlice     = "slice"
	FieldRule      = "rule"
)

type Attr = slog.Attr

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Float64(key string, value float64) Attr { return slog.Float64(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func Slot(value string) Attr { return slog.String(FieldSlot, value) }

func Slice(value string) Attr { return slog.String(FieldSlice, value) }

func Rule(value string) Attr { return slog.String(FieldRule, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Args converts attrs to the variadic any form slog methods accept.
func Args(attrs ...Attr) []any {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}
