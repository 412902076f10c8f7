package log

import (
	"fmt"
	"log/slog"
	"os"
)

// SetupLogger function setup logger.
// 出力はCloudLogging互換のJSON形式で、errorアトリビュートからは
// cockroachdb/errorsのスタックトレースと検証メッセージが展開される。
func SetupLogger(loglevel string) {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
		// Replace attributes to convert to CloudLogging format.
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{
					Key:   "severity",
					Value: attr.Value,
				}
			case slog.MessageKey:
				attr = slog.Attr{
					Key:   "message",
					Value: attr.Value,
				}
			case slog.SourceKey:
				attr = slog.Attr{
					Key:   "logging.googleapis.com/sourceLocation",
					Value: attr.Value,
				}
			}
			return attr
		},
	}
	handler := slog.NewJSONHandler(os.Stdout, &ops)
	errFmtHandler := WrapByErrFmtHandler(handler)
	slog.SetDefault(slog.New(errFmtHandler))
}

func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// RuleLogger はルールの文脈（種別・属性・所有者）を付与したロガーを返す
func RuleLogger(name, attribute, owner string) *slog.Logger {
	return slog.Default().With(
		slog.String(RuleNameKey, name),
		slog.String(AttributeKey, attribute),
		slog.String(OwnerKey, owner),
	)
}

// ScheduleLogger は学習率スケジュールの文脈を付与したロガーを返す
func ScheduleLogger(name string) *slog.Logger {
	return slog.Default().With(slog.String(ScheduleNameKey, name))
}
