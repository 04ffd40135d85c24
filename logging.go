package r6y

import (
	"context"
	"log/slog"
)

// LogHooks returns hooks that write lifecycle events to logger. Raises and
// recoveries log at debug level; unhandled conditions and failed recovery
// lookups at warn.
func LogHooks(logger *slog.Logger) Hooks {
	ctx := context.Background()

	return Hooks{
		OnRaise: func(c *Condition) {
			logger.LogAttrs(ctx, slog.LevelDebug, "condition raised",
				slog.String("error", c.Error()),
				slog.Any("recoveries", recoveryNames(c)),
			)
		},
		OnUnhandled: func(c *Condition) {
			logger.LogAttrs(ctx, slog.LevelWarn, "condition unhandled",
				slog.String("error", c.Error()),
			)
		},
		OnRecover: func(r *Recovery, args []any) {
			logger.LogAttrs(ctx, slog.LevelDebug, "recovery invoked",
				slog.String("recovery", r.Name()),
				slog.String("site", r.Site()),
				slog.Int("count", r.Count()),
				slog.Int("args", len(args)),
			)
		},
		OnMissingRecovery: func(chosen *Kind, cause error) {
			logger.LogAttrs(ctx, slog.LevelWarn, "recovery missing",
				slog.String("kind", chosen.String()),
				slog.String("error", errText(cause)),
			)
		},
		OnSignalIgnored: func(err error) {
			logger.LogAttrs(ctx, slog.LevelDebug, "signal ignored",
				slog.String("error", errText(err)),
			)
		},
		OnSignalSkipped: func(err error) {
			logger.LogAttrs(ctx, slog.LevelDebug, "signal skipped",
				slog.String("error", errText(err)),
			)
		},
		OnRetry: func(attempt int, err error) {
			logger.LogAttrs(ctx, slog.LevelInfo, "task restarted",
				slog.Int("attempt", attempt),
				slog.String("error", errText(err)),
			)
		},
		OnFallbackUsed: func(err error) {
			logger.LogAttrs(ctx, slog.LevelInfo, "fallback used",
				slog.String("error", errText(err)),
			)
		},
	}
}

func recoveryNames(c *Condition) []string {
	names := make([]string, 0, c.Len())
	for _, r := range c.entries {
		names = append(names, r.Name())
	}

	return names
}

func errText(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}
