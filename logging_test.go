package r6y_test

import (
	"bytes"
	"log/slog"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/r6y"
)

// decodeRecords parses one JSON log record per line.
func decodeRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var records []map[string]any

	for line := range bytes.Lines(buf.Bytes()) {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(line, &rec))

		records = append(records, rec)
	}

	return records
}

func TestLogHooks(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	env := r6y.NewEnv(r6y.WithHooks(r6y.LogHooks(logger)))

	_, err := r6y.Handle(env, func() (any, error) {
		return env.Raise(errBoom, func(c *r6y.Condition) { c.Add(r6y.Continuing()) })
	}, func(*r6y.Condition) (any, error) {
		return nil, env.Recover(r6y.KindContinuing, 1, 2)
	})
	require.NoError(t, err)

	records := decodeRecords(t, &buf)
	require.Len(t, records, 2)

	require.Equal(t, "condition raised", records[0]["msg"])
	require.Equal(t, "DEBUG", records[0]["level"])
	require.Equal(t, "boom", records[0]["error"])
	require.Equal(t, []any{"Continuing"}, records[0]["recoveries"])

	require.Equal(t, "recovery invoked", records[1]["msg"])
	require.Equal(t, "Continuing", records[1]["recovery"])
	require.EqualValues(t, 1, records[1]["count"])
	require.EqualValues(t, 2, records[1]["args"])
	require.NotEmpty(t, records[1]["site"])
}

func TestLogHooksWarnings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	env := r6y.NewEnv(r6y.WithHooks(r6y.LogHooks(logger)))

	_, err := r6y.Handle(env, func() (any, error) {
		return env.Raise(errBoom)
	}, func(*r6y.Condition) (any, error) {
		return nil, env.Recover(r6y.KindIgnoring)
	})
	require.Error(t, err)

	records := decodeRecords(t, &buf)
	require.Len(t, records, 2)

	require.Equal(t, "recovery missing", records[0]["msg"])
	require.Equal(t, "WARN", records[0]["level"])
	require.Equal(t, "Ignoring", records[0]["kind"])
	require.Equal(t, "boom", records[0]["error"])

	require.Equal(t, "condition unhandled", records[1]["msg"])
	require.Equal(t, "r6y: no recovery of kind Ignoring", records[1]["error"])
}

func TestLogHooksSignals(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	env := r6y.NewEnv(r6y.WithHooks(r6y.LogHooks(logger)))

	_, err := env.Signal(errBoom)
	require.NoError(t, err)

	env.Select().Register(r6y.Ignoring())
	_, err = env.Signal(errBoom)
	require.NoError(t, err)

	var msgs []any
	for _, rec := range decodeRecords(t, &buf) {
		msgs = append(msgs, rec["msg"])
	}

	require.Equal(t, []any{"signal skipped", "signal ignored", "recovery invoked"}, msgs)
}
