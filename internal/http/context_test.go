package http

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerLogger(t *testing.T) {
	t.Parallel()

	t.Run("prefers the request scoped logger", func(t *testing.T) {
		t.Parallel()

		var fromContext, fallback bytes.Buffer
		ctx := ContextWithLogger(context.Background(), slog.New(slog.NewJSONHandler(&fromContext, nil)))

		logger := handlerLogger(ctx, slog.New(slog.NewJSONHandler(&fallback, nil)), "EmployeeHandler", "List")
		logger.InfoContext(ctx, "listing")

		if fallback.Len() != 0 {
			t.Fatal("fallback logger should not receive records when the context carries one")
		}
		out := fromContext.String()
		if !strings.Contains(out, `"handler":"EmployeeHandler"`) || !strings.Contains(out, `"operation":"List"`) {
			t.Fatalf("handler and operation attributes missing: %s", out)
		}
	})

	t.Run("falls back to the handler logger", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := handlerLogger(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)), "AuthHandler", "")
		logger.Info("login")

		out := buf.String()
		if !strings.Contains(out, `"handler":"AuthHandler"`) {
			t.Fatalf("handler attribute missing: %s", out)
		}
		if strings.Contains(out, `"operation"`) {
			t.Fatalf("empty operation must not be tagged: %s", out)
		}
	})
}
