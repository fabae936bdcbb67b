package host

import (
	"caml/internal/evaluator"
	"log/slog"
)

// LogBindings reports object declarations and property writes as log records. It
// stands in for a GUI layer when the interpreter runs headless.
type LogBindings struct {
	Logger *slog.Logger
}

func (b LogBindings) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}

func (b LogBindings) DeclareObject(rec evaluator.ObjectRecord) error {
	kind := "object"
	switch {
	case rec.IsWindow:
		kind = "window"
	case rec.IsButton:
		kind = "button"
	}
	b.logger().Info("object declared",
		slog.String("name", rec.Name),
		slog.String("kind", kind),
		slog.String("parent", rec.Parent),
		slog.String("properties", rec.Properties.Inspect()),
		slog.Any("buttons", rec.Buttons))
	return nil
}

func (b LogBindings) PropertyChanged(ev evaluator.PropertyEvent) error {
	b.logger().Info("property changed",
		slog.String("object", ev.Object),
		slog.String("property", ev.Property),
		slog.String("value", ev.Value.Inspect()))
	return nil
}
