package diagnostics

import (
	"context"
	"log/slog"
)

// Publisher receives summaries as they are produced.
type Publisher interface {
	Publish(s Summary)
}

// PublisherFunc adapts a function to a Publisher.
type PublisherFunc func(s Summary)

func (f PublisherFunc) Publish(s Summary) {
	f(s)
}

// LogPublisher writes summaries to the default slog logger.
type LogPublisher struct {
	Level slog.Level
}

func (p LogPublisher) Publish(s Summary) {
	slog.Log(context.Background(), p.Level, "Frame stats",
		"fps", s.FPS,
		"render_ms", s.Render.Seconds()*1000,
		"low_ms", s.Stats.Low,
		"avg_ms", s.Stats.Avg,
		"high_ms", s.Stats.High,
		"frames", s.Frames)
}
