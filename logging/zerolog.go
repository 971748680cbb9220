package logging

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ZerologPublisher routes simulation events through a zerolog logger so the
// server shares one structured log stream for sim and transport concerns.
type ZerologPublisher struct {
	logger   zerolog.Logger
	minLevel Severity
}

// NewZerologPublisher writes JSON events to w at the given minimum severity.
func NewZerologPublisher(w io.Writer, minLevel Severity) *ZerologPublisher {
	if w == nil {
		w = os.Stdout
	}
	return &ZerologPublisher{
		logger:   zerolog.New(w).With().Timestamp().Logger(),
		minLevel: minLevel,
	}
}

// NewConsolePublisher is the human-readable variant used during development.
func NewConsolePublisher(minLevel Severity) *ZerologPublisher {
	writer := zerolog.ConsoleWriter{Out: os.Stdout}
	return &ZerologPublisher{
		logger:   zerolog.New(writer).With().Timestamp().Logger(),
		minLevel: minLevel,
	}
}

func (p *ZerologPublisher) Publish(_ context.Context, event Event) {
	if p == nil || event.Severity < p.minLevel {
		return
	}

	entry := p.logger.WithLevel(zerologLevel(event.Severity)).
		Str("event", string(event.Type)).
		Uint64("tick", event.Tick)
	if event.Actor.ID != "" {
		entry = entry.Str("actor", event.Actor.ID)
	}
	if event.Category != "" {
		entry = entry.Str("category", event.Category)
	}
	if event.Payload != nil {
		entry = entry.Interface("payload", event.Payload)
	}
	for key, value := range event.Extra {
		entry = entry.Interface(key, value)
	}
	entry.Send()
}

func zerologLevel(sev Severity) zerolog.Level {
	switch sev {
	case SeverityDebug:
		return zerolog.DebugLevel
	case SeverityInfo:
		return zerolog.InfoLevel
	case SeverityWarn:
		return zerolog.WarnLevel
	case SeverityError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseSeverity maps a config string to a Severity, defaulting to info.
func ParseSeverity(raw string) Severity {
	switch raw {
	case "debug":
		return SeverityDebug
	case "warn", "warning":
		return SeverityWarn
	case "error":
		return SeverityError
	default:
		return SeverityInfo
	}
}
