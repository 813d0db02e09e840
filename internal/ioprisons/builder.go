package ioprisons

import (
	"context"
	"log/slog"
	"os"

	"github.com/custodymetrics/custodypanel/pkg/config"
	"github.com/custodymetrics/custodypanel/pkg/custodypanel"
	"github.com/custodymetrics/custodypanel/pkg/prison"
)

type builder struct {
	cfg *config.Config
}

// NewBuilder returns a RegistryBuilder reading the registry and event
// files from the user's config directory.
func NewBuilder(cfg *config.Config) custodypanel.RegistryBuilder {
	return &builder{cfg: cfg}
}

func (b *builder) Build(
	ctx context.Context,
) ([]prison.Record, *prison.BuildReport, error) {
	prisonsPath := config.PrisonsFilePath(b.cfg.HomeDir)
	eventsPath := config.EventsFilePath(b.cfg.HomeDir)

	records, err := loadRegistry(prisonsPath)
	if err != nil {
		return nil, nil, err
	}
	events, err := loadEvents(eventsPath)
	if err != nil {
		return nil, nil, err
	}

	window, err := studyWindow()
	if err != nil {
		return nil, nil, err
	}

	built, report := prison.Build(records, events, window)

	slog.Info("Built prison table",
		"records", len(built),
		"events", len(events),
		"excluded", len(report.Excluded),
		"overlaps", len(report.Overlaps))
	for _, e := range report.UnknownEvents {
		slog.Warn("Event for unknown prison",
			"prison", e.Prison, "date", e.Date.String(), "kind", e.Kind)
	}

	return built, report, nil
}

func loadRegistry(path string) ([]prison.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, RegistryReadError(path, err)
	}
	records, err := ParseRegistry(data)
	if err != nil {
		return nil, RegistryParseError(path, err)
	}
	return records, nil
}

func loadEvents(path string) ([]prison.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, RegistryReadError(path, err)
	}
	events, err := ParseEvents(data)
	if err != nil {
		return nil, RegistryParseError(path, err)
	}
	return events, nil
}

func studyWindow() (prison.Window, error) {
	start, err := prison.ParseMonth(config.StudyStart)
	if err != nil {
		return prison.Window{}, err
	}
	end, err := prison.ParseMonth(config.StudyEnd)
	if err != nil {
		return prison.Window{}, err
	}
	return prison.Window{Start: start, End: end}, nil
}
