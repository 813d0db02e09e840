// Package ioprisons loads the prison registry and event log from their
// YAML files and builds the canonical prison table.
package ioprisons

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/custodymetrics/custodypanel/pkg/prison"
)

type registryDoc struct {
	Prisons []recordDTO `yaml:"prisons"`
}

type recordDTO struct {
	Name         string `yaml:"name"`
	Start        string `yaml:"start"`
	End          string `yaml:"end"`
	prison.Flags `yaml:",inline"`
	IRC          bool   `yaml:"irc"`
	Notes        string `yaml:"notes"`
}

type eventsDoc struct {
	Events []eventDTO `yaml:"events"`
}

type eventDTO struct {
	Prison string        `yaml:"prison"`
	Date   string        `yaml:"date"`
	Kind   string        `yaml:"kind"`
	Flags  *prison.Flags `yaml:"flags"`
	Note   string        `yaml:"note"`
}

// ParseRegistry decodes the prison registry YAML into records.
func ParseRegistry(data []byte) ([]prison.Record, error) {
	var doc registryDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	res := make([]prison.Record, 0, len(doc.Prisons))
	for _, p := range doc.Prisons {
		if p.Name == "" {
			return nil, fmt.Errorf("registry entry without a name")
		}
		start, err := prison.ParseMonth(p.Start)
		if err != nil {
			return nil, fmt.Errorf("prison %q: %w", p.Name, err)
		}
		end, err := prison.ParseMonth(p.End)
		if err != nil {
			return nil, fmt.Errorf("prison %q: %w", p.Name, err)
		}
		res = append(res, prison.Record{
			ID:    prison.NewID(p.Name),
			Name:  p.Name,
			Start: start,
			End:   end,
			Flags: p.Flags,
			IRC:   p.IRC,
			Notes: p.Notes,
		})
	}
	return res, nil
}

// ParseEvents decodes the lifecycle event YAML into events.
func ParseEvents(data []byte) ([]prison.Event, error) {
	var doc eventsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	res := make([]prison.Event, 0, len(doc.Events))
	for _, e := range doc.Events {
		date, err := prison.ParseMonth(e.Date)
		if err != nil {
			return nil, fmt.Errorf("event for %q: %w", e.Prison, err)
		}
		kind := prison.EventKind(e.Kind)
		switch kind {
		case prison.EventOpen, prison.EventClose, prison.EventReopen,
			prison.EventRecategorize, prison.EventNote:
		default:
			return nil, fmt.Errorf("event for %q: unknown kind %q",
				e.Prison, e.Kind)
		}
		res = append(res, prison.Event{
			Prison: e.Prison,
			Date:   date,
			Kind:   kind,
			Flags:  e.Flags,
			Note:   e.Note,
		})
	}
	return res, nil
}
