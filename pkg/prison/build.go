package prison

import (
	"fmt"
	"log/slog"
	"sort"
)

// Window bounds the observation period of the panel.
type Window struct {
	Start Month
	End   Month
}

// BuildReport collects non-fatal issues found while building the table.
type BuildReport struct {
	// Excluded lists sites dropped because they were immigration-removal
	// centers during the study window.
	Excluded []string

	// UnknownEvents lists events whose prison has no registry record
	// (possibly because it was excluded).
	UnknownEvents []Event

	// Overlaps lists uniqueness violations: more than one active
	// classification record for a prison in a month.
	Overlaps []Overlap
}

// Build produces the canonical prison table: the registry records with
// IRC sites removed, lifecycle events folded in chronological order, and
// the Highest_category columns derived. The fold mutates an accumulator
// record list and is order-dependent: later events read the state
// written by earlier ones.
func Build(records []Record, events []Event, window Window) ([]Record, *BuildReport) {
	report := &BuildReport{}

	acc := make([]Record, 0, len(records))
	for _, r := range records {
		if r.IRC {
			report.Excluded = append(report.Excluded, r.Name)
			slog.Info("Excluding immigration-removal center", "prison", r.Name)
			continue
		}
		if r.ID == "" {
			r.ID = NewID(r.Name)
		}
		acc = append(acc, r)
	}

	evs := make([]Event, len(events))
	copy(evs, events)
	sort.SliceStable(evs, func(i, j int) bool {
		return evs[i].Date.Before(evs[j].Date)
	})

	for _, e := range evs {
		acc = applyEvent(acc, e, window, report)
	}

	sort.SliceStable(acc, func(i, j int) bool {
		if acc[i].Name != acc[j].Name {
			return acc[i].Name < acc[j].Name
		}
		return acc[i].Start.Before(acc[j].Start)
	})

	for i := range acc {
		acc[i].ID = RecordID(acc[i].Name, acc[i].Start)
		acc[i].deriveHighest()
	}

	report.Overlaps = Validate(acc)
	for _, o := range report.Overlaps {
		slog.Warn("Overlapping classification records",
			"prison", o.Name, "month", o.Month.String(), "records", o.Count)
	}

	return acc, report
}

// applyEvent folds one event into the accumulator table.
func applyEvent(acc []Record, e Event, window Window, report *BuildReport) []Record {
	idx := activeIndex(acc, e.Prison)

	if idx < 0 && e.Kind != EventOpen {
		report.UnknownEvents = append(report.UnknownEvents, e)
		slog.Warn("Event for unknown prison",
			"prison", e.Prison, "kind", string(e.Kind), "date", e.Date.String())
		return acc
	}

	switch e.Kind {
	case EventOpen:
		rec := Record{
			ID:    NewID(e.Prison),
			Name:  e.Prison,
			Start: e.Date,
			End:   window.End,
			Notes: e.Note,
		}
		if e.Flags != nil {
			rec.Flags = *e.Flags
		}
		acc = append(acc, rec)

	case EventClose:
		acc[idx].End = e.Date
		acc[idx].Notes = joinNotes(acc[idx].Notes, e.Note, e.Date)

	case EventReopen, EventRecategorize:
		prev := acc[idx]
		// A record already closed before the event keeps its close
		// date; the gap was real (e.g. years spent re-roled as an
		// immigration-removal center).
		if prev.End.After(e.Date) {
			acc[idx].End = e.Date
		}

		next := prev
		next.Start = e.Date
		next.End = window.End
		if e.Flags != nil {
			next.Flags = *e.Flags
		}
		if e.Kind == EventReopen {
			next.Notes = fmt.Sprintf("%s in %s", e.Note, e.Date.String())
		} else {
			next.Notes = joinNotes(prev.Notes, e.Note, e.Date)
		}
		acc = append(acc, next)

	case EventNote:
		acc[idx].Notes = joinNotes(acc[idx].Notes, e.Note, e.Date)
	}

	return acc
}

// activeIndex finds the latest record for a prison name, the one events
// act upon. Returns -1 when the prison is not in the table.
func activeIndex(acc []Record, name string) int {
	res := -1
	for i := range acc {
		if acc[i].Name != name {
			continue
		}
		if res < 0 || acc[i].Start.After(acc[res].Start) {
			res = i
		}
	}
	return res
}

func joinNotes(notes, note string, date Month) string {
	if note == "" {
		return notes
	}
	stamped := fmt.Sprintf("%s in %s", note, date.String())
	if notes == "" {
		return stamped
	}
	return notes + "; " + stamped
}
