package prison

// EventKind classifies a lifecycle event.
type EventKind string

const (
	// EventOpen adds a new prison record starting at the event month.
	EventOpen EventKind = "open"

	// EventClose ends the active record at the event month. Covers both
	// closures and decommissionings pending re-role.
	EventClose EventKind = "close"

	// EventReopen ends the active record and appends a new one with
	// replacement flags, e.g. a male prison reopening as a female prison.
	EventReopen EventKind = "reopen"

	// EventRecategorize ends the active record and appends a new one
	// with changed category flags, e.g. local (B) re-rolled to Cat C.
	EventRecategorize EventKind = "recategorize"

	// EventNote appends to the active record's notes without changing
	// classification, e.g. an operator change from private to public.
	EventNote EventKind = "note"
)

// Event is one dated lifecycle change. Events must be applied in
// chronological order: a reopen relies on the state left by an earlier
// close of the same prison.
type Event struct {
	Prison string
	Date   Month
	Kind   EventKind

	// Flags replaces the record's flags for open/reopen/recategorize
	// events. Nil keeps the previous flags (close, note).
	Flags *Flags

	Note string
}
