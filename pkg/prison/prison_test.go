package prison

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(s string) Month {
	m, err := ParseMonth(s)
	if err != nil {
		panic(err)
	}
	return m
}

var window = Window{Start: month("10-2014"), End: month("09-2024")}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Month
		wantErr bool
	}{
		{name: "registry format", in: "02-2017", want: Month{2017, time.February}},
		{name: "trims space", in: " 12-2016 ", want: Month{2016, time.December}},
		{name: "month out of range", in: "13-2016", wantErr: true},
		{name: "missing year", in: "02", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMonth(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonthOrdering(t *testing.T) {
	a := month("12-2016")
	b := month("01-2017")
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(a))
	assert.Equal(t, "2016-12", a.Key())
	assert.Equal(t, "12-2016", a.String())
}

func TestHighestCategoryPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		flags      Flags
		wantMale   string
		wantFemale string
	}{
		{
			name:     "B beats YOI",
			flags:    Flags{B: true, YOI: true, Male: true},
			wantMale: "B", wantFemale: "Other",
		},
		{
			name:     "A beats everything",
			flags:    Flags{A: true, B: true, C: true, Male: true},
			wantMale: "A", wantFemale: "Other",
		},
		{
			name:     "C beats D",
			flags:    Flags{C: true, D: true, Male: true},
			wantMale: "C", wantFemale: "Other",
		},
		{
			name:     "YOI only",
			flags:    Flags{YOI: true, Male: true},
			wantMale: "YOI", wantFemale: "Other",
		},
		{
			name:     "closed beats open for females",
			flags:    Flags{Female: true, FemaleOpen: true, FemaleClosed: true},
			wantMale: "Other", wantFemale: "Closed",
		},
		{
			name:     "open female",
			flags:    Flags{Female: true, FemaleOpen: true},
			wantMale: "Other", wantFemale: "Open",
		},
		{
			name:     "mixed site fills both",
			flags:    Flags{B: true, Mixed: true, FemaleClosed: true},
			wantMale: "B", wantFemale: "Closed",
		},
		{
			name:     "female site gets no male category",
			flags:    Flags{Female: true, FemaleClosed: true},
			wantMale: "Other", wantFemale: "Closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Record{Name: "X", Flags: tt.flags}
			r.deriveHighest()
			assert.Equal(t, tt.wantMale, r.HighestCategoryMale)
			assert.Equal(t, tt.wantFemale, r.HighestCategoryFemale)
		})
	}
}

func TestGroupKey(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		want  string
	}{
		{name: "single category", flags: Flags{B: true, Male: true}, want: "B"},
		{name: "dual site", flags: Flags{C: true, D: true, Male: true}, want: "C+D"},
		{name: "adult plus YOI", flags: Flags{C: true, YOI: true, Male: true}, want: "C+YOI"},
		{name: "closed female", flags: Flags{Female: true, FemaleClosed: true}, want: "Female_closed"},
		{name: "no category flags", flags: Flags{Male: true}, want: "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Record{Flags: tt.flags}
			assert.Equal(t, tt.want, r.GroupKey())
		})
	}
}

func TestBuildExcludesIRCSites(t *testing.T) {
	records := []Record{
		{Name: "Dover", Start: window.Start, End: window.End, Flags: Flags{C: true, Male: true}},
		{Name: "Haslar", Start: window.Start, End: window.End, IRC: true},
		{Name: "Morton Hall", Start: window.Start, End: window.End, IRC: true},
	}

	got, report := Build(records, nil, window)

	require.Len(t, got, 1)
	assert.Equal(t, "Dover", got[0].Name)
	assert.ElementsMatch(t, []string{"Haslar", "Morton Hall"}, report.Excluded)
}

func TestBuildCloseEvent(t *testing.T) {
	records := []Record{
		{Name: "Kennet", Start: window.Start, End: window.End,
			Flags: Flags{C: true, Male: true}, Notes: "Category C prison"},
	}
	events := []Event{
		{Prison: "Kennet", Date: month("12-2016"), Kind: EventClose, Note: "Closed"},
	}

	got, report := Build(records, events, window)

	require.Len(t, got, 1)
	assert.Equal(t, month("12-2016"), got[0].End)
	assert.Contains(t, got[0].Notes, "Closed in 12-2016")
	assert.Empty(t, report.Overlaps)
}

func TestBuildReopenAfterCloseIsOrderDependent(t *testing.T) {
	records := []Record{
		{Name: "Downview", Start: window.Start, End: window.End,
			Flags: Flags{Female: true, FemaleClosed: true}},
	}
	events := []Event{
		// Deliberately unsorted; Build must sort chronologically.
		{Prison: "Downview", Date: month("05-2016"), Kind: EventReopen,
			Flags: &Flags{Female: true, FemaleClosed: true},
			Note:  "Reopened as a female prison"},
		{Prison: "Downview", Date: month("10-2015"), Kind: EventClose, Note: "Temporarily closed"},
	}

	got, report := Build(records, events, window)

	require.Len(t, got, 2)
	first, second := got[0], got[1]
	// The close predates the reopen; the gap between them stays closed.
	assert.Equal(t, month("10-2015"), first.End)
	assert.Equal(t, month("05-2016"), second.Start)
	assert.Equal(t, window.End, second.End)
	assert.True(t, second.FemaleClosed)
	assert.Contains(t, second.Notes, "Reopened as a female prison in 05-2016")
	assert.Empty(t, report.Overlaps)
}

func TestBuildRecategorizeEvent(t *testing.T) {
	records := []Record{
		{Name: "Holme House", Start: window.Start, End: window.End,
			Flags: Flags{B: true, Male: true}, Notes: "Category B local prison"},
	}
	events := []Event{
		{Prison: "Holme House", Date: month("05-2017"), Kind: EventRecategorize,
			Flags: &Flags{C: true, Male: true},
			Note:  "Changed from local to Cat C prison"},
	}

	got, _ := Build(records, events, window)

	require.Len(t, got, 2)
	assert.True(t, got[0].B)
	assert.Equal(t, month("05-2017"), got[0].End)
	assert.True(t, got[1].C)
	assert.False(t, got[1].B)
	assert.Equal(t, "C", got[1].HighestCategoryMale)
}

func TestBuildOpenEvent(t *testing.T) {
	events := []Event{
		{Prison: "Berwyn", Date: month("02-2017"), Kind: EventOpen,
			Flags: &Flags{C: true, Male: true},
			Note:  "Opened February 2017, largest prison in the UK"},
	}

	got, report := Build(nil, events, window)

	require.Len(t, got, 1)
	assert.Equal(t, month("02-2017"), got[0].Start)
	assert.Equal(t, window.End, got[0].End)
	assert.True(t, got[0].C)
	assert.NotEmpty(t, got[0].ID)
	assert.Empty(t, report.UnknownEvents)
}

func TestBuildUnknownPrisonEvent(t *testing.T) {
	events := []Event{
		{Prison: "Nowhere", Date: month("01-2020"), Kind: EventClose, Note: "Closed"},
	}

	got, report := Build(nil, events, window)

	assert.Empty(t, got)
	require.Len(t, report.UnknownEvents, 1)
	assert.Equal(t, "Nowhere", report.UnknownEvents[0].Prison)
}

func TestValidateOverlap(t *testing.T) {
	records := []Record{
		{Name: "X", Start: month("10-2014"), End: month("06-2017")},
		{Name: "X", Start: month("01-2016"), End: month("09-2024")},
	}

	overlaps := Validate(records)

	require.Len(t, overlaps, 1)
	assert.Equal(t, "X", overlaps[0].Name)
	assert.Equal(t, month("01-2016"), overlaps[0].Month)
}

func TestValidateBoundaryHandoffIsNotOverlap(t *testing.T) {
	records := []Record{
		{Name: "X", Start: month("10-2014"), End: month("05-2016")},
		{Name: "X", Start: month("05-2016"), End: month("09-2024")},
	}

	assert.Empty(t, Validate(records))
}

func TestActiveAtPrefersNewerOnHandoff(t *testing.T) {
	records := []Record{
		{Name: "X", Start: month("10-2014"), End: month("05-2016"), Flags: Flags{B: true}},
		{Name: "X", Start: month("05-2016"), End: month("09-2024"), Flags: Flags{C: true}},
	}

	active := ActiveAt(records, month("05-2016"))
	require.Contains(t, active, "X")
	assert.True(t, active["X"].C)

	before := ActiveAt(records, month("04-2016"))
	assert.True(t, before["X"].B)
}

func TestNewIDIsStable(t *testing.T) {
	assert.Equal(t, NewID("Wakefield"), NewID("Wakefield"))
	assert.NotEqual(t, NewID("Wakefield"), NewID("Wandsworth"))
}

func TestBuildAssignsUniqueRecordIDs(t *testing.T) {
	records := []Record{
		{Name: "Holme House", Start: window.Start, End: window.End,
			Flags: Flags{B: true, Male: true}},
	}
	events := []Event{
		{Prison: "Holme House", Date: month("05-2017"), Kind: EventRecategorize,
			Flags: &Flags{C: true, Male: true}, Note: "Changed to Cat C"},
	}

	got, _ := Build(records, events, window)

	require.Len(t, got, 2)
	assert.NotEmpty(t, got[0].ID)
	assert.NotEmpty(t, got[1].ID)
	// Both periods belong to the same prison but key their own rows.
	assert.NotEqual(t, got[0].ID, got[1].ID)
	assert.Equal(t, RecordID("Holme House", got[0].Start), got[0].ID)
	assert.Equal(t, RecordID("Holme House", got[1].Start), got[1].ID)
}

func TestRecordIDIsStable(t *testing.T) {
	m := month("10-2014")
	assert.Equal(t, RecordID("Wakefield", m), RecordID("Wakefield", m))
	assert.NotEqual(t,
		RecordID("Wakefield", m), RecordID("Wakefield", month("05-2017")))
}
