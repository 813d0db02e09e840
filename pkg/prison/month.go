package prison

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Month is a calendar month, the resolution at which all prison lifecycle
// events and capacity reports are recorded.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a month in the registry's MM-YYYY format.
func ParseMonth(s string) (Month, error) {
	var res Month
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return res, fmt.Errorf("invalid month %q, want MM-YYYY", s)
	}
	m, err := strconv.Atoi(parts[0])
	if err != nil || m < 1 || m > 12 {
		return res, fmt.Errorf("invalid month %q, want MM-YYYY", s)
	}
	y, err := strconv.Atoi(parts[1])
	if err != nil || y < 1000 {
		return res, fmt.Errorf("invalid month %q, want MM-YYYY", s)
	}
	res.Year = y
	res.Month = time.Month(m)
	return res, nil
}

// ParseMonthKey parses a month in the sortable YYYY-MM format used in
// panel outputs.
func ParseMonthKey(s string) (Month, error) {
	var res Month
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return res, fmt.Errorf("invalid month %q, want YYYY-MM", s)
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil || y < 1000 {
		return res, fmt.Errorf("invalid month %q, want YYYY-MM", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return res, fmt.Errorf("invalid month %q, want YYYY-MM", s)
	}
	res.Year = y
	res.Month = time.Month(m)
	return res, nil
}

// MonthOf truncates a timestamp to its calendar month.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// String renders the month in MM-YYYY, the registry format.
func (m Month) String() string {
	return fmt.Sprintf("%02d-%d", int(m.Month), m.Year)
}

// Key renders the month in YYYY-MM, the sortable format used in
// panel outputs and month-exclusion lists.
func (m Month) Key() string {
	return fmt.Sprintf("%d-%02d", m.Year, int(m.Month))
}

// Index returns the number of months since year zero, for ordering
// and interval arithmetic.
func (m Month) Index() int {
	return m.Year*12 + int(m.Month) - 1
}

// Before reports whether m is strictly earlier than other.
func (m Month) Before(other Month) bool {
	return m.Index() < other.Index()
}

// After reports whether m is strictly later than other.
func (m Month) After(other Month) bool {
	return m.Index() > other.Index()
}

// IsZero reports whether the month is unset.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}
