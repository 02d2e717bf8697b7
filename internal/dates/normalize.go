// Package dates converts the heterogeneous date-like values found in the
// aggregate feeds into one canonical ordering and display key. Feed rows
// carry months as bare numbers, ISO dates with or without time suffixes,
// Brazilian DD/MM/YYYY strings, bare DD/MM strings, or free text; none of
// that is guaranteed to be consistent across rows of the same feed.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Normalized is the canonical representation of a raw feed date.
type Normalized struct {
	// SortKey orders values chronologically within one feed. Months sort
	// as 1..12, full dates as year*10000+month*100+day, generic parses as
	// year*100+month, and unparseable values as their fallback index.
	SortKey int
	// Label is the display form, Brazilian conventions.
	Label string
	// Canonical is the YYYY-MM-DD key usable for store queries, or empty
	// when the raw value cannot be pinned to a single day.
	Canonical string
}

var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthName returns the Portuguese name for month 1..12, or "" outside it.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

var (
	isoRe     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})([T ].*)?$`)
	brFullRe  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	brShortRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`)
)

// Layouts tried as a last resort before giving up on a raw string.
var genericLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02-01-2006",
	"Jan 2, 2006",
	"January 2006",
	"2006-01",
}

// Normalize converts a raw feed value into its canonical triple. It never
// fails: values matching none of the recognized shapes degrade to a stable
// fallback that preserves the feed's own ordering via fallbackIndex.
func Normalize(raw any, fallbackIndex int) Normalized {
	return normalizeAt(raw, fallbackIndex, time.Now())
}

func normalizeAt(raw any, fallbackIndex int, now time.Time) Normalized {
	if month, ok := asMonthNumber(raw); ok {
		return Normalized{SortKey: month, Label: MonthName(month)}
	}

	str := stringify(raw)
	trimmed := strings.TrimSpace(str)

	if m := isoRe.FindStringSubmatch(trimmed); m != nil {
		if n, ok := fromYMD(m[1], m[2], m[3]); ok {
			return n
		}
	}
	if m := brFullRe.FindStringSubmatch(trimmed); m != nil {
		if n, ok := fromYMD(m[3], m[2], m[1]); ok {
			return n
		}
	}
	if m := brShortRe.FindStringSubmatch(trimmed); m != nil {
		if n, ok := fromShortDM(m[1], m[2], now); ok {
			return n
		}
	}

	for _, layout := range genericLayouts {
		t, err := time.Parse(layout, trimmed)
		if err != nil {
			continue
		}
		year, month := t.Year(), int(t.Month())
		return Normalized{
			SortKey: year*100 + month,
			Label:   fmt.Sprintf("%s/%d", MonthName(month), year),
		}
	}

	return Normalized{SortKey: fallbackIndex, Label: str}
}

// fromYMD canonicalizes year/month/day strings, rejecting impossible dates.
func fromYMD(ys, ms, ds string) (Normalized, bool) {
	year, _ := strconv.Atoi(ys)
	month, _ := strconv.Atoi(ms)
	day, _ := strconv.Atoi(ds)
	if !validDate(year, month, day) {
		return Normalized{}, false
	}
	return Normalized{
		SortKey:   year*10000 + month*100 + day,
		Label:     fmt.Sprintf("%02d/%02d/%04d", day, month, year),
		Canonical: fmt.Sprintf("%04d-%02d-%02d", year, month, day),
	}, true
}

// fromShortDM handles bare DD/MM values. The current year is appended for
// display and ordering only; without an explicit year the value cannot be
// trusted as a store query key.
func fromShortDM(ds, ms string, now time.Time) (Normalized, bool) {
	day, _ := strconv.Atoi(ds)
	month, _ := strconv.Atoi(ms)
	year := now.Year()
	if !validDate(year, month, day) {
		return Normalized{}, false
	}
	return Normalized{
		SortKey: year*10000 + month*100 + day,
		Label:   fmt.Sprintf("%02d/%02d/%04d", day, month, year),
	}, true
}

func validDate(year, month, day int) bool {
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

// asMonthNumber recognizes bare calendar months: numeric values or numeric
// strings in 1..12.
func asMonthNumber(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return checkMonth(v)
	case int32:
		return checkMonth(int(v))
	case int64:
		return checkMonth(int(v))
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return checkMonth(int(v))
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" || len(trimmed) > 2 {
			return 0, false
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, false
		}
		return checkMonth(n)
	}
	return 0, false
}

func checkMonth(n int) (int, bool) {
	if n < 1 || n > 12 {
		return 0, false
	}
	return n, true
}

func stringify(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
