// Package release classifies release dates as upcoming or released and
// formats them for display.
//
// Dates are compared by calendar day, not by instant: an album dated today
// counts as released for the whole of today. Missing and unparseable dates
// are treated as upcoming so an unknown date never shows as already out.
//
// # Basic Usage
//
//	release.IsFuture("2030-01-01")          // true
//	release.IsFuture("")                    // true
//	release.FormatDisplayDate("2021-03-05") // "March 5, 2021"
//	release.FormatDisplayDate("")           // "Upcoming"
//
// # Fixed Time Zones
//
// Deployments that need the release boundary to be independent of the
// machine's zone can evaluate it in a fixed UTC offset:
//
//	release.IsFutureAt("2030-01-01", +1) // boundary at midnight UTC+1
package release

import (
	"fmt"
	"strings"
	"time"
)

// UpcomingLabel is shown in place of a date for unreleased albums.
const UpcomingLabel = "Upcoming"

// displayLayout renders dates the way the site does ("January 1, 2030").
const displayLayout = "January 2, 2006"

// calendarLayouts are hand-written calendar dates, tried first and in
// order. Partial dates fall on the first day of their month or year.
var calendarLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/1/2",
	"2006-1",
	"2006",
}

// timestampLayouts are tried after calendarLayouts, in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02 Jan 2006 15:04:05 MST",
	"January 2, 2006",
	"Jan 2, 2006",
}

// Classifier decides release status relative to a clock and a time zone.
//
// The zero value uses time.Now and the local zone. Tests inject Now to pin
// the current moment; deployments set Location to fix the day boundary.
type Classifier struct {
	// Now returns the current moment. Nil means time.Now.
	Now func() time.Time

	// Location is the zone whose calendar days are compared.
	// Nil means time.Local.
	Location *time.Location
}

// Default is the Classifier used by the package-level functions.
var Default = Classifier{}

// FixedOffset returns a Classifier evaluating day boundaries at a fixed UTC
// offset given in hours. Fractional offsets (e.g. 5.5) are supported.
func FixedOffset(hours float64) Classifier {
	seconds := int(hours * 3600)
	return Classifier{Location: time.FixedZone(offsetName(hours), seconds)}
}

// IsFuture reports whether date is upcoming in the local time zone.
func IsFuture(date string) bool {
	return Default.IsFuture(date)
}

// IsFutureAt reports whether date is upcoming at a fixed UTC offset.
func IsFutureAt(date string, offsetHours float64) bool {
	return FixedOffset(offsetHours).IsFuture(date)
}

// FormatDisplayDate renders date as "January 1, 2030", or UpcomingLabel
// when the date is missing, unparseable or in the future.
func FormatDisplayDate(date string) string {
	return Default.FormatDisplayDate(date)
}

// IsFuture reports whether the calendar day of date is strictly after
// today's calendar day.
func (c Classifier) IsFuture(date string) bool {
	day, ok := c.parseDay(date)
	if !ok {
		return true
	}
	return day.After(c.today())
}

// FormatDisplayDate renders released dates in long form and everything else
// as UpcomingLabel.
func (c Classifier) FormatDisplayDate(date string) string {
	if c.IsFuture(date) {
		return UpcomingLabel
	}
	day, _ := c.parseDay(date)
	return day.Format(displayLayout)
}

// FormatYear returns the release year of date or "".
func (c Classifier) FormatYear(date string) string {
	day, ok := c.parseDay(date)
	if !ok {
		return ""
	}
	return day.Format("2006")
}

// Day returns midnight of the calendar day date falls on in c's zone, or
// false if date is missing or unparseable.
func (c Classifier) Day(date string) (time.Time, bool) {
	return c.parseDay(date)
}

// parseDay returns midnight of the calendar day date falls on in c's zone.
//
// Plain calendar dates are taken as written, without zone conversion:
// "2019-3-5", "2019/03/05", "2019-03" and "2019" are all accepted.
// Timestamps are first converted into c's zone, so "2030-01-01T23:30:00Z"
// is already January 2 in UTC+1.
func (c Classifier) parseDay(date string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, false
	}

	loc := c.location()
	for _, layout := range calendarLayouts {
		if t, err := time.ParseInLocation(layout, date, loc); err == nil {
			return t, true
		}
	}

	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, date, loc)
		if err != nil {
			continue
		}
		t = t.In(loc)
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), true
	}

	return time.Time{}, false
}

func (c Classifier) today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	t := now().In(c.location())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (c Classifier) location() *time.Location {
	if c.Location != nil {
		return c.Location
	}
	return time.Local
}

func offsetName(hours float64) string {
	sign := "+"
	if hours < 0 {
		sign = "-"
		hours = -hours
	}
	total := int(hours*60 + 0.5)
	return fmt.Sprintf("UTC%s%02d:%02d", sign, total/60, total%60)
}
