package sales

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the business date format.
const DateLayout = "2006-01-02"

// WorkingHours are the opening hours for one weekday.
type WorkingHours struct {
	Day       time.Weekday
	OpenTime  string // HH:MM
	CloseTime string // HH:MM
	IsClosed  bool
}

// ParseWeekday accepts English day names as stored in configuration.
func ParseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), s) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// Calendar assigns sales to business days.
//
// A business day starts one minute before opening time on an open day and
// runs until the next one starts, so sales after midnight still belong to
// the evening they were rung up in.
type Calendar struct {
	loc   *time.Location
	hours map[time.Weekday]WorkingHours
}

// NewCalendar builds a calendar for a time zone. Without working hours every
// calendar date is its own business day.
func NewCalendar(loc *time.Location, hours []WorkingHours) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	c := &Calendar{loc: loc, hours: make(map[time.Weekday]WorkingHours, len(hours))}
	for _, wh := range hours {
		c.hours[wh.Day] = wh
	}
	return c
}

// Location returns the calendar time zone.
func (c *Calendar) Location() *time.Location { return c.loc }

// BusinessDate returns the business date t belongs to.
func (c *Calendar) BusinessDate(t time.Time) string {
	local := t.In(c.loc)
	for back := 0; back < 7; back++ {
		day := local.AddDate(0, 0, -back)
		reset, ok := c.resetTime(day)
		if !ok {
			continue
		}
		if !local.Before(reset) {
			return day.Format(DateLayout)
		}
	}
	return local.Format(DateLayout)
}

// resetTime is one minute before opening on day, if the business opens.
func (c *Calendar) resetTime(day time.Time) (time.Time, bool) {
	wh, ok := c.hours[day.Weekday()]
	if !ok || wh.IsClosed {
		return time.Time{}, false
	}
	var h, m int
	if _, err := fmt.Sscanf(wh.OpenTime, "%d:%d", &h, &m); err != nil {
		return time.Time{}, false
	}
	open := time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, c.loc)
	return open.Add(-time.Minute), true
}
