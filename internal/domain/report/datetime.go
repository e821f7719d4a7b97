package report

import (
	"fmt"
	"strings"
	"time"
)

// InvalidDateTime is rendered in place of a datetime that cannot be parsed
const InvalidDateTime = "NaN年NaN月NaN日 NaN:NaN"

const displayLayout = "2006年01月02日 15:04"

// layouts without a zone are interpreted in the formatter's location
var localLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006/1/2 15:04",
	"2006/1/2 15:04:05",
	"2006/1/2",
}

// an ISO date without a time is UTC midnight, shown in the formatter's location
const isoDateLayout = "2006-01-02"

// DateTimeFormatter normalizes datetime input into the report display form
type DateTimeFormatter struct {
	Location *time.Location
}

// NewDateTimeFormatter creates a formatter for the given location; nil means time.Local
func NewDateTimeFormatter(loc *time.Location) DateTimeFormatter {
	if loc == nil {
		loc = time.Local
	}
	return DateTimeFormatter{Location: loc}
}

func (d DateTimeFormatter) location() *time.Location {
	if d.Location == nil {
		return time.Local
	}
	return d.Location
}

// Parse reads raw into a time in the formatter's location
func (d DateTimeFormatter) Parse(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty input", ErrInvalidDateTime)
	}

	loc := d.location()
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	if t, err := time.Parse(isoDateLayout, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, raw)
}

// Format renders raw as "YYYY年MM月DD日 HH:MM", or InvalidDateTime if it cannot be parsed
func (d DateTimeFormatter) Format(raw string) string {
	t, err := d.Parse(raw)
	if err != nil {
		return InvalidDateTime
	}
	return t.Format(displayLayout)
}
