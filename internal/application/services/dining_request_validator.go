package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	"github.com/zatekoja/diningconcierge/pkg/config"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DateLayout is the slot format for reservation dates
const DateLayout = "2006-01-02"

const (
	openingHour = 7

	msgInvalidPeople  = "Please enter a valid number for people."
	msgInvalidDate    = "Please enter a valid date in the format: yyyy-mm-dd."
	msgPastDate       = "This date is in the past. Please enter a date from today onwards."
	msgInvalidTime    = "Please enter a valid time in the format: hh:mm."
	msgOutsideOpening = "Please enter a time between the open hours from 7:00 to 24:00."
)

// DiningRequestValidator checks dining request slots against the catalog
// and the calendar. Only filled slots are checked, in a fixed order, and the
// first violation wins.
type DiningRequestValidator struct {
	catalog  config.Catalog
	location *time.Location
	now      func() time.Time
}

// NewDiningRequestValidator creates a validator. Dates are judged in loc.
func NewDiningRequestValidator(catalog config.Catalog, loc *time.Location) *DiningRequestValidator {
	if loc == nil {
		loc = time.UTC
	}
	return &DiningRequestValidator{catalog: catalog, location: loc, now: time.Now}
}

// WithClock replaces the clock used to decide which dates are in the past
func (v *DiningRequestValidator) WithClock(now func() time.Time) *DiningRequestValidator {
	v.now = now
	return v
}

// Validate returns the first slot violation, or a valid result
func (v *DiningRequestValidator) Validate(slots entities.Slots) entities.ValidationResult {
	if slots.Filled(entities.SlotLocation) {
		location := slots.Value(entities.SlotLocation)
		if !v.catalog.SupportsCity(location) {
			return entities.Invalid(entities.SlotLocation, fmt.Sprintf(
				"We currently do not support suggestions for restaurant in %s. Could you try %s?",
				location, titleList(v.catalog.Cities, " or "),
			))
		}
	}

	if slots.Filled(entities.SlotCuisine) {
		cuisine := slots.Value(entities.SlotCuisine)
		if !v.catalog.SupportsCuisine(cuisine) {
			return entities.Invalid(entities.SlotCuisine, fmt.Sprintf(
				"We currently do not support suggestions for %s restaurants. Please choose one from the following: %s.",
				cuisine, titleList(v.catalog.Cuisines, ", "),
			))
		}
	}

	if slots.Filled(entities.SlotNumberOfPeople) {
		people := slots.Value(entities.SlotNumberOfPeople)
		if n, ok := parseDigits(people); !ok || n < 1 {
			return entities.Invalid(entities.SlotNumberOfPeople, msgInvalidPeople)
		}
	}

	if slots.Filled(entities.SlotDate) {
		date, err := time.ParseInLocation(DateLayout, slots.Value(entities.SlotDate), v.location)
		if err != nil {
			return entities.Invalid(entities.SlotDate, msgInvalidDate)
		}
		if date.Before(v.today()) {
			return entities.Invalid(entities.SlotDate, msgPastDate)
		}
	}

	if slots.Filled(entities.SlotTime) {
		hour, ok := parseClock(slots.Value(entities.SlotTime))
		if !ok {
			return entities.Invalid(entities.SlotTime, msgInvalidTime)
		}
		if hour > 0 && hour < openingHour {
			return entities.Invalid(entities.SlotTime, msgOutsideOpening)
		}
	}

	return entities.Valid()
}

// today is midnight of the current date in the validator's location
func (v *DiningRequestValidator) today() time.Time {
	y, m, d := v.now().In(v.location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, v.location)
}

// parseDigits accepts only ASCII digits
func parseDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseClock checks the HH:MM shape and returns the hour
func parseClock(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	hour, ok := parseDigits(s[:2])
	if !ok {
		return 0, false
	}
	if _, ok := parseDigits(s[3:]); !ok {
		return 0, false
	}
	return hour, true
}

func titleList(values []string, sep string) string {
	caser := cases.Title(language.English)
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = caser.String(v)
	}
	return strings.Join(out, sep)
}
