package form

import (
	"strconv"
	"strings"
	"time"

	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

const maxDateDigits = 8

var goLayouts = map[string]string{
	types.DisplayDateLayout: "02-01-2006",
	types.StorageDateLayout: "2006-01-02",
}

// FormatDateDigits keeps the digits of raw (at most eight) and formats them
// progressively as DD, DD-MM or DD-MM-YYYY. Formatting its own output
// yields the same result.
func FormatDateDigits(raw string) (display, digits string) {
	var b strings.Builder
	for _, r := range raw {
		if b.Len() == maxDateDigits {
			break
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits = b.String()

	display = digits[:min(2, len(digits))]
	if len(digits) > 2 {
		display += "-" + digits[2:min(4, len(digits))]
	}
	if len(digits) > 4 {
		display += "-" + digits[4:]
	}
	return display, digits
}

// IsValidDate reports whether day, month and year name a real calendar
// date with a four digit year
func IsValidDate(day, month, year int) bool {
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1000 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && t.Month() == time.Month(month) && t.Day() == day
}

// IsValidDateDigits checks an eight digit DDMMYYYY string
func IsValidDateDigits(digits string) bool {
	if len(digits) != maxDateDigits {
		return false
	}
	day, _ := strconv.Atoi(digits[0:2])
	month, _ := strconv.Atoi(digits[2:4])
	year, _ := strconv.Atoi(digits[4:8])
	return IsValidDate(day, month, year)
}

// ParseDate parses s written in one of the date layouts of the types
// package (DD-MM-YYYY or YYYY-MM-DD)
func ParseDate(s, layout string) (time.Time, error) {
	gl, ok := goLayouts[layout]
	if !ok {
		return time.Time{}, goerr.Wrap(ErrInvalidDateFormat, "unknown layout", goerr.V("layout", layout))
	}
	t, err := time.Parse(gl, s)
	if err != nil {
		return time.Time{}, goerr.Wrap(ErrInvalidDateFormat, err.Error(),
			goerr.V(DateKey, s),
			goerr.V("layout", layout))
	}
	return t, nil
}

// FormatDate renders t in one of the date layouts of the types package
func FormatDate(t time.Time, layout string) (string, error) {
	gl, ok := goLayouts[layout]
	if !ok {
		return "", goerr.Wrap(ErrInvalidDateFormat, "unknown layout", goerr.V("layout", layout))
	}
	return t.Format(gl), nil
}

// ConvertDate rewrites s from one date layout to another, e.g.
// "05-03-2024" DD-MM-YYYY to "2024-03-05" YYYY-MM-DD
func ConvertDate(s, from, to string) (string, error) {
	t, err := ParseDate(s, from)
	if err != nil {
		return "", err
	}
	return FormatDate(t, to)
}

// FormatDateInput writes the formatted form of raw into a slot without
// notifying the change observer. Only the invalidDate error is touched:
// it is set for a complete but impossible date and cleared otherwise.
func (f *Form) FormatDateInput(id types.FieldID, index int, raw string) (string, error) {
	_, s, err := f.lookupSlot(id, index)
	if err != nil {
		return "", err
	}

	display, digits := FormatDateDigits(raw)
	s.set(&display)
	s.touched = true

	invalid := len(digits) == maxDateDigits && !IsValidDateDigits(digits)
	s.setError(types.ErrorInvalidDate, invalid)

	return display, nil
}
