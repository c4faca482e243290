package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ClockTime is a wall-clock time of day expressed as minutes since midnight.
// Shifts and shift blocks always start and end on the same date, so a plain
// minute count is enough and keeps comparisons cheap. On the wire it always
// reads and writes as an "HH:MM" string, so responses round-trip straight
// back into commit requests.
type ClockTime int

var ErrBadClock = errors.New("malformed HH:MM time")

// ParseClock parses a strict "HH:MM" string: exactly two digits, a colon,
// two digits. Anything else (missing zero padding, sign characters,
// out-of-range fields, trailing garbage) is rejected.
func ParseClock(s string) (ClockTime, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	for _, i := range [4]int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	return ClockTime(h*60 + m), nil
}

// String formats the time back to "HH:MM".
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// MarshalJSON emits the "HH:MM" form.
func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts only the "HH:MM" form, with ParseClock's strictness.
func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrBadClock, data)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ValidDate reports whether s looks like a "YYYY-MM-DD" date key. Dates are
// stored and compared as strings throughout, matching the store schema.
func ValidDate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i, r := range s {
		if i == 4 || i == 7 {
			continue
		}
		if !strings.ContainsRune("0123456789", r) {
			return false
		}
	}
	return true
}
