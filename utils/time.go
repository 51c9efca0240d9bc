package utils

import (
	"fmt"
	"time"
)

// Layouts sqlite may hand back for a DATETIME column, most precise first.
var storedTimeLayouts = []string{
	time.RFC3339Nano,
	time.DateTime,
	"2006-01-02 15:04:05.999999999-07:00",
}

// ParseStoredTime reads a timestamp column written by the sqlite driver.
func ParseStoredTime(value string) (time.Time, error) {
	for _, layout := range storedTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}
