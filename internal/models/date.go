package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the display and storage format of all dates.
const DateLayout = "02/01/2006"

// ParseDate parses a DD/MM/YYYY string into a UTC calendar date.
// Out-of-range parts are normalized the way time.Date normalizes them.
func ParseDate(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("parse date %q: want DD/MM/YYYY", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
		}
		nums[i] = n
	}
	return time.Date(nums[2], time.Month(nums[1]), nums[0], 0, 0, 0, 0, time.UTC), nil
}

// FormatDate renders t as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDateTime renders t as "DD/MM/YYYY HH:MM", the comment timestamp format.
func FormatDateTime(t time.Time) string {
	return t.Format(DateLayout + " 15:04")
}

// MonthKey returns the MM/YYYY part of a DD/MM/YYYY date string.
func MonthKey(date string) string {
	if i := strings.Index(date, "/"); i >= 0 {
		return date[i+1:]
	}
	return date
}
