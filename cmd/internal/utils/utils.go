package utils

import (
	"errors"
	"reflect"
	"strings"
	"time"
)

const clockLayout = "15:04"
const dateLayout = "2006-01-02"

func FormatEpoch(millis int64) string {
	return time.UnixMilli(millis).
		UTC().
		Format(time.RFC3339)
}

func NowUTC() int64 {
	return time.Now().
		UTC().
		UnixMilli()
}

// ParseClock parses a "15:04" wall-clock value into minutes since midnight.
func ParseClock(clock string) (int, error) {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock is the inverse of ParseClock.
func FormatClock(minutes int) string {
	return time.Date(0, 1, 1, 0, minutes, 0, 0, time.UTC).Format(clockLayout)
}

// MinutesBetween returns end - start in minutes. Errors on malformed
// clocks; a non-positive span is the caller's problem to reject.
func MinutesBetween(start, end string) (int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, errors.New("start time is not a valid HH:MM clock")
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, errors.New("end time is not a valid HH:MM clock")
	}
	return e - s, nil
}

// IsQuarterAligned checks if a clock value sits on the 15-minute grid
// (minutes 0, 15, 30 or 45).
func IsQuarterAligned(clock string) bool {
	minutes, err := ParseClock(clock)
	if err != nil {
		return false
	}
	return minutes%15 == 0
}

func IsValidDate(date string) bool {
	_, err := time.Parse(dateLayout, date)
	return err == nil
}

func Sanitize(o any) {
	v := reflect.ValueOf(o)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		panic("sanitize: expected pointer to struct")
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		panic("sanitize: expected struct")
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(sanitizeString(field.String()))

		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				for j := 0; j < field.Len(); j++ {
					field.Index(j).SetString(sanitizeString(field.Index(j).String()))
				}
			}
		}
	}
}

func sanitizeString(s string) string {
	return strings.TrimSpace(s)
}
