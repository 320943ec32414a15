package utils

import "time"

// UK-style formats used in user-facing messages and emails.
func FormatDateUK(t time.Time) string {
	return t.Format("02/01/2006")
}

func FormatDateTimeUK(t time.Time) string {
	return t.Format("02/01/2006, 15:04")
}

func FormatTimeUK(t time.Time) string {
	return t.Format("15:04")
}
