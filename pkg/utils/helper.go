package utils

import (
	"strconv"
	"time"
)

// ParseID converts a path segment to a positive id.
func ParseID(value string) (int64, bool) {
	if value == "" {
		return 0, false
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}

	return id, true
}

// NowMillis is the wall clock in epoch milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
