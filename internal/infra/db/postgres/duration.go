package postgres

import "time"

// Enrolment periods are stored as whole seconds.

func secondsToDuration(s int64) time.Duration { return time.Duration(s) * time.Second }

func durationToSeconds(d time.Duration) int64 { return int64(d / time.Second) }
