package date

import "time"

// Clock supplies the current calendar day.
type Clock interface {
	Today() Date
}

// SystemClock reads the wall clock in the given location.
type SystemClock struct {
	Location *time.Location
}

// Today returns the current day in the clock's location.
func (c SystemClock) Today() Date {
	now := time.Now()
	if c.Location != nil {
		now = now.In(c.Location)
	}
	return New(now)
}

// FixedClock always returns the same day.
type FixedClock struct {
	Day Date
}

func (c FixedClock) Today() Date {
	return c.Day
}
