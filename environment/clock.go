package environment

// Clock derives the hour of day from the tick counter.
type Clock struct {
	HoursPerDay int
	DayStart    int // first day hour, inclusive
	DayEnd      int // last day hour, inclusive
}

// DefaultClock is a 24-tick day with daylight from hour 7 through 18.
func DefaultClock() Clock {
	return Clock{HoursPerDay: 24, DayStart: 7, DayEnd: 18}
}

// Hour returns tick mod HoursPerDay.
func (c Clock) Hour(tick int) int {
	if c.HoursPerDay <= 0 {
		return 0
	}
	h := tick % c.HoursPerDay
	if h < 0 {
		h += c.HoursPerDay
	}
	return h
}

// IsDay reports whether tick falls in daylight.
func (c Clock) IsDay(tick int) bool {
	h := c.Hour(tick)
	return h >= c.DayStart && h <= c.DayEnd
}
