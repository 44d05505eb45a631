package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// Today returns the current calendar date in the local time zone.
func Today() civil.Date {
	return civil.DateOf(time.Now())
}

// AdvanceDate moves d forward by the given number of years and pins the result
// to the first day of the month after d's month.
//
// AdvanceDate(2021-03-15, 3) is 2024-04-01.
func AdvanceDate(d civil.Date, years int) civil.Date {
	year, month := d.Year+years, d.Month+1
	if month > time.December {
		year, month = year+1, time.January
	}

	return civil.Date{Year: year, Month: month, Day: 1}
}

func orToday(d civil.Date) civil.Date {
	if d.IsZero() {
		return Today()
	}

	return d
}
