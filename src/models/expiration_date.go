package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jiaming2012/optionstrat/src/positive"
)

const DaysInYear = 365

var daysInYear = decimal.NewFromInt(DaysInYear)

type expirationKind int

const (
	expirationDays expirationKind = iota
	expirationAbsolute
)

// ExpirationDate is either a number of days to expiry or an absolute timestamp.
type ExpirationDate struct {
	kind     expirationKind
	days     positive.Positive
	datetime time.Time
}

func Days(days positive.Positive) ExpirationDate {
	return ExpirationDate{kind: expirationDays, days: days}
}

func Absolute(t time.Time) ExpirationDate {
	return ExpirationDate{kind: expirationAbsolute, datetime: t}
}

func (e ExpirationDate) IsAbsolute() bool {
	return e.kind == expirationAbsolute
}

// GetDays returns the remaining days, measuring absolute dates against time.Now.
func (e ExpirationDate) GetDays() positive.Positive {
	return e.GetDaysAt(time.Now())
}

func (e ExpirationDate) GetDaysAt(now time.Time) positive.Positive {
	if e.kind == expirationDays {
		return e.days
	}

	hours := decimal.NewFromFloat(e.datetime.Sub(now).Hours())
	return positive.Clamp(hours.Div(decimal.NewFromInt(24)))
}

func (e ExpirationDate) GetYears() positive.Positive {
	return positive.MustNew(e.GetDays().Decimal().Div(daysInYear))
}

func (e ExpirationDate) GetDate(now time.Time) time.Time {
	if e.kind == expirationAbsolute {
		return e.datetime
	}

	return now.Add(time.Duration(e.days.Float64() * 24 * float64(time.Hour)))
}

func (e ExpirationDate) Equal(o ExpirationDate) bool {
	if e.kind != o.kind {
		return false
	}

	if e.kind == expirationDays {
		return e.days.Equal(o.days)
	}

	return e.datetime.Equal(o.datetime)
}

func (e ExpirationDate) String() string {
	if e.kind == expirationAbsolute {
		return e.datetime.Format(time.RFC3339)
	}

	return fmt.Sprintf("%sd", e.days.RoundTo(2))
}

type expirationDateDTO struct {
	Days     *positive.Positive `json:"days,omitempty"`
	DateTime *time.Time         `json:"datetime,omitempty"`
}

func (e ExpirationDate) MarshalJSON() ([]byte, error) {
	if e.kind == expirationAbsolute {
		return json.Marshal(expirationDateDTO{DateTime: &e.datetime})
	}

	return json.Marshal(expirationDateDTO{Days: &e.days})
}

func (e *ExpirationDate) UnmarshalJSON(data []byte) error {
	var dto expirationDateDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return fmt.Errorf("ExpirationDate.UnmarshalJSON: %w", err)
	}

	switch {
	case dto.Days != nil:
		*e = Days(*dto.Days)
	case dto.DateTime != nil:
		*e = Absolute(*dto.DateTime)
	default:
		return fmt.Errorf("ExpirationDate.UnmarshalJSON: expected days or datetime")
	}

	return nil
}
