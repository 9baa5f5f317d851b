package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidInterval = errors.New("invalid interval: start must be before end")

// TimeOfDay локальное время суток в минутах от полуночи.
// В базе хранится в колонке TIME.
type TimeOfDay int

// ParseTimeOfDay разбирает время в формате "HH:MM"
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("parse time of day %q: out of range", s)
	}
	return TimeOfDay(h*60 + m), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// MarshalJSON отдаёт время строкой "HH:MM"
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON принимает время строкой "HH:MM"
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("unmarshal time of day: expected string, got %s", s)
	}
	parsed, err := ParseTimeOfDay(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value сериализует время для колонки TIME
func (t TimeOfDay) Value() (driver.Value, error) {
	return fmt.Sprintf("%02d:%02d:00", t.Hour(), t.Minute()), nil
}

// Scan читает значение колонки TIME
func (t *TimeOfDay) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		return t.Scan(string(v))
	case time.Time:
		*t = TimeOfDay(v.Hour()*60 + v.Minute())
		return nil
	case int64:
		// микросекунды от полуночи (бинарный формат TIME)
		*t = TimeOfDay(v / int64(time.Minute/time.Microsecond))
		return nil
	default:
		return fmt.Errorf("scan time of day: unsupported type %T", src)
	}
}

// DayInterval полуоткрытый интервал [Start, End) в конкретную дату
type DayInterval struct {
	Date  time.Time
	Start TimeOfDay
	End   TimeOfDay
}

// NewDayInterval создаёт интервал, дата нормализуется до полуночи UTC
func NewDayInterval(date time.Time, start, end TimeOfDay) (DayInterval, error) {
	if start >= end {
		return DayInterval{}, ErrInvalidInterval
	}
	return DayInterval{Date: NormalizeDate(date), Start: start, End: end}, nil
}

// Overlaps проверяет пересечение: одна и та же дата и каждый интервал
// начинается строго раньше конца другого. Смежные интервалы
// (End == other.Start) не пересекаются.
func (i DayInterval) Overlaps(o DayInterval) bool {
	if !i.Date.Equal(o.Date) {
		return false
	}
	return i.Start < o.End && o.Start < i.End
}

func (i DayInterval) String() string {
	return fmt.Sprintf("%s %s-%s", i.Date.Format("2006-01-02"), i.Start, i.End)
}

// NormalizeDate отбрасывает время суток, оставляя календарную дату в UTC
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
