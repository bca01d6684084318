package convert

import (
	"fmt"
	"reflect"
	"time"

	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/ktype"
)

const (
	secondsPerDay = 86400
	nanosPerDay   = secondsPerDay * int64(time.Second)
)

// LocalTime is a time of day without a date or zone, in nanoseconds since midnight.
type LocalTime int64

// NewLocalTime returns the time of day h:m:s.ns.
func NewLocalTime(h, m, s, ns int) LocalTime {
	return LocalTime(int64(h)*int64(time.Hour) + int64(m)*int64(time.Minute) +
		int64(s)*int64(time.Second) + int64(ns))
}

func (t LocalTime) String() string {
	d := time.Duration(t)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	ns := d % time.Second

	return fmt.Sprintf("%02d:%02d:%02d.%09d", h, m, s, ns)
}

// LocalDate is a calendar date without a time or zone.
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

func (d LocalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// EpochDay returns the number of days since 1970-01-01.
func (d LocalDate) EpochDay() int64 {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

// LocalDateFromEpochDay is the inverse of LocalDate.EpochDay.
func LocalDateFromEpochDay(day int64) LocalDate {
	t := time.Unix(day*secondsPerDay, 0).UTC()
	return LocalDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// RegisterDatetime registers the date and time converters on r.
func RegisterDatetime(r *Registry) {
	register := func(tag, name string, conv ValueConverter, host reflect.Type) {
		storage, _ := ktype.DatetimeStorage(tag)
		r.MustRegister(tag, conv, WithValueType(host), WithDataType(name), WithStorage(storage))
	}

	register(ktype.LocalTimeTag, "Local Time", localTimeConverter{}, reflect.TypeFor[LocalTime]())
	register(ktype.LocalDateTag, "Local Date", localDateConverter{}, reflect.TypeFor[LocalDate]())
	register(ktype.LocalDateTimeTag, "Local Date Time", localDateTimeConverter{}, reflect.TypeFor[time.Time]())
	register(ktype.DurationTag, "Duration", durationConverter{}, reflect.TypeFor[time.Duration]())
	register(ktype.ZonedDateTimeTag, "Zoned Date Time", zonedDateTimeConverter{}, reflect.TypeFor[time.Time]())
}

type localTimeConverter struct{}

func (localTimeConverter) NeedsConversion() bool { return true }

func (localTimeConverter) Encode(value any) (any, error) {
	t, ok := value.(LocalTime)
	if !ok {
		return nil, unexpected("LocalTime", value)
	}
	if t < 0 || int64(t) >= nanosPerDay {
		return nil, fmt.Errorf("local time %d out of range", int64(t))
	}

	return int64(t), nil
}

func (localTimeConverter) Decode(value any) (any, error) {
	n, err := asInt64(value)
	if err != nil {
		return nil, err
	}

	return LocalTime(n), nil
}

type localDateConverter struct{}

func (localDateConverter) NeedsConversion() bool { return true }

func (localDateConverter) Encode(value any) (any, error) {
	d, ok := value.(LocalDate)
	if !ok {
		return nil, unexpected("LocalDate", value)
	}

	return d.EpochDay(), nil
}

func (localDateConverter) Decode(value any) (any, error) {
	n, err := asInt64(value)
	if err != nil {
		return nil, err
	}

	return LocalDateFromEpochDay(n), nil
}

// splitTime returns the epoch day and nano of day of the wall clock of t.
func splitTime(t time.Time) (day, nanoOfDay int64) {
	_, offset := t.Zone()
	secs := t.Unix() + int64(offset)
	day = floorDiv(secs, secondsPerDay)
	nanoOfDay = (secs-day*secondsPerDay)*int64(time.Second) + int64(t.Nanosecond())

	return day, nanoOfDay
}

func joinTime(day, nanoOfDay int64, loc *time.Location) time.Time {
	return time.Unix(day*secondsPerDay, nanoOfDay).In(loc)
}

type localDateTimeConverter struct{}

func (localDateTimeConverter) NeedsConversion() bool { return true }

// CanConvert accepts times in UTC only; other zones are zoned date times.
func (localDateTimeConverter) CanConvert(value any) bool {
	t, ok := value.(time.Time)
	return ok && t.Location() == time.UTC
}

func (localDateTimeConverter) Encode(value any) (any, error) {
	t, ok := value.(time.Time)
	if !ok {
		return nil, unexpected("time.Time", value)
	}
	day, nanos := splitTime(t.UTC())

	return []any{day, nanos}, nil
}

func (localDateTimeConverter) Decode(value any) (any, error) {
	fields, err := asFields(value, 2)
	if err != nil {
		return nil, err
	}
	day, err := asInt64(fields[0])
	if err != nil {
		return nil, err
	}
	nanos, err := asInt64(fields[1])
	if err != nil {
		return nil, err
	}

	return joinTime(day, nanos, time.UTC), nil
}

type durationConverter struct{}

func (durationConverter) NeedsConversion() bool { return true }

func (durationConverter) Encode(value any) (any, error) {
	d, ok := value.(time.Duration)
	if !ok {
		return nil, unexpected("time.Duration", value)
	}
	secs := floorDiv(int64(d), int64(time.Second))
	nanos := int64(d) - secs*int64(time.Second)

	return []any{secs, int32(nanos)}, nil //nolint: gosec
}

func (durationConverter) Decode(value any) (any, error) {
	fields, err := asFields(value, 2)
	if err != nil {
		return nil, err
	}
	secs, err := asInt64(fields[0])
	if err != nil {
		return nil, err
	}
	nanos, err := asInt64(fields[1])
	if err != nil {
		return nil, err
	}

	return time.Duration(secs)*time.Second + time.Duration(nanos), nil
}

type zonedDateTimeConverter struct{}

func (zonedDateTimeConverter) NeedsConversion() bool { return true }

// CanConvert accepts times outside UTC.
func (zonedDateTimeConverter) CanConvert(value any) bool {
	t, ok := value.(time.Time)
	return ok && t.Location() != time.UTC
}

func (zonedDateTimeConverter) Encode(value any) (any, error) {
	t, ok := value.(time.Time)
	if !ok {
		return nil, unexpected("time.Time", value)
	}
	day, nanos := splitTime(t)
	_, offset := t.Zone()

	return []any{day, nanos, int32(offset), t.Location().String()}, nil //nolint: gosec
}

func (zonedDateTimeConverter) Decode(value any) (any, error) {
	fields, err := asFields(value, 4)
	if err != nil {
		return nil, err
	}
	day, err := asInt64(fields[0])
	if err != nil {
		return nil, err
	}
	nanos, err := asInt64(fields[1])
	if err != nil {
		return nil, err
	}
	offset, err := asInt64(fields[2])
	if err != nil {
		return nil, err
	}
	zone, ok := fields[3].(string)
	if !ok {
		return nil, unexpected("string zone id", fields[3])
	}

	// The stored day and nano are wall clock values at the stored offset.
	utc := joinTime(day, nanos, time.UTC).Add(-time.Duration(offset) * time.Second)

	loc, err := time.LoadLocation(zone)
	if err != nil {
		loc = time.FixedZone(zone, int(offset))
	}

	return utc.In(loc), nil
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}

	return q
}

func asInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	default:
		return 0, unexpected("integer", value)
	}
}

func asFields(value any, n int) ([]any, error) {
	fields, ok := value.([]any)
	if !ok || len(fields) != n {
		return nil, fmt.Errorf("%w: expected struct of %d fields, got %T", errs.ErrUnsupportedHostType, n, value)
	}
	for i, f := range fields {
		if f == nil {
			return nil, fmt.Errorf("%w: struct field %d is missing", errs.ErrUnsupportedHostType, i)
		}
	}

	return fields, nil
}

func unexpected(want string, got any) error {
	return fmt.Errorf("%w: expected %s, got %T", errs.ErrUnsupportedHostType, want, got)
}
