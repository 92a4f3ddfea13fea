package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05Z"
)

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDateTime accepts ISO-8601 date-times with or without an offset. Values
// without an offset are read as UTC.
func ParseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date-time %q", value)
}

// ParseDate accepts a calendar date, or a date-time whose date part is used.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	if t, err := ParseDateTime(value); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// Date is a calendar date stored as YYYY-MM-DD.
type Date string

func NewDate(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

func (d Date) String() string { return string(d) }

func (d Date) Time() (time.Time, error) {
	return time.Parse(DateLayout, string(d))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var raw *string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		*d = ""
		return nil
	}
	t, err := ParseDate(*raw)
	if err != nil {
		return err
	}
	*d = NewDate(t)
	return nil
}

func (d Date) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	return string(d), nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = ""
		return nil
	case time.Time:
		*d = Date(v.UTC().Format(DateLayout))
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	}
	return fmt.Errorf("cannot scan %T into Date", src)
}

func (d *Date) scanString(v string) error {
	t, err := ParseDate(v)
	if err != nil {
		return err
	}
	*d = NewDate(t)
	return nil
}

// DateTime is an instant stored as an RFC 3339 UTC string.
type DateTime string

func NewDateTime(t time.Time) DateTime {
	return DateTime(t.UTC().Truncate(time.Second).Format(DateTimeLayout))
}

func (d DateTime) String() string { return string(d) }

func (d DateTime) Time() (time.Time, error) {
	return ParseDateTime(string(d))
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	var raw *string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("date-time must be a string: %w", err)
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		*d = ""
		return nil
	}
	t, err := ParseDateTime(*raw)
	if err != nil {
		return err
	}
	*d = NewDateTime(t)
	return nil
}

func (d DateTime) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	return string(d), nil
}

func (d *DateTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = ""
		return nil
	case time.Time:
		*d = NewDateTime(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	}
	return fmt.Errorf("cannot scan %T into DateTime", src)
}

func (d *DateTime) scanString(v string) error {
	t, err := ParseDateTime(v)
	if err != nil {
		return err
	}
	*d = NewDateTime(t)
	return nil
}

// Patch collects the non-nil pointer fields of an update payload into a
// column map keyed by their json names.
func Patch(input any) map[string]any {
	patch := make(map[string]any)
	v := reflect.Indirect(reflect.ValueOf(input))
	if v.Kind() != reflect.Struct {
		return patch
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		value := v.Field(i)
		if value.Kind() != reflect.Pointer || value.IsNil() {
			continue
		}
		patch[name] = value.Elem().Interface()
	}
	return patch
}
