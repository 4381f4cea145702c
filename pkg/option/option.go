package option

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

var nullLiteral = []byte("null")

// Option holds a value that may be absent. The zero value is None.
type Option[T any] struct {
	value T
	valid bool
}

func Some[T any](value T) Option[T] {
	return Option[T]{value: value, valid: true}
}

func None[T any]() Option[T] {
	return Option[T]{}
}

func (o Option[T]) Get() (T, bool) {
	return o.value, o.valid
}

func (o Option[T]) IsSome() bool {
	return o.valid
}

func (o Option[T]) IsNone() bool {
	return !o.valid
}

func (o Option[T]) OrElse(fallback T) T {
	if !o.valid {
		return fallback
	}

	return o.value
}

func (o Option[T]) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return nullLiteral, nil
	}

	return json.Marshal(o.value)
}

func (o *Option[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), nullLiteral) {
		*o = None[T]()
		return nil
	}

	var value T

	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	*o = Some(value)
	return nil
}

// Scan implements sql.Scanner for the column types the repositories use.
func (o *Option[T]) Scan(src any) error {
	if src == nil {
		*o = None[T]()
		return nil
	}

	if v, ok := src.(T); ok {
		*o = Some(v)
		return nil
	}

	var target T

	switch dst := any(&target).(type) {
	case *string:
		switch s := src.(type) {
		case []byte:
			*dst = string(s)
		default:
			return fmt.Errorf("option: cannot scan %T into string", src)
		}
	case *time.Time:
		var raw string

		switch s := src.(type) {
		case string:
			raw = s
		case []byte:
			raw = string(s)
		default:
			return fmt.Errorf("option: cannot scan %T into time.Time", src)
		}

		parsed, err := parseTime(raw)

		if err != nil {
			return err
		}

		*dst = parsed
	default:
		return fmt.Errorf("option: cannot scan %T into %T", src, target)
	}

	*o = Some(target)
	return nil
}

func (o Option[T]) Value() (driver.Value, error) {
	if !o.valid {
		return nil, nil
	}

	return driver.DefaultParameterConverter.ConvertValue(o.value)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

func parseTime(raw string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("option: unrecognized time %q", raw)
}
