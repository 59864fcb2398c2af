// Package model defines the generic objects managed by the hbnb console.
//
// A Model keeps every field, including its identity and timestamps, in a
// single ordered attribute mapping so that updates can address any field by
// name. Accessors are provided for the well-known fields.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Well-known field names.
const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
	FieldClassName = "class_name"
)

// TimeFormat is the wire format of created_at and updated_at.
const TimeFormat = "2006-01-02T15:04:05.000000"

var (
	// ErrUnknownClass is returned for class names outside the whitelist.
	ErrUnknownClass = errors.New("unknown class")

	// ErrMalformedRecord is returned when a record cannot be reconstructed.
	ErrMalformedRecord = errors.New("malformed record")
)

// MalformedRecordError describes why a stored record was rejected.
type MalformedRecordError struct {
	Field  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record: %s %s", e.Field, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}

// now is replaced in tests.
var now = time.Now

// Model is a generic object identified by class name and id.
type Model struct {
	class string
	attrs *Record
}

func newInstance(class string) *Model {
	m := &Model{class: class, attrs: NewRecord()}
	ts := clock()
	m.attrs.Set(FieldID, uuid.New().String())
	m.attrs.Set(FieldCreatedAt, ts)
	m.attrs.Set(FieldUpdatedAt, ts)
	m.attrs.Set(FieldClassName, class)
	return m
}

// New creates a fresh instance of class with a new id and current timestamps.
func New(class string) (*Model, error) {
	factory, ok := Lookup(class)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, class)
	}
	return factory(), nil
}

// Reconstruct rebuilds a Model from its record. Timestamps are parsed from
// TimeFormat; they are never regenerated.
func Reconstruct(rec *Record) (*Model, error) {
	if rec == nil {
		return nil, &MalformedRecordError{Field: FieldClassName, Reason: "is missing"}
	}

	class, err := stringField(rec, FieldClassName)
	if err != nil {
		return nil, err
	}
	if !IsClass(class) {
		return nil, &MalformedRecordError{Field: FieldClassName, Reason: fmt.Sprintf("%q is not a supported class", class)}
	}
	if _, err := stringField(rec, FieldID); err != nil {
		return nil, err
	}

	attrs := rec.Clone()
	for _, field := range []string{FieldCreatedAt, FieldUpdatedAt} {
		raw, err := stringField(rec, field)
		if err != nil {
			return nil, err
		}
		ts, err := time.Parse(TimeFormat, raw)
		if err != nil {
			return nil, &MalformedRecordError{Field: field, Reason: fmt.Sprintf("%q does not match %s", raw, TimeFormat)}
		}
		attrs.Set(field, ts)
	}

	return &Model{class: class, attrs: attrs}, nil
}

func stringField(rec *Record, field string) (string, error) {
	v, ok := rec.Get(field)
	if !ok {
		return "", &MalformedRecordError{Field: field, Reason: "is missing"}
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", &MalformedRecordError{Field: field, Reason: "is not a string"}
	}
	return s, nil
}

// clock returns the current time in UTC at the precision of TimeFormat.
func clock() time.Time {
	return now().UTC().Truncate(time.Microsecond)
}

// ClassName returns the class the instance was created as.
func (m *Model) ClassName() string {
	return m.class
}

// ID returns the current value of the id field.
func (m *Model) ID() string {
	v, _ := m.attrs.Get(FieldID)
	return fmt.Sprint(v)
}

// CreatedAt returns created_at when it still holds a timestamp.
func (m *Model) CreatedAt() (time.Time, bool) {
	return m.timeField(FieldCreatedAt)
}

// UpdatedAt returns updated_at when it still holds a timestamp.
func (m *Model) UpdatedAt() (time.Time, bool) {
	return m.timeField(FieldUpdatedAt)
}

func (m *Model) timeField(field string) (time.Time, bool) {
	v, ok := m.attrs.Get(field)
	if !ok {
		return time.Time{}, false
	}
	ts, ok := v.(time.Time)
	return ts, ok
}

// Get returns the raw value of an attribute.
func (m *Model) Get(name string) (any, bool) {
	return m.attrs.Get(name)
}

// Touch refreshes updated_at. The new value is always strictly later than
// the previous one, even when the clock has not advanced.
func (m *Model) Touch() {
	ts := clock()
	if prev, ok := m.UpdatedAt(); ok && !ts.After(prev) {
		ts = prev.Add(time.Microsecond)
	}
	m.attrs.Set(FieldUpdatedAt, ts)
}

// Set stores value under name as a literal string and touches the instance.
// Any field may be overwritten this way, id and timestamps included, except
// class_name which is fixed at creation.
func (m *Model) Set(name, value string) {
	if name != FieldClassName {
		m.attrs.Set(name, value)
	}
	m.Touch()
}

// Record returns the persisted form: all attributes in order, timestamps
// rendered with TimeFormat.
func (m *Model) Record() *Record {
	rec := NewRecord()
	for _, k := range m.attrs.Keys() {
		v, _ := m.attrs.Get(k)
		if ts, ok := v.(time.Time); ok {
			v = ts.Format(TimeFormat)
		}
		rec.Set(k, v)
	}
	if _, ok := rec.Get(FieldClassName); !ok {
		rec.Set(FieldClassName, m.class)
	}
	return rec
}

// String renders the instance as "[Class] (id) {field: value, ...}".
func (m *Model) String() string {
	rec := m.Record()
	fields := make([]string, 0, rec.Len())
	for _, k := range rec.Keys() {
		v, _ := rec.Get(k)
		fields = append(fields, k+": "+formatValue(v))
	}
	return fmt.Sprintf("[%s] (%s) {%s}", m.class, m.ID(), strings.Join(fields, ", "))
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(val, "'", `\'`) + "'"
	case nil:
		return "null"
	default:
		return fmt.Sprint(val)
	}
}
