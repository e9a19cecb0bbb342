package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultXField = "sqft_living"
	DefaultYField = "price"
)

// ErrMissingValue is returned when converting a Value whose field was absent.
var ErrMissingValue = errors.New("ingest: value missing")

// Value is one coordinate of a Point: the raw field text as parsed and
// whether the field existed. The zero Value is the missing sentinel.
type Value struct {
	Raw     string
	Present bool
}

// ValueOf returns a present Value holding raw.
func ValueOf(raw string) Value {
	return Value{Raw: raw, Present: true}
}

// String returns the raw text, or "<missing>".
func (v Value) String() string {
	if !v.Present {
		return "<missing>"
	}
	return v.Raw
}

// Float64 parses the raw text as a number. Surrounding spaces are ignored.
func (v Value) Float64() (float64, error) {
	if !v.Present {
		return 0, ErrMissingValue
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Raw), 64)
	if err != nil {
		return 0, fmt.Errorf("ingest: value %q is not numeric: %w", v.Raw, err)
	}
	return f, nil
}

// Point is the (x, y) pair projected from one Record.
type Point struct {
	X Value
	Y Value
}

// Complete reports whether both coordinates are present.
func (p Point) Complete() bool {
	return p.X.Present && p.Y.Present
}

// Float64 returns both coordinates as numbers.
func (p Point) Float64() (x, y float64, err error) {
	if x, err = p.X.Float64(); err != nil {
		return 0, 0, err
	}
	if y, err = p.Y.Float64(); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// Projection names the record fields used for X and Y.
type Projection struct {
	XField string
	YField string
}

// DefaultProjection maps sqft_living to X and price to Y.
func DefaultProjection() Projection {
	return Projection{XField: DefaultXField, YField: DefaultYField}
}

// Apply projects each record into a Point. Point i derives from record i.
// A field absent from a record gives a missing Value; no conversion or
// validation is done.
func (p Projection) Apply(records []Record) []Point {
	points := make([]Point, len(records))
	for i, rec := range records {
		points[i] = Point{X: lookup(rec, p.XField), Y: lookup(rec, p.YField)}
	}
	return points
}

// Project applies DefaultProjection to records.
func Project(records []Record) []Point {
	return DefaultProjection().Apply(records)
}

func lookup(rec Record, field string) Value {
	raw, ok := rec.Get(field)
	if !ok {
		return Value{}
	}
	return ValueOf(raw)
}
