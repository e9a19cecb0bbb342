package ingest

import (
	"iter"
	"maps"
	"slices"
	"strconv"
)

// Record is one parsed row keyed by column name. Keys keep the order in
// which the row introduced them. Records are never modified after parsing.
type Record struct {
	fields map[string]string
	keys   []string
}

// NewRecord builds a Record from a header and one row. Cells past the
// header width are stored under "_<index>", with further leading
// underscores added while that name is already taken by a header column.
// Header columns missing from a short row are absent. A repeated header
// name keeps its first position and its last value.
func NewRecord(header, row []string) Record {
	r := Record{
		fields: make(map[string]string, len(row)),
		keys:   make([]string, 0, len(row)),
	}
	for i, value := range row {
		var key string
		if i < len(header) {
			key = header[i]
		} else {
			key = "_" + strconv.Itoa(i)
			for _, taken := r.fields[key]; taken; _, taken = r.fields[key] {
				key = "_" + key
			}
		}
		if _, seen := r.fields[key]; !seen {
			r.keys = append(r.keys, key)
		}
		r.fields[key] = value
	}
	return r
}

// Get returns the value stored under name and whether it was present.
func (r Record) Get(name string) (string, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Len returns the number of fields in the record.
func (r Record) Len() int {
	return len(r.keys)
}

// Keys returns the field names in row order.
func (r Record) Keys() []string {
	return slices.Clone(r.keys)
}

// Fields returns a copy of the record as a map.
func (r Record) Fields() map[string]string {
	return maps.Clone(r.fields)
}

// Dataset is the ordered result of one ingestion run.
type Dataset struct {
	source   string
	format   string
	header   []string
	records  []Record
	checksum string
	bytes    int64
}

// Source returns the path the dataset was read from.
func (d *Dataset) Source() string { return d.source }

// Format returns "csv" or "xlsx".
func (d *Dataset) Format() string { return d.format }

// Header returns the column names from the first row of the input.
func (d *Dataset) Header() []string { return slices.Clone(d.header) }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// At returns the i-th record in file order.
func (d *Dataset) At(i int) Record { return d.records[i] }

// Records returns the records in file order. The slice is a copy.
func (d *Dataset) Records() []Record { return slices.Clone(d.records) }

// All iterates over the records in file order.
func (d *Dataset) All() iter.Seq2[int, Record] {
	return slices.All(d.records)
}

// Checksum returns the hex BLAKE2b-256 digest of the bytes read.
func (d *Dataset) Checksum() string { return d.checksum }

// Bytes returns the number of bytes read from the input.
func (d *Dataset) Bytes() int64 { return d.bytes }
