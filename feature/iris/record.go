package iris

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// Record is one row of the iris table.
type Record struct {
	SepalLength float64 `csv:"sepal_length" json:"sepal_length"`
	SepalWidth  float64 `csv:"sepal_width" json:"sepal_width"`
	PetalLength float64 `csv:"petal_length" json:"petal_length"`
	PetalWidth  float64 `csv:"petal_width" json:"petal_width"`
	Species     string  `csv:"species" json:"species"`
}

// Table is an in-memory iris table.
type Table []Record

// SampleRecord is the single row the write task stores.
func SampleRecord() Record {
	return Record{
		SepalLength: 5.3,
		SepalWidth:  3.8,
		PetalLength: 0.1,
		PetalWidth:  0.3,
		Species:     "setosa",
	}
}

// EncodeCSV serializes t with a header row.
func EncodeCSV(t Table) ([]byte, error) {
	rows := []Record(t)
	if rows == nil {
		rows = []Record{}
	}
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode csv: %w", err)
	}
	return data, nil
}

// DecodeCSV parses a CSV document with a header row into a Table.
func DecodeCSV(r io.Reader) (Table, error) {
	var rows []Record
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode csv: %w", err)
	}
	return Table(rows), nil
}
