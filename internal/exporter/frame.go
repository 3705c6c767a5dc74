package exporter

import (
	"fmt"
	"time"
)

// ColumnType is the logical type of a frame column
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeInt
	TypeFloat
	// TypeDate holds calendar dates as time.Time at midnight UTC
	TypeDate
)

func (t ColumnType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeDate:
		return "date"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// Column describes one frame column
type Column struct {
	Name string
	Type ColumnType
}

// Frame is a table ready to be written by any sink. Cell values are string,
// int64, float64, time.Time or nil for null, matching the column type.
type Frame struct {
	Name    string
	Columns []Column
	Rows    [][]any

	// Index lists columns worth indexing in sinks that support it
	Index []string
}

// NewFrame creates an empty frame with capacity for rows
func NewFrame(name string, columns []Column, rows int) *Frame {
	return &Frame{Name: name, Columns: columns, Rows: make([][]any, 0, rows)}
}

// ColumnNames returns the frame header
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		names[i] = c.Name
	}
	return names
}

// Append adds a row. It panics when the row width does not match the
// columns, which is always a programming error in a frame builder.
func (f *Frame) Append(values ...any) {
	if len(values) != len(f.Columns) {
		panic(fmt.Sprintf("frame %s: row has %d values for %d columns", f.Name, len(values), len(f.Columns)))
	}
	f.Rows = append(f.Rows, values)
}

// Validate checks every cell against its column type
func (f *Frame) Validate() error {
	for r, row := range f.Rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			ok := false
			switch f.Columns[c].Type {
			case TypeString:
				_, ok = v.(string)
			case TypeInt:
				_, ok = v.(int64)
			case TypeFloat:
				_, ok = v.(float64)
			case TypeDate:
				_, ok = v.(time.Time)
			}
			if !ok {
				return fmt.Errorf("frame %s row %d column %s: %T is not a %s",
					f.Name, r, f.Columns[c].Name, v, f.Columns[c].Type)
			}
		}
	}
	return nil
}
