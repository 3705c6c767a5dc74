package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	apperrors "github.com/meganhong98/demand-forecasting/internal/errors"
)

// ExtArrow is the extension of Arrow IPC files
const ExtArrow = ".arrow"

// ArrowWriter writes each frame as an Arrow IPC file <dir>/<frame name>.arrow
type ArrowWriter struct {
	dir    string
	mem    memory.Allocator
	logger *slog.Logger
}

// NewArrowWriter creates an Arrow writer for dir
func NewArrowWriter(dir string, logger *slog.Logger) *ArrowWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArrowWriter{dir: dir, mem: memory.NewGoAllocator(), logger: logger}
}

// Format implements Writer
func (w *ArrowWriter) Format() string {
	return "arrow"
}

func arrowType(t ColumnType) arrow.DataType {
	switch t {
	case TypeInt:
		return arrow.PrimitiveTypes.Int64
	case TypeFloat:
		return arrow.PrimitiveTypes.Float64
	case TypeDate:
		return arrow.FixedWidthTypes.Date32
	default:
		return arrow.BinaryTypes.String
	}
}

// ArrowSchema returns the Arrow schema of a frame. Every field is nullable.
func ArrowSchema(f *Frame) *arrow.Schema {
	fields := make([]arrow.Field, len(f.Columns))
	for i, c := range f.Columns {
		fields[i] = arrow.Field{Name: c.Name, Type: arrowType(c.Type), Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

// WriteAll implements Writer
func (w *ArrowWriter) WriteAll(ctx context.Context, frames []*Frame) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, apperrors.NewStorageError("failed to create directory", err)
	}

	written := make([]string, 0, len(frames))
	for _, f := range frames {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		path := filepath.Join(w.dir, f.Name+ExtArrow)
		if err := w.writeFrame(path, f); err != nil {
			return written, apperrors.NewStorageError("failed to write arrow file for "+f.Name, err)
		}
		w.logger.Info("Arrow file written",
			slog.String("table", f.Name),
			slog.String("full_path", path),
			slog.Int("record_count", len(f.Rows)))
		written = append(written, path)
	}
	return written, nil
}

func (w *ArrowWriter) writeFrame(path string, f *Frame) error {
	schema := ArrowSchema(f)

	rec, err := w.buildRecord(schema, f)
	if err != nil {
		return err
	}
	defer rec.Release()

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	fw, err := ipc.NewFileWriter(out, ipc.WithSchema(schema), ipc.WithAllocator(w.mem))
	if err != nil {
		return err
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return err
	}
	if err := fw.Close(); err != nil {
		return err
	}
	return out.Close()
}

func (w *ArrowWriter) buildRecord(schema *arrow.Schema, f *Frame) (arrow.Record, error) {
	rb := array.NewRecordBuilder(w.mem, schema)
	defer rb.Release()

	for i := range f.Columns {
		fb := rb.Field(i)
		fb.Reserve(len(f.Rows))
		for _, row := range f.Rows {
			v := row[i]
			if v == nil {
				fb.AppendNull()
				continue
			}
			switch b := fb.(type) {
			case *array.StringBuilder:
				b.Append(v.(string))
			case *array.Int64Builder:
				b.Append(v.(int64))
			case *array.Float64Builder:
				b.Append(v.(float64))
			case *array.Date32Builder:
				b.Append(arrow.Date32FromTime(v.(time.Time)))
			default:
				return nil, fmt.Errorf("unsupported arrow builder %T", fb)
			}
		}
	}
	return rb.NewRecord(), nil
}
