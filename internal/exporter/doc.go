// Package exporter persists the processed tables.
//
// Tables are converted to a Frame, a typed column list plus rows of plain Go
// values, and handed to one Writer per configured format:
//
//   - CSVWriter: <dir>/<table>.csv, snappy framed as <table>.csv.sz when
//     compression is enabled
//   - XLSXWriter: one workbook, one sheet per table
//   - SQLiteWriter: one database file, one table per frame, indexed on keys
//   - ArrowWriter: <dir>/<table>.arrow IPC files
//
// Example usage:
//
//	writers, err := exporter.NewWriters(cfg.Output, paths.OutputDir, logger)
//	if err != nil {
//		return err
//	}
//	files, err := exporter.Export(ctx, writers, exporter.DatasetFrames(ds), metrics)
package exporter
