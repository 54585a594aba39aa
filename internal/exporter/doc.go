// Package exporter writes analysis snapshots to disk.
//
// Snapshots come in two formats. CSV files carry a UTF-8 BOM option for
// Excel compatibility and support both buffered and streaming writes.
// Parquet files use typed row schemas for the cleaned transaction table
// and the timeseries spend totals.
package exporter
