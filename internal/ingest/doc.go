// Package ingest extracts retail transactions from Excel workbooks.
//
// Sheets are recognized by probing their first rows for a transaction
// header. Header names vary between workbook vintages, so columns are
// mapped by fuzzy name matching rather than fixed positions. Parsing
// fans out across sheets, and rows that fail to parse are counted and
// skipped rather than aborting the run.
package ingest
