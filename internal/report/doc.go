// Package report runs the full analysis pipeline and collects its outcome.
//
// A run loads the raw snapshot, profiles missingness, cleans and
// classifies the data, renders charts, computes spend aggregates and
// writes the result snapshots. Each stage logs its elapsed time.
package report
