// Package results renders a completed simulation run into the on-disk
// report formats described in §6: a per-worker results text file, an
// optional extraction map, a cross-worker summary file, and the
// test-specific transient CSVs (time-of-flight, dynamics).
package results
