// Package fbs holds the flatbuffers accessors of the table payload (see ktable.fbs) and
// forward-order helpers for building vectors.
//
// Flatbuffers vectors are written back to front. The helpers in push.go take values in row
// order and hide the reversal, so callers never iterate backwards themselves.
package fbs
