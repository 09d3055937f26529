// Package sii reads and rewrites properties in SII text documents.
//
// SII is the text format used by ETS2 and ATS for save and profile data.
// Properties are single lines of the form "name: value" nested inside unit
// blocks; this package addresses them by name only and leaves the rest of the
// document byte-for-byte intact.
package sii
