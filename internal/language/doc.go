// Package language normalizes the language tags found in media streams and
// renders them for display.
//
// Parsing and display names come from golang.org/x/text, so any ISO 639-1 or
// ISO 639-2 code is understood. ISO 639-2/B bibliographic codes such as "fre"
// and "ger", which Matroska muxers still write, are mapped to their
// terminology forms first.
package language
