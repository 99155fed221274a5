// Package apperr defines shared error sentinels for krwhois.
// It is a leaf package with no internal imports, allowing any package
// (including low-level parsers like whoisxml) to use the sentinels
// without creating import cycles.
package apperr
