// Package utils provides type conversion helpers for loosely-typed cell
// values coming from the spreadsheet reader.
package utils
