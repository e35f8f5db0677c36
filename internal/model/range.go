// Package model defines the data types shared by the dashboard pipeline.
package model

import (
	"errors"
	"strings"
)

// ErrInvalidRange indicates a SheetRange without a spreadsheet or A1 range.
var ErrInvalidRange = errors.New("invalid sheet range")

// SheetRange identifies a rectangular region of a spreadsheet.
type SheetRange struct {
	SpreadsheetID string `json:"spreadsheet_id" yaml:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	Range         string `json:"range" yaml:"range" mapstructure:"range"`
}

// NewSheetRange builds a SheetRange from a spreadsheet id and an A1 range.
func NewSheetRange(spreadsheetID, a1 string) SheetRange {
	return SheetRange{
		SpreadsheetID: strings.TrimSpace(spreadsheetID),
		Range:         strings.TrimSpace(a1),
	}
}

// Validate checks that both parts are present.
func (r SheetRange) Validate() error {
	if r.SpreadsheetID == "" {
		return errors.Join(ErrInvalidRange, errors.New("spreadsheet id is empty"))
	}
	if r.Range == "" {
		return errors.Join(ErrInvalidRange, errors.New("range is empty"))
	}
	return nil
}

// SheetName returns the tab name of the range, or "" when the range has none.
func (r SheetRange) SheetName() string {
	name, _, found := strings.Cut(r.Range, "!")
	if !found {
		return ""
	}
	return strings.Trim(name, "'")
}

// String returns the cache key for the range.
func (r SheetRange) String() string {
	return r.SpreadsheetID + "/" + r.Range
}
