package domain

import "errors"

var (
	// ErrSourceNotFound means the spreadsheet path does not resolve to a file.
	ErrSourceNotFound = errors.New("source not found")

	// ErrSheetNotFound means the workbook has no sheet with the requested name.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrSchemaMismatch means a table cannot be mapped onto the canonical columns.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrInvalidInput marks operator input that was rejected and re-prompted.
	ErrInvalidInput = errors.New("invalid input")
)
