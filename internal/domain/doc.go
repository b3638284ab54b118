// Package domain models flood (alagamento) event records and the aggregations
// run over them.
//
// # Data Source
//
// Records come from a spreadsheet of flood points logged by the São Paulo
// emergency management center (CGE) between 2007 and 2016. Each row is one
// flooding occurrence at a street location. The header row of the original
// workbook is in Portuguese and is not stable across exports, so columns are
// addressed positionally and renamed to the canonical set:
//
//	DATA       → DATE       calendar date of the occurrence
//	LOCAL      → LOCATION   street or place name, e.g. "Av. do Estado"
//	REFERENCIA → REFERENCE  cross street or landmark
//	SENTIDO    → DIRECTION  traffic direction affected, e.g. "Centro/Bairro"
//	INICIO     → START      time the flooding was reported
//	FIM        → END        time the flooding cleared
//	SITUACAO   → STATUS     passable / impassable
//	SUB        → SUB        city sub-prefecture
//
// # Conventions
//
// Missing cells:
//
//	Empty cells are replaced with the literal "0" when the sheet is loaded.
//	This conflates "absent" with "measured zero"; every filled cell is flagged
//	via [Cell.Filled] so reports can surface how much of a table is synthetic.
//	A zero-filled DATE never parses to a calendar date.
//
// Dates:
//
//	Spreadsheet date cells arrive as Excel serial numbers (days since
//	1899-12-30, fractional part = time of day). Text dates are also accepted
//	in ISO form and in M/D/YYYY (falling back to D/M/YYYY). Anything else
//	becomes the missing-date marker rather than an error. See [ParseDate].
//
// Ranking:
//
//	Locations are ordered by occurrence count, then by their most recent
//	valid date, both descending. Locations whose dates are all missing rank
//	last among equal counts. Remaining ties fall back to the location name.
package domain
