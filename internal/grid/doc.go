// Package grid implements the transmittal matrix: a plain string grid with
// two header rows ("Date" and "Issue") that anchor dynamically growing issue
// columns, and drawing rows keyed by the drawing number in their first cell.
//
// The layout is fixed:
//
//	PROJECT:
//
//	DRAWING TRANSMITTAL
//	(7 blank rows)
//	Date        |       | 2024-05-01   | ...
//	Issue       |       | TP (PDF)     | ...
//	Drawing No. | Title |              |
//	A101        |       | B            |
//
// Columns 0 and 1 are the identity prefix (drawing number and title); issue
// columns start at IdentityColumns.
//
// Documents persist as OpenDocument spreadsheets (.ods) or CSV (.csv). Only
// cell text survives a round trip.
package grid
