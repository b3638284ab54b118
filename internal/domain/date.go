package domain

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// textLayouts are tried in order for non-numeric date cells. Month-first is
// tried before day-first, so ambiguous values like 03/04/2010 read as March 4.
var textLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"01-02-06",
}

// maxExcelSerial is the serial of 10000-01-01, one past the last date Excel stores.
const maxExcelSerial = 2958466

// ParseDate converts a DATE cell to a Date. It never fails: unparseable and
// zero-filled cells yield the missing-date marker.
func ParseDate(c Cell) Date {
	if c.Filled {
		return Date{}
	}
	s := strings.TrimSpace(c.Text)
	if s == "" || s == ZeroFill {
		return Date{}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(serial) || math.IsInf(serial, 0) || serial <= 0 || serial >= maxExcelSerial {
			return Date{}
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return Date{}
		}
		return Date{Time: t.UTC(), Valid: true}
	}

	for _, layout := range textLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t.UTC(), Valid: true}
		}
	}
	return Date{}
}
