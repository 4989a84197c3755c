package reports

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

const (
	EncodingUTF8     = "utf-8"
	EncodingShiftJIS = "sjis"
)

// fixed column order expected by the report consumers
var csvHeader = []string{
	"Employee ID", "Name", "Email", "Department",
	"Date", "Check In", "Check Out", "Status", "Total Hours",
}

func buildCSV(rows []TeamRecord, loc *time.Location) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		checkIn := r.CheckInTime.In(loc).Format("15:04:05")
		checkOut := ""
		if r.CheckOutTime != nil {
			checkOut = r.CheckOutTime.In(loc).Format("15:04:05")
		}
		hours := ""
		if r.TotalHours != nil {
			hours = strconv.FormatFloat(*r.TotalHours, 'f', 2, 64)
		}
		record := []string{
			r.EmployeeID, r.Name, r.Email, r.Department,
			r.Day, checkIn, checkOut, r.Status, hours,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// encodeCP932 transcodes the UTF-8 CSV to Shift_JIS, the "ANSI" encoding
// Excel expects on Japanese Windows.
func encodeCP932(utf8 []byte) ([]byte, error) {
	var b bytes.Buffer
	w := transform.NewWriter(&b, japanese.ShiftJIS.NewEncoder())
	if _, err := w.Write(utf8); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
