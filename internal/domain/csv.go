package domain

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// csvColumns is the fixed export column order. The file format is stable:
// reordering or renaming columns breaks round-tripping with older exports.
var csvColumns = []string{
	"video_id",
	"video_title",
	"channel_name",
	"timestamp_seconds",
	"timestamp_hh_mm_ss",
	"video_url",
	"created_at",
	"video_duration_seconds",
}

// CSVHeader returns the header row of the export format.
func CSVHeader() []string {
	return append([]string(nil), csvColumns...)
}

// ExportFilename builds the download name for a CSV export,
// e.g. "marker-bookmarks-2026-08-30.csv".
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("marker-bookmarks-%s.csv", now.Format("2006-01-02"))
}

// WriteCSV writes the header plus one row per record. Field escaping
// follows RFC 4180 (quotes, commas and newlines survive).
func WriteCSV(w io.Writer, records []BookmarkRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range records {
		duration := ""
		if r.VideoDurationSeconds > 0 {
			duration = strconv.Itoa(r.VideoDurationSeconds)
		}
		row := []string{
			r.VideoID,
			r.VideoTitle,
			r.ChannelName,
			strconv.Itoa(r.TimestampSeconds),
			r.TimestampHHMMSS,
			r.VideoURL,
			r.CreatedAt,
			duration,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses an exported file back into records. Every record gets a
// fresh ID (the format intentionally has no id column). The parse is
// all-or-nothing: any malformed row fails the whole batch with ErrCSVParse.
func ReadCSV(r io.Reader) ([]BookmarkRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvColumns)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrCSVParse)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCSVParse, err)
	}
	if !isCSVHeader(header) {
		return nil, fmt.Errorf("%w: unexpected header %q", ErrCSVParse, strings.Join(header, ","))
	}

	var records []BookmarkRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrCSVParse, line, err)
		}
		records = append(records, recordFromRow(row))
	}
	return records, nil
}

func isCSVHeader(row []string) bool {
	if len(row) != len(csvColumns) {
		return false
	}
	for i, col := range csvColumns {
		if strings.TrimSpace(row[i]) != col {
			return false
		}
	}
	return true
}

// recordFromRow maps one data row to a record. The timestamp column
// defaults to 0 on parse failure or a negative value and the formatted
// string is recomputed from it, so a hand-edited file cannot break the
// formatting or non-negativity invariants. Display fields get the same
// CR stripping as creation, keeping the stored domain CR-free.
func recordFromRow(row []string) BookmarkRecord {
	seconds, err := strconv.Atoi(strings.TrimSpace(row[3]))
	if err != nil || seconds < 0 {
		seconds = 0
	}
	duration := 0
	if v := strings.TrimSpace(row[7]); v != "" {
		if d, err := strconv.Atoi(v); err == nil {
			duration = d
		}
	}
	return BookmarkRecord{
		ID:                   uuid.NewString(),
		VideoID:              row[0],
		VideoTitle:           stripCR(row[1]),
		ChannelName:          stripCR(row[2]),
		TimestampSeconds:     seconds,
		TimestampHHMMSS:      FormatTimestamp(seconds),
		VideoURL:             row[5],
		CreatedAt:            row[6],
		VideoDurationSeconds: duration,
		Watched:              false,
	}
}
