package service

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/h2non/filetype"

	"github.com/creatorpulse/analytics-api/internal/transfer"
)

const maxUploadSize = 50 * 1024 * 1024

// Canonical field mapping for Creator Studio export columns. Headers are
// matched case-insensitively; unrecognized columns are ignored.
var columnMap = map[string]string{
	"content title":                  "title",
	"post id":                        "postID",
	"page name":                      "pageName",
	"post type":                      "postType",
	"publish time":                   "publishTime",
	"duration (sec)":                 "duration",
	"asset id":                       "assetTag",
	"3-second views":                 "views",
	"1-minute views":                 "minuteViews",
	"estimated earnings (usd)":       "earnings",
	"reach":                          "reach",
	"reactions, comments and shares": "engagement",
}

var requiredColumns = []string{"title", "pageName", "postID"}

type csvRow struct {
	Line           int
	PostID         string
	Title          string
	PageName       string
	PostType       string
	AssetTag       string
	Duration       int64
	PublishTime    time.Time
	EarningsCents  int64
	QualifiedViews int64
	Views          int64
	Reach          int64
	Engagement     int64
}

type parsedCSV struct {
	FileName  string
	Raw       []byte
	Rows      []csvRow
	RowErrors []transfer.RowError
	PostIDs   []string // distinct, from valid rows
	RowCount  int      // data rows, header excluded
}

// parseCSVUpload validates and parses one uploaded export. File-level
// problems (binary content, bad encoding, missing columns) come back as
// an error; row-level problems are collected in RowErrors.
func parseCSVUpload(fh *multipart.FileHeader) (*parsedCSV, error) {
	if fh.Size == 0 {
		return nil, errors.New("file is empty")
	}
	if fh.Size > maxUploadSize {
		return nil, fmt.Errorf("file exceeds %d bytes", maxUploadSize)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	if kind, _ := filetype.Match(raw); kind != filetype.Unknown {
		return nil, fmt.Errorf("expected a CSV file, got %s", kind.Extension)
	}
	if !utf8.Valid(raw) {
		return nil, errors.New("file is not valid UTF-8")
	}

	reader := csv.NewReader(strings.NewReader(string(raw)))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading header row: %w", err)
	}

	fields := make(map[string]int) // canonical field -> column index
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if field, ok := columnMap[name]; ok {
			fields[field] = i
		}
	}
	for _, required := range requiredColumns {
		if _, ok := fields[required]; !ok {
			return nil, fmt.Errorf("missing required column for %q", required)
		}
	}

	parsed := &parsedCSV{FileName: fh.Filename, Raw: raw}
	seen := make(map[string]struct{})

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			parsed.RowCount++
			parsed.RowErrors = append(parsed.RowErrors, transfer.RowError{Row: line, Message: err.Error()})
			continue
		}
		parsed.RowCount++

		row, rowErr := parseRow(line, record, fields)
		if rowErr != nil {
			parsed.RowErrors = append(parsed.RowErrors, *rowErr)
			continue
		}

		parsed.Rows = append(parsed.Rows, *row)
		if _, ok := seen[row.PostID]; !ok {
			seen[row.PostID] = struct{}{}
			parsed.PostIDs = append(parsed.PostIDs, row.PostID)
		}
	}

	if parsed.RowCount == 0 {
		return nil, errors.New("file contains no data rows")
	}

	return parsed, nil
}

func parseRow(line int, record []string, fields map[string]int) (*csvRow, *transfer.RowError) {
	get := func(field string) string {
		i, ok := fields[field]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	postID := get("postID")
	if postID == "" {
		return nil, &transfer.RowError{Row: line, Message: "missing post id"}
	}

	row := &csvRow{
		Line:     line,
		PostID:   postID,
		Title:    get("title"),
		PageName: get("pageName"),
		PostType: get("postType"),
		AssetTag: get("assetTag"),
	}
	if row.PostType == "" {
		row.PostType = "Video"
	}

	var err error
	if row.EarningsCents, err = parseMoneyCents(get("earnings")); err != nil {
		return nil, &transfer.RowError{Row: line, PostID: postID, Message: fmt.Sprintf("bad earnings value: %v", err)}
	}
	if row.Views, err = parseCount(get("views")); err != nil {
		return nil, &transfer.RowError{Row: line, PostID: postID, Message: fmt.Sprintf("bad views value: %v", err)}
	}
	if row.QualifiedViews, err = parseCount(get("minuteViews")); err != nil {
		return nil, &transfer.RowError{Row: line, PostID: postID, Message: fmt.Sprintf("bad 1-minute views value: %v", err)}
	}
	if row.QualifiedViews == 0 {
		row.QualifiedViews = row.Views
	}
	if row.Reach, err = parseCount(get("reach")); err != nil {
		return nil, &transfer.RowError{Row: line, PostID: postID, Message: fmt.Sprintf("bad reach value: %v", err)}
	}
	if row.Engagement, err = parseCount(get("engagement")); err != nil {
		return nil, &transfer.RowError{Row: line, PostID: postID, Message: fmt.Sprintf("bad engagement value: %v", err)}
	}
	if row.Duration, err = parseCount(get("duration")); err != nil {
		return nil, &transfer.RowError{Row: line, PostID: postID, Message: fmt.Sprintf("bad duration value: %v", err)}
	}
	if v := get("publishTime"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return nil, &transfer.RowError{Row: line, PostID: postID, Message: fmt.Sprintf("bad publish time: %v", err)}
		}
		row.PublishTime = t
	}

	return row, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"01/02/2006 15:04",
	"2006-01-02T15:04",
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// parseMoneyCents converts a currency string like "$1,234.56" to integer
// cents. Empty input is zero.
func parseMoneyCents(value string) (int64, error) {
	value = strings.TrimSpace(strings.ReplaceAll(strings.TrimPrefix(value, "$"), ",", ""))
	if value == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(f * 100)), nil
}

func parseCount(value string) (int64, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if value == "" {
		return 0, nil
	}
	// exports occasionally write counts as decimals
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(f)), nil
}

// contentSignature fingerprints a dataset by its distinct postID set and
// row count. Row order does not affect the result.
func contentSignature(postIDs []string, rowCount int) string {
	sorted := make([]string, len(postIDs))
	copy(sorted, postIDs)
	sort.Strings(sorted)

	h := sha256.New()
	for _, id := range sorted {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	fmt.Fprintf(h, "%d", rowCount)
	return hex.EncodeToString(h.Sum(nil))
}

// SplitRoyalty divides gross earnings between artist and platform at the
// given percentage rate, rounding the artist share to the nearest cent.
func SplitRoyalty(totalCents int64, rate float64) (artistShareCents, platformFeeCents int64) {
	artistShareCents = int64(math.Round(float64(totalCents) * rate / 100))
	platformFeeCents = totalCents - artistShareCents
	return artistShareCents, platformFeeCents
}
