package Scheduling

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"HomeList/Models"
)

// CSVColumns is the header understood by the spreadsheet importer.
var CSVColumns = []string{
	"task_key", "title", "description", "frequency_days", "category", "priority",
	"feature_requirements", "seasonal", "seasonal_anchor_type", "season_code",
	"season_anchor_month", "season_anchor_day", "overlap_group", "variant_rank",
	"safety_critical", "estimated_minutes", "professional", "active",
}

type RowError struct {
	Row     int    `json:"row"`
	Key     string `json:"task_key,omitempty"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// ParseCatalogCSV reads catalog rows from a CSV spreadsheet. Rows that fail
// validation are skipped and reported; the remaining rows are returned
// enriched. Row numbers count the header as row 1.
func ParseCatalogCSV(r io.Reader) ([]CatalogEntry, []RowError, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("catalog file is empty")
		}
		return nil, nil, err
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"task_key", "title", "frequency_days"} {
		if _, ok := index[required]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var (
		entries []CatalogEntry
		rowErrs []RowError
		seen    = map[string]int{}
	)
	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		if strings.Join(record, "") == "" {
			continue
		}

		entry, problems := entryFromRow(get)
		if prev, dup := seen[entry.Key]; dup && entry.Key != "" {
			problems = append(problems, fmt.Sprintf("duplicate task_key (first seen on row %d)", prev))
		}
		if len(problems) == 0 {
			batch := []CatalogEntry{entry}
			EnrichDefaults(batch)
			entry = batch[0]
			if err := entry.Validate(); err != nil {
				problems = append(problems, err.Error())
			}
		}
		if len(problems) > 0 {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Key: entry.Key, Message: strings.Join(problems, "; ")})
			continue
		}
		seen[entry.Key] = rowNum
		entries = append(entries, entry)
	}
	return entries, rowErrs, nil
}

func entryFromRow(get func(string) string) (CatalogEntry, []string) {
	var problems []string
	e := CatalogEntry{
		Key:          get("task_key"),
		Title:        get("title"),
		Description:  get("description"),
		Category:     get("category"),
		Priority:     csvPriority(get("priority")),
		AnchorType:   get("seasonal_anchor_type"),
		SeasonCode:   get("season_code"),
		OverlapGroup: get("overlap_group"),
	}

	intField := func(col string, dst *int) {
		v := get(col)
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s must be an integer", col))
			return
		}
		*dst = n
	}
	boolField := func(col string) *bool {
		v := get(col)
		if v == "" {
			return nil
		}
		b, ok := ParseBool(v)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s must be a boolean", col))
			return nil
		}
		return &b
	}

	intField("frequency_days", &e.FrequencyDays)
	intField("season_anchor_month", &e.AnchorMonth)
	intField("season_anchor_day", &e.AnchorDay)
	intField("variant_rank", &e.VariantRank)
	intField("estimated_minutes", &e.EstimatedMinutes)
	e.Seasonal = boolField("seasonal")
	e.SafetyCritical = boolField("safety_critical")
	e.Active = boolField("active")
	if p := boolField("professional"); p != nil {
		e.Professional = *p
	}

	req, reqErrs := ParseRequirementList(get("feature_requirements"))
	problems = append(problems, reqErrs...)
	e.Requires = req
	return e, problems
}

// csvPriority keeps a recognised priority and reads anything else as none,
// so a row with an unexpected value still imports.
func csvPriority(v string) string {
	if !Models.ValidPriority(v) {
		return ""
	}
	return Models.NormalizePriority(v)
}
