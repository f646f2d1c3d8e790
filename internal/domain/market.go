package domain

import (
	"context"
	"encoding/json"
	"math"
	"sort"
)

// Dataset is a column-oriented result set returned by the market data API.
// Rows hold the raw decoded values (float64, string or nil) in field order.
type Dataset struct {
	Fields []string        `json:"fields"`
	Rows   [][]interface{} `json:"rows"`
}

// Empty reports whether the dataset has no rows.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Rows) == 0
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

func (d *Dataset) fieldIndex(name string) int {
	for i, f := range d.Fields {
		if f == name {
			return i
		}
	}
	return -1
}

// HasField reports whether the dataset contains the named column.
func (d *Dataset) HasField(name string) bool {
	return d != nil && d.fieldIndex(name) >= 0
}

// Floats extracts a column as float64 values. Missing or non-numeric
// cells become NaN so downstream rolling math can skip them.
func (d *Dataset) Floats(name string) []float64 {
	idx := d.fieldIndex(name)
	out := make([]float64, d.Len())
	for i, row := range d.Rows {
		out[i] = math.NaN()
		if idx < 0 || idx >= len(row) {
			continue
		}
		switch v := row[idx].(type) {
		case float64:
			out[i] = v
		case int:
			out[i] = float64(v)
		case json.Number:
			if f, err := v.Float64(); err == nil {
				out[i] = f
			}
		}
	}
	return out
}

// Strings extracts a column as strings. Non-string cells become "".
func (d *Dataset) Strings(name string) []string {
	idx := d.fieldIndex(name)
	out := make([]string, d.Len())
	for i, row := range d.Rows {
		if idx < 0 || idx >= len(row) {
			continue
		}
		if s, ok := row[idx].(string); ok {
			out[i] = s
		}
	}
	return out
}

// Records converts the dataset to row maps keyed by field name.
func (d *Dataset) Records() []map[string]interface{} {
	if d == nil {
		return nil
	}
	records := make([]map[string]interface{}, 0, len(d.Rows))
	for _, row := range d.Rows {
		rec := make(map[string]interface{}, len(d.Fields))
		for i, f := range d.Fields {
			if i < len(row) {
				rec[f] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records
}

// JSONRecords serializes the dataset as a JSON array of records, the
// shape the analysis prompt embeds.
func (d *Dataset) JSONRecords() (string, error) {
	records := d.Records()
	if records == nil {
		records = []map[string]interface{}{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SortBy orders rows ascending by the given string column. Trade dates
// are YYYYMMDD strings, so lexicographic order is chronological.
func (d *Dataset) SortBy(name string) {
	if d == nil {
		return
	}
	idx := d.fieldIndex(name)
	if idx < 0 {
		return
	}
	sort.SliceStable(d.Rows, func(i, j int) bool {
		a, _ := d.Rows[i][idx].(string)
		b, _ := d.Rows[j][idx].(string)
		return a < b
	})
}

// Tail returns the last n rows (all rows when n exceeds the length).
func (d *Dataset) Tail(n int) *Dataset {
	if d == nil {
		return nil
	}
	if n >= len(d.Rows) {
		return d
	}
	return &Dataset{Fields: d.Fields, Rows: d.Rows[len(d.Rows)-n:]}
}

// MarketDataRepository fetches the datasets an analysis needs.
type MarketDataRepository interface {
	CompanyInfo(ctx context.Context, tsCode string) (*Dataset, error)
	DailyQuotes(ctx context.Context, tsCode, startDate, endDate string) (*Dataset, error)
	DailyBasic(ctx context.Context, tsCode, startDate, endDate string) (*Dataset, error)
	Moneyflow(ctx context.Context, tsCode, startDate, endDate string) (*Dataset, error)
	IncomeStatements(ctx context.Context, tsCode string) (*Dataset, error)
	WeeklyBars(ctx context.Context, tsCode, startDate, endDate string) (*Dataset, error)
	FactorData(ctx context.Context, tsCode, startDate, endDate string) (*Dataset, error)
}

// StockData bundles everything the prompt embeds. Dataset members are
// pre-serialized JSON record arrays.
type StockData struct {
	Basic                string `json:"basic"`
	Quotes               string `json:"quotes"`
	Fundamentals         string `json:"fundamentals"`
	Moneyflows           string `json:"moneyflows"`
	Income               string `json:"income"`
	TechnicalIndicators  string `json:"technical_indicators"`
	ProfessionalAnalysis string `json:"professional_indicators_analysis"`
}
