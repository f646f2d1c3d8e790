package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"

	"stock-analyst-agent/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRollingMean(t *testing.T) {
	got := rollingMean([]float64{1, 2, 3}, 2, 1)
	want := []float64{1, 1.5, 2.5}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestRollingMean_MinPeriods(t *testing.T) {
	got := rollingMean([]float64{1, 2, 3, 4}, 3, 3)
	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) {
		t.Fatalf("expected NaN before min periods, got %v", got)
	}
	if !almostEqual(got[2], 2) || !almostEqual(got[3], 3) {
		t.Fatalf("unexpected means: %v", got)
	}
}

func TestRollingMean_SkipsNaN(t *testing.T) {
	got := rollingMean([]float64{1, math.NaN(), 3}, 3, 1)
	if !almostEqual(got[2], 2) {
		t.Fatalf("expected NaN-skipping mean 2, got %v", got[2])
	}
}

func TestRollingStd_SampleDeviation(t *testing.T) {
	got := rollingStd([]float64{1, 2, 3, 4}, 3, 2)
	if !math.IsNaN(got[0]) {
		t.Fatalf("expected NaN with a single value, got %v", got[0])
	}
	if !almostEqual(got[1], math.Sqrt(0.5)) {
		t.Fatalf("expected sample std sqrt(0.5), got %v", got[1])
	}
	if !almostEqual(got[2], 1) || !almostEqual(got[3], 1) {
		t.Fatalf("unexpected stds: %v", got)
	}
}

func TestRollingMinMax(t *testing.T) {
	x := []float64{3, 1, 4, 1, 5}
	mins := rollingMin(x, 3, 1)
	maxs := rollingMax(x, 3, 1)
	if mins[4] != 1 || maxs[4] != 5 {
		t.Fatalf("unexpected window extremes: min=%v max=%v", mins[4], maxs[4])
	}
	if mins[1] != 1 || maxs[1] != 3 {
		t.Fatalf("unexpected partial-window extremes: min=%v max=%v", mins[1], maxs[1])
	}
}

func TestEwmSpan(t *testing.T) {
	// span 3 -> alpha 0.5
	got := ewmSpan([]float64{1, 2, 3}, 3)
	want := []float64{1, 1.5, 2.25}
	for i := range want {
		if !almostEqual(got[i], want[i]) {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestEwmCom(t *testing.T) {
	// com 2 -> alpha 1/3
	got := ewmCom([]float64{3, 6}, 2)
	if !almostEqual(got[0], 3) || !almostEqual(got[1], 4) {
		t.Fatalf("unexpected ewm values: %v", got)
	}
}

func TestPctChange(t *testing.T) {
	got := pctChange([]float64{100, 110, 99}, 1)
	if !math.IsNaN(got[0]) {
		t.Fatalf("expected NaN at index 0, got %v", got[0])
	}
	if !almostEqual(got[1], 0.1) || !almostEqual(got[2], -0.1) {
		t.Fatalf("unexpected pct changes: %v", got)
	}
}

func TestDiff(t *testing.T) {
	got := diff([]float64{1, 4, 2})
	if !math.IsNaN(got[0]) || !almostEqual(got[1], 3) || !almostEqual(got[2], -2) {
		t.Fatalf("unexpected diffs: %v", got)
	}
}

func weeklyDataset(dates []string, low, high, closePx []float64) *domain.Dataset {
	ds := &domain.Dataset{Fields: []string{"trade_date", "low_qfq", "high_qfq", "close_qfq"}}
	for i := range dates {
		ds.Rows = append(ds.Rows, []interface{}{dates[i], low[i], high[i], closePx[i]})
	}
	return ds
}

func TestComputeWeeklyKDJ_RisingSeries(t *testing.T) {
	points := ComputeWeeklyKDJ(weeklyDataset(
		[]string{"20250103", "20250110", "20250117"},
		[]float64{1, 2, 3},
		[]float64{2, 3, 4},
		[]float64{2, 3, 4},
	))
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	// Close pinned to the window high keeps RSV at 100.
	if !almostEqual(points[0].K, 100) || !almostEqual(points[2].K, 100) {
		t.Fatalf("unexpected K values: %+v", points)
	}
	for _, p := range points {
		if p.Cross != "None" {
			t.Fatalf("expected no cross on a monotone series, got %q", p.Cross)
		}
	}
}

func TestComputeWeeklyKDJ_FlatSeriesGuardsZeroSpread(t *testing.T) {
	points := ComputeWeeklyKDJ(weeklyDataset(
		[]string{"20250103", "20250110"},
		[]float64{5, 5},
		[]float64{5, 5},
		[]float64{5, 5},
	))
	for _, p := range points {
		if math.IsNaN(p.K) || math.IsNaN(p.D) || math.IsNaN(p.J) {
			t.Fatalf("expected finite KDJ on flat series, got %+v", p)
		}
	}
}

func TestComputeWeeklyKDJ_Empty(t *testing.T) {
	if points := ComputeWeeklyKDJ(&domain.Dataset{}); points != nil {
		t.Fatalf("expected nil for empty dataset, got %v", points)
	}
}

func quotesDataset(n int) *domain.Dataset {
	ds := &domain.Dataset{Fields: []string{"trade_date", "close", "vol"}}
	for i := 0; i < n; i++ {
		date := fmt.Sprintf("202501%02d", i+1)
		ds.Rows = append(ds.Rows, []interface{}{date, 100.0 + float64(i), 5000.0})
	}
	return ds
}

func TestComputeTechnicalIndicators(t *testing.T) {
	quotes := quotesDataset(30)
	moneyflows := &domain.Dataset{Fields: []string{"trade_date", "net_mf_amount"}}
	for i := 0; i < 30; i++ {
		date := fmt.Sprintf("202501%02d", i+1)
		moneyflows.Rows = append(moneyflows.Rows, []interface{}{date, 10.0})
	}
	weekly := []WeeklyKDJPoint{{TradeDate: "20250124", K: 80, D: 70, J: 100, Cross: "Golden Cross"}}

	out, err := ComputeTechnicalIndicators(quotes, moneyflows, weekly)
	if err != nil {
		t.Fatalf("ComputeTechnicalIndicators failed: %v", err)
	}

	var records []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(records) != 30 {
		t.Fatalf("expected 30 records, got %d", len(records))
	}

	last := records[len(records)-1]
	if last["trade_date"] != "20250130" {
		t.Fatalf("unexpected last trade date: %v", last["trade_date"])
	}
	// Constant volume keeps the ratio at 1.
	if ratio, ok := last["volume_ratio"].(float64); !ok || !almostEqual(ratio, 1) {
		t.Fatalf("unexpected volume ratio: %v", last["volume_ratio"])
	}
	// Strictly rising closes saturate RSI at 100.
	if rsi, ok := last["rsi_14"].(float64); !ok || !almostEqual(rsi, 100) {
		t.Fatalf("unexpected RSI: %v", last["rsi_14"])
	}
	// MACD histogram must be positive in a steady uptrend.
	if hist, ok := last["macd_hist"].(float64); !ok || hist <= 0 {
		t.Fatalf("unexpected MACD hist: %v", last["macd_hist"])
	}
	if last["weekly_kdj_signal"] != "Golden Cross" {
		t.Fatalf("unexpected weekly signal: %v", last["weekly_kdj_signal"])
	}
	if mf, ok := last["net_mf_amount_ma_5"].(float64); !ok || !almostEqual(mf, 10) {
		t.Fatalf("unexpected money flow MA: %v", last["net_mf_amount_ma_5"])
	}
}

func TestComputeTechnicalIndicators_LimitsTo60Rows(t *testing.T) {
	out, err := ComputeTechnicalIndicators(quotesDataset(80), &domain.Dataset{}, nil)
	if err != nil {
		t.Fatalf("ComputeTechnicalIndicators failed: %v", err)
	}
	var records []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(records) != 60 {
		t.Fatalf("expected 60 records, got %d", len(records))
	}
	if _, ok := records[0]["net_mf_amount_ma_5"]; ok {
		t.Fatal("money flow column should be absent without moneyflow data")
	}
}

func TestComputeTechnicalIndicators_BollingerNeedsSixteenObservations(t *testing.T) {
	decode := func(out string) []map[string]interface{} {
		t.Helper()
		var records []map[string]interface{}
		if err := json.Unmarshal([]byte(out), &records); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		return records
	}

	out, err := ComputeTechnicalIndicators(quotesDataset(12), &domain.Dataset{}, nil)
	if err != nil {
		t.Fatalf("ComputeTechnicalIndicators failed: %v", err)
	}
	records := decode(out)
	last := records[len(records)-1]
	if last["bb_width"] != nil {
		t.Fatalf("expected null bb_width with 12 observations, got %v", last["bb_width"])
	}

	out, err = ComputeTechnicalIndicators(quotesDataset(16), &domain.Dataset{}, nil)
	if err != nil {
		t.Fatalf("ComputeTechnicalIndicators failed: %v", err)
	}
	records = decode(out)
	last = records[len(records)-1]
	if _, ok := last["bb_width"].(float64); !ok {
		t.Fatalf("expected numeric bb_width with 16 observations, got %v", last["bb_width"])
	}
}

func TestComputeTechnicalIndicators_EmptyQuotes(t *testing.T) {
	out, err := ComputeTechnicalIndicators(&domain.Dataset{}, &domain.Dataset{}, nil)
	if err != nil {
		t.Fatalf("ComputeTechnicalIndicators failed: %v", err)
	}
	if out != "[]" {
		t.Fatalf("expected empty array, got %q", out)
	}
}

func factorDataset(fields []string, row []interface{}) *domain.Dataset {
	return &domain.Dataset{Fields: fields, Rows: [][]interface{}{row}}
}

func TestAnalyzeFactorIndicators(t *testing.T) {
	ds := factorDataset(
		[]string{"close_qfq", "bbi_qfq", "cci_qfq", "dmi_pdi_qfq", "dmi_mdi_qfq", "dmi_adx_qfq",
			"kdj_k_qfq", "kdj_d_qfq", "kdj_qfq", "macd_dif_qfq", "macd_dea_qfq", "macd_qfq", "rsi_qfq_12"},
		[]interface{}{110.0, 100.0, 150.0, 30.0, 20.0, 25.0, 85.0, 75.0, 105.0, 1.2, 0.8, 0.4, 85.0},
	)

	summary := AnalyzeFactorIndicators(ds)

	for _, want := range []string{"多头", "超买", "上升趋势", "金叉", "RSI相对强弱指标"} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestAnalyzeFactorIndicators_BearishZones(t *testing.T) {
	ds := factorDataset(
		[]string{"close_qfq", "bbi_qfq", "cci_qfq", "rsi_qfq_12"},
		[]interface{}{90.0, 100.0, -150.0, 15.0},
	)

	summary := AnalyzeFactorIndicators(ds)

	for _, want := range []string{"空头", "超卖"} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestAnalyzeFactorIndicators_Empty(t *testing.T) {
	summary := AnalyzeFactorIndicators(&domain.Dataset{})
	if !strings.Contains(summary, "无法进行分析") {
		t.Fatalf("unexpected summary for empty dataset: %s", summary)
	}
}
