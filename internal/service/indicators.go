package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"stock-analyst-agent/internal/domain"
)

// Rolling-window helpers over float64 series. NaN marks missing values,
// matching how the upstream datasets surface gaps.

func rollingApply(x []float64, window, minPeriods int, f func(vals []float64) float64) []float64 {
	out := make([]float64, len(x))
	buf := make([]float64, 0, window)
	for i := range x {
		buf = buf[:0]
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		for j := lo; j <= i; j++ {
			if !math.IsNaN(x[j]) {
				buf = append(buf, x[j])
			}
		}
		if len(buf) < minPeriods {
			out[i] = math.NaN()
			continue
		}
		out[i] = f(buf)
	}
	return out
}

func meanOf(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func rollingMean(x []float64, window, minPeriods int) []float64 {
	return rollingApply(x, window, minPeriods, meanOf)
}

func rollingStd(x []float64, window, minPeriods int) []float64 {
	return rollingApply(x, window, minPeriods, func(vals []float64) float64 {
		if len(vals) < 2 {
			return math.NaN()
		}
		m := meanOf(vals)
		ss := 0.0
		for _, v := range vals {
			d := v - m
			ss += d * d
		}
		// Sample deviation (ddof=1).
		return math.Sqrt(ss / float64(len(vals)-1))
	})
}

func rollingMin(x []float64, window, minPeriods int) []float64 {
	return rollingApply(x, window, minPeriods, func(vals []float64) float64 {
		m := vals[0]
		for _, v := range vals[1:] {
			if v < m {
				m = v
			}
		}
		return m
	})
}

func rollingMax(x []float64, window, minPeriods int) []float64 {
	return rollingApply(x, window, minPeriods, func(vals []float64) float64 {
		m := vals[0]
		for _, v := range vals[1:] {
			if v > m {
				m = v
			}
		}
		return m
	})
}

// ewm computes an exponentially weighted mean with adjust=false semantics:
// y[0]=x[0], y[i]=(1-alpha)*y[i-1]+alpha*x[i]. NaN inputs carry the
// previous value forward.
func ewm(x []float64, alpha float64) []float64 {
	out := make([]float64, len(x))
	prev := math.NaN()
	for i, v := range x {
		if math.IsNaN(v) {
			out[i] = prev
			continue
		}
		if math.IsNaN(prev) {
			prev = v
		} else {
			prev = (1-alpha)*prev + alpha*v
		}
		out[i] = prev
	}
	return out
}

func ewmSpan(x []float64, span float64) []float64 {
	return ewm(x, 2/(span+1))
}

func ewmCom(x []float64, com float64) []float64 {
	return ewm(x, 1/(1+com))
}

func pctChange(x []float64, periods int) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		if i < periods || math.IsNaN(x[i]) || math.IsNaN(x[i-periods]) || x[i-periods] == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (x[i] - x[i-periods]) / x[i-periods]
	}
	return out
}

func diff(x []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		if i == 0 || math.IsNaN(x[i]) || math.IsNaN(x[i-1]) {
			out[i] = math.NaN()
			continue
		}
		out[i] = x[i] - x[i-1]
	}
	return out
}

// WeeklyKDJPoint is one weekly bar with its KDJ values and cross signal.
type WeeklyKDJPoint struct {
	TradeDate string
	K         float64
	D         float64
	J         float64
	Cross     string // "Golden Cross", "Dead Cross" or "None"
}

// ComputeWeeklyKDJ computes KDJ(9) on forward-adjusted weekly bars and
// tags golden/dead crosses.
func ComputeWeeklyKDJ(weekly *domain.Dataset) []WeeklyKDJPoint {
	if weekly.Empty() {
		return nil
	}

	dates := weekly.Strings("trade_date")
	low := weekly.Floats("low_qfq")
	high := weekly.Floats("high_qfq")
	closePx := weekly.Floats("close_qfq")

	lowN := rollingMin(low, 9, 1)
	highN := rollingMax(high, 9, 1)

	rsv := make([]float64, len(closePx))
	for i := range rsv {
		spread := highN[i] - lowN[i]
		if math.IsNaN(spread) || spread == 0 {
			rsv[i] = 0
			continue
		}
		rsv[i] = (closePx[i] - lowN[i]) / spread * 100
	}

	k := ewmCom(rsv, 2)
	d := ewmCom(k, 2)

	points := make([]WeeklyKDJPoint, len(k))
	for i := range points {
		j := 3*k[i] - 2*d[i]
		cross := "None"
		if i > 0 && !math.IsNaN(k[i-1]) && !math.IsNaN(d[i-1]) {
			if k[i-1] < d[i-1] && k[i] > d[i] {
				cross = "Golden Cross"
			} else if k[i-1] > d[i-1] && k[i] < d[i] {
				cross = "Dead Cross"
			}
		}
		points[i] = WeeklyKDJPoint{
			TradeDate: dates[i],
			K:         k[i],
			D:         d[i],
			J:         j,
			Cross:     cross,
		}
	}
	return points
}

// indicatorWindow is how many trailing rows the prompt gets.
const indicatorWindow = 60

// ComputeTechnicalIndicators derives the daily indicator table from quotes
// (and optionally money flow and the weekly KDJ series), then serializes
// the last 60 rows as JSON records for the prompt.
func ComputeTechnicalIndicators(quotes, moneyflows *domain.Dataset, weekly []WeeklyKDJPoint) (string, error) {
	if quotes.Empty() {
		return "[]", nil
	}

	dates := quotes.Strings("trade_date")
	closePx := quotes.Floats("close")
	vol := quotes.Floats("vol")

	// Merge money flow onto the quote dates.
	netMF := make([]float64, len(dates))
	for i := range netMF {
		netMF[i] = math.NaN()
	}
	hasMF := !moneyflows.Empty() && moneyflows.HasField("net_mf_amount")
	if hasMF {
		mfByDate := make(map[string]float64, moneyflows.Len())
		mfDates := moneyflows.Strings("trade_date")
		mfVals := moneyflows.Floats("net_mf_amount")
		for i, d := range mfDates {
			mfByDate[d] = mfVals[i]
		}
		for i, d := range dates {
			if v, ok := mfByDate[d]; ok {
				netMF[i] = v
			}
		}
	}

	volumeMA20 := rollingMean(vol, 20, 10)
	volumeRatio := make([]float64, len(vol))
	for i := range vol {
		if math.IsNaN(volumeMA20[i]) || volumeMA20[i] == 0 {
			volumeRatio[i] = math.NaN()
			continue
		}
		volumeRatio[i] = vol[i] / volumeMA20[i]
	}

	ema12 := ewmSpan(closePx, 12)
	ema26 := ewmSpan(closePx, 26)
	macd := make([]float64, len(closePx))
	for i := range macd {
		macd[i] = ema12[i] - ema26[i]
	}
	signal := ewmSpan(macd, 9)
	macdHist := make([]float64, len(macd))
	for i := range macdHist {
		macdHist[i] = macd[i] - signal[i]
	}

	delta := diff(closePx)
	gains := make([]float64, len(delta))
	losses := make([]float64, len(delta))
	for i, d := range delta {
		if math.IsNaN(d) {
			gains[i], losses[i] = math.NaN(), math.NaN()
			continue
		}
		if d > 0 {
			gains[i], losses[i] = d, 0
		} else {
			gains[i], losses[i] = 0, -d
		}
	}
	avgGain := rollingMean(gains, 14, 14)
	avgLoss := rollingMean(losses, 14, 14)
	rsi14 := make([]float64, len(closePx))
	for i := range rsi14 {
		switch {
		case math.IsNaN(avgGain[i]) || math.IsNaN(avgLoss[i]):
			rsi14[i] = math.NaN()
		case avgLoss[i] == 0 && avgGain[i] == 0:
			rsi14[i] = math.NaN()
		case avgLoss[i] == 0:
			// All gains in the window.
			rsi14[i] = 100
		default:
			rs := avgGain[i] / avgLoss[i]
			rsi14[i] = 100 - 100/(1+rs)
		}
	}

	// The middle band needs 80% of the window; the deviation only half.
	bbMiddle := rollingMean(closePx, 20, 16)
	bbStd := rollingStd(closePx, 20, 10)
	bbWidth := make([]float64, len(closePx))
	bbBreakout := make([]float64, len(closePx))
	for i := range closePx {
		if math.IsNaN(bbMiddle[i]) || math.IsNaN(bbStd[i]) || bbMiddle[i] == 0 {
			bbWidth[i], bbBreakout[i] = math.NaN(), 0
			continue
		}
		upper := bbMiddle[i] + 2*bbStd[i]
		lower := bbMiddle[i] - 2*bbStd[i]
		bbWidth[i] = (upper - lower) / bbMiddle[i]
		switch {
		case closePx[i] > upper:
			bbBreakout[i] = 1
		case closePx[i] < lower:
			bbBreakout[i] = -1
		default:
			bbBreakout[i] = 0
		}
	}

	var netMFMA5 []float64
	if hasMF {
		netMFMA5 = rollingMean(netMF, 5, 3)
	}

	// Latest weekly KDJ snapshot, stamped onto every row.
	weeklySignal := "None"
	weeklyK, weeklyD, weeklyJ := math.NaN(), math.NaN(), math.NaN()
	if len(weekly) > 0 {
		last := weekly[len(weekly)-1]
		weeklySignal = last.Cross
		weeklyK, weeklyD, weeklyJ = last.K, last.D, last.J
	}

	start := 0
	if len(dates) > indicatorWindow {
		start = len(dates) - indicatorWindow
	}

	records := make([]map[string]interface{}, 0, len(dates)-start)
	for i := start; i < len(dates); i++ {
		rec := map[string]interface{}{
			"trade_date":        dates[i],
			"close":             floatOrNil(closePx[i]),
			"volume_ratio":      floatOrNil(volumeRatio[i]),
			"macd_hist":         floatOrNil(macdHist[i]),
			"rsi_14":            floatOrNil(rsi14[i]),
			"bb_width":          floatOrNil(bbWidth[i]),
			"bb_breakout":       bbBreakout[i],
			"weekly_kdj_signal": weeklySignal,
			"weekly_k_latest":   floatOrNil(weeklyK),
			"weekly_d_latest":   floatOrNil(weeklyD),
			"weekly_j_latest":   floatOrNil(weeklyJ),
		}
		if hasMF {
			rec["net_mf_amount_ma_5"] = floatOrNil(netMFMA5[i])
		}
		records = append(records, rec)
	}

	b, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// floatOrNil maps NaN to JSON null, since encoding/json rejects NaN.
func floatOrNil(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// AnalyzeFactorIndicators reads the latest professional factor row and
// produces a readable summary of BBI, CCI, DMI, KDJ, MACD and RSI state.
func AnalyzeFactorIndicators(factors *domain.Dataset) string {
	if factors.Empty() {
		return "专业指标数据缺失，无法进行分析。"
	}

	last := factors.Len() - 1
	latest := func(name string) (float64, bool) {
		if !factors.HasField(name) {
			return 0, false
		}
		v := factors.Floats(name)[last]
		if math.IsNaN(v) {
			return 0, false
		}
		return v, true
	}

	var parts []string

	if bbi, ok := latest("bbi_qfq"); ok {
		if closePx, ok := latest("close_qfq"); ok {
			side, trend := "低于", "空头"
			if closePx > bbi {
				side, trend = "高于", "多头"
			}
			parts = append(parts, fmt.Sprintf(
				"BBI多空指标: %.2f。当前股价 (%.2f) %sBBI，表明市场目前处于%s行情。",
				bbi, closePx, side, trend))
		}
	}

	if cci, ok := latest("cci_qfq"); ok {
		status := "常态"
		if cci > 100 {
			status = "超买"
		} else if cci < -100 {
			status = "超卖"
		}
		parts = append(parts, fmt.Sprintf("CCI顺势指标: %.2f，目前处于%s区域。", cci, status))
	}

	pdi, okP := latest("dmi_pdi_qfq")
	mdi, okM := latest("dmi_mdi_qfq")
	adx, okA := latest("dmi_adx_qfq")
	if okP && okM && okA {
		trend := "下降"
		if pdi > mdi {
			trend = "上升"
		}
		parts = append(parts, fmt.Sprintf(
			"DMI动向指标: PDI=%.2f, MDI=%.2f, ADX=%.2f。目前为%s趋势，趋势强度为 %.2f。",
			pdi, mdi, adx, trend, adx))
	}

	k, okK := latest("kdj_k_qfq")
	d, okD := latest("kdj_d_qfq")
	j, okJ := latest("kdj_qfq")
	if okK && okD && okJ {
		parts = append(parts, fmt.Sprintf("KDJ随机指标: K=%.2f, D=%.2f, J=%.2f。", k, d, j))
	}

	dif, okDif := latest("macd_dif_qfq")
	dea, okDea := latest("macd_dea_qfq")
	hist, okHist := latest("macd_qfq")
	if okDif && okDea && okHist {
		cross := "死叉"
		if dif > dea {
			cross = "金叉"
		}
		parts = append(parts, fmt.Sprintf(
			"MACD指标: DIF=%.2f, DEA=%.2f, MACD柱=%.2f。当前处于%s状态。",
			dif, dea, hist, cross))
	}

	if rsi, ok := latest("rsi_qfq_12"); ok {
		status := "常态"
		if rsi > 80 {
			status = "超买"
		} else if rsi < 20 {
			status = "超卖"
		}
		parts = append(parts, fmt.Sprintf("RSI相对强弱指标(12日): %.2f，目前处于%s区域。", rsi, status))
	}

	if len(parts) == 0 {
		return "无可用专业指标进行分析。"
	}
	return strings.Join(parts, " ")
}
