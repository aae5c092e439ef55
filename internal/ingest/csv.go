package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"BarScope/internal/domain/models"
)

// Vendor exports carry one minute bar per line as
// "20240305 093000;O;H;L;C;V" with a semicolon separator and no header.
const (
	vendorSeparator  = ';'
	vendorTimeLayout = "20060102 150405"
	vendorFields     = 6
)

// DefaultMinSessionRows is the row count below which a session is treated as
// partial (holiday or truncated export) and dropped.
const DefaultMinSessionRows = 1000

// ReadFuturesCSV parses a semicolon-separated vendor export into bars. The
// symbol is attached to every bar since the file itself carries none.
func ReadFuturesCSV(r io.Reader, symbol string) ([]models.Bar, error) {
	reader := csv.NewReader(r)
	reader.Comma = vendorSeparator
	reader.FieldsPerRecord = vendorFields

	var bars []models.Bar
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read futures csv: line %d: %w", line+1, err)
		}
		line++

		ts, err := time.Parse(vendorTimeLayout, record[0])
		if err != nil {
			return nil, fmt.Errorf("read futures csv: line %d: bad timestamp %q: %w", line, record[0], err)
		}
		prices, err := parseFloats(record[1:])
		if err != nil {
			return nil, fmt.Errorf("read futures csv: line %d: %w", line, err)
		}

		bar := models.Bar{
			Symbol:    symbol,
			Timestamp: ts,
			Open:      prices[0],
			High:      prices[1],
			Low:       prices[2],
			Close:     prices[3],
			Volume:    prices[4],
		}
		if err := bar.Validate(); err != nil {
			return nil, fmt.Errorf("read futures csv: line %d: %w", line, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// ReadTradingViewCSV parses a TradingView chart export: comma-separated with
// a header row and unix-second timestamps in the "time" column.
func ReadTradingViewCSV(r io.Reader, symbol string) ([]models.Bar, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read tradingview csv: header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range []string{"time", "open", "high", "low", "close"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("read tradingview csv: missing column %q", name)
		}
	}
	volumeCol, hasVolume := cols["volume"]

	var bars []models.Bar
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tradingview csv: line %d: %w", line+1, err)
		}
		line++

		unix, err := strconv.ParseInt(record[cols["time"]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("read tradingview csv: line %d: bad time: %w", line, err)
		}
		bar := models.Bar{
			Symbol:    symbol,
			Timestamp: time.Unix(unix, 0).UTC(),
		}
		if bar.Open, err = strconv.ParseFloat(record[cols["open"]], 64); err != nil {
			return nil, fmt.Errorf("read tradingview csv: line %d: bad open: %w", line, err)
		}
		if bar.High, err = strconv.ParseFloat(record[cols["high"]], 64); err != nil {
			return nil, fmt.Errorf("read tradingview csv: line %d: bad high: %w", line, err)
		}
		if bar.Low, err = strconv.ParseFloat(record[cols["low"]], 64); err != nil {
			return nil, fmt.Errorf("read tradingview csv: line %d: bad low: %w", line, err)
		}
		if bar.Close, err = strconv.ParseFloat(record[cols["close"]], 64); err != nil {
			return nil, fmt.Errorf("read tradingview csv: line %d: bad close: %w", line, err)
		}
		if hasVolume {
			if bar.Volume, err = strconv.ParseFloat(record[volumeCol], 64); err != nil {
				return nil, fmt.Errorf("read tradingview csv: line %d: bad volume: %w", line, err)
			}
		}
		if err := bar.Validate(); err != nil {
			return nil, fmt.Errorf("read tradingview csv: line %d: %w", line, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// FilterCompleteSessions drops every calendar day carrying minRows rows or
// fewer, keeping the original bar order. minRows <= 0 selects the default.
func FilterCompleteSessions(bars []models.Bar, minRows int) []models.Bar {
	if minRows <= 0 {
		minRows = DefaultMinSessionRows
	}
	counts := make(map[string]int)
	for _, b := range bars {
		counts[b.Session()]++
	}
	kept := make([]models.Bar, 0, len(bars))
	for _, b := range bars {
		if counts[b.Session()] > minRows {
			kept = append(kept, b)
		}
	}
	return kept
}

// SplitBySession groups bars by calendar day, returning the groups in first
// appearance order.
func SplitBySession(bars []models.Bar) (map[string][]models.Bar, []string) {
	sessions := make(map[string][]models.Bar)
	var order []string
	for _, b := range bars {
		day := b.Session()
		if _, seen := sessions[day]; !seen {
			order = append(order, day)
		}
		sessions[day] = append(sessions[day], b)
	}
	return sessions, order
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("bad numeric field %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}
