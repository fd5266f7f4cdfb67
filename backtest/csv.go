package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Candle is one OHLCV bar.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// LoadCSV reads a candle file with a header row of
// time|timestamp, open, high, low, close, volume|vol.
// Headers are case-insensitive and unknown columns are ignored.
func LoadCSV(path string) ([]Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses candles from r and returns them in ascending time order.
// Rows without a parseable time or close are skipped.
func ReadCSV(r io.Reader) ([]Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var (
		out     []Candle
		headers []string
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if headers == nil {
			headers = make([]string, len(rec))
			for i, h := range rec {
				headers[i] = strings.ToLower(strings.TrimSpace(h))
			}
			continue
		}
		row := make(map[string]string, len(headers))
		for j, h := range headers {
			if j < len(rec) {
				row[h] = strings.TrimSpace(rec[j])
			}
		}
		ts := first(row, "time", "timestamp")
		cp := first(row, "close")
		if ts == "" || cp == "" {
			continue
		}
		tt, err := parseTime(ts)
		if err != nil {
			continue
		}
		c, err := strconv.ParseFloat(cp, 64)
		if err != nil {
			continue
		}
		candle := Candle{Time: tt, Close: c, Open: c, High: c, Low: c}
		if v, err := strconv.ParseFloat(first(row, "open"), 64); err == nil {
			candle.Open = v
		}
		if v, err := strconv.ParseFloat(first(row, "high"), 64); err == nil {
			candle.High = v
		}
		if v, err := strconv.ParseFloat(first(row, "low"), 64); err == nil {
			candle.Low = v
		}
		if v, err := strconv.ParseFloat(first(row, "volume", "vol"), 64); err == nil {
			candle.Volume = v
		}
		out = append(out, candle)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

// parseTime accepts RFC3339 or unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("bad time: %s", s)
}

func first(m map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := m[k]; v != "" {
			return v
		}
	}
	return ""
}
