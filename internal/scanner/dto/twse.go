package dto

import (
	"strconv"
	"strings"
	"time"
)

// MISResponse is the body returned by the TWSE MIS getStockInfo endpoint.
type MISResponse struct {
	MsgArray  []MISQuote `json:"msgArray"`
	RtCode    string     `json:"rtcode"`
	RtMessage string     `json:"rtmessage"`
}

// MISQuote is one instrument entry of MISResponse.
type MISQuote struct {
	Code      string `json:"c"`
	Name      string `json:"n"`
	Price     string `json:"z"`
	PrevClose string `json:"y"`
	Time      string `json:"t"`
	Exchange  string `json:"ex"`
}

// QuoteResult is the per-code payload of one bulk quote request.
// Price is nil when the provider sent no price field at all.
type QuoteResult struct {
	Success bool
	Name    string
	Price   *string
}

// StockDayResponse is the monthly STOCK_DAY history report.
type StockDayResponse struct {
	Stat   string     `json:"stat"`
	Date   string     `json:"date"`
	Title  string     `json:"title"`
	Fields []string   `json:"fields"`
	Data   [][]string `json:"data"`
}

// OK reports whether the report carries data.
func (r StockDayResponse) OK() bool {
	return strings.EqualFold(r.Stat, "OK")
}

const (
	stockDayDateColumn  = 0
	stockDayCloseColumn = 6
)

// DailyClose is one trading session of an instrument. Close is nil when the session has no close.
type DailyClose struct {
	Date  time.Time
	Close *float64
}

// ParseStockDayRow converts a STOCK_DAY data row. Dates use the ROC calendar (e.g. 113/01/02).
func ParseStockDayRow(row []string, loc *time.Location) (DailyClose, bool) {
	if len(row) <= stockDayCloseColumn {
		return DailyClose{}, false
	}
	date, ok := parseROCDate(row[stockDayDateColumn], loc)
	if !ok {
		return DailyClose{}, false
	}
	return DailyClose{Date: date, Close: ParseTWSENumber(row[stockDayCloseColumn])}, true
}

// ParseTWSENumber parses numbers such as "1,005.00". Placeholders like "--" or "-" yield nil.
func ParseTWSENumber(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || strings.Trim(s, "-") == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseROCDate(s string, loc *time.Location) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(nums[0]+1911, time.Month(nums[1]), nums[2], 0, 0, 0, 0, loc), true
}
