// Package chart renders a wallet's recent balance history as a QuickChart
// line-chart URL embeddable in notifications.
package chart

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/steelsmol/subwatch/internal/domain"
)

const quickchartBaseURL = "https://quickchart.io/chart"

// Discord blurple, matching the embed accent color.
const (
	lineColor = "rgb(114, 137, 218)"
	fillColor = "rgba(114, 137, 218, 0.1)"
	gridColor = "#444444"
	fontColor = "#ffffff"
)

type historySource interface {
	BalanceHistory(ctx context.Context, address string, start, end time.Time) ([]domain.BalancePoint, error)
}

type unitConverter interface {
	ToDecimal(base *big.Int) decimal.Decimal
}

// Builder fetches a lookback window of balance history and encodes it as a
// chart rendering request.
type Builder struct {
	history historySource
	conv    unitConverter
	days    int
	nowFn   func() time.Time
}

// NewBuilder creates a Builder with the given lookback window in days.
func NewBuilder(history historySource, conv unitConverter, days int) *Builder {
	return &Builder{
		history: history,
		conv:    conv,
		days:    days,
		nowFn:   time.Now,
	}
}

type chartDataset struct {
	Data                      []float64 `json:"data"`
	Fill                      bool      `json:"fill"`
	BackgroundColor           string    `json:"backgroundColor"`
	BorderColor               string    `json:"borderColor"`
	PointBackgroundColor      string    `json:"pointBackgroundColor"`
	PointBorderColor          string    `json:"pointBorderColor"`
	PointHoverBackgroundColor string    `json:"pointHoverBackgroundColor"`
	PointHoverBorderColor     string    `json:"pointHoverBorderColor"`
}

type chartAxis struct {
	GridLines struct {
		Color string `json:"color"`
	} `json:"gridLines"`
	Ticks map[string]any `json:"ticks"`
}

type chartConfig struct {
	Type string `json:"type"`
	Data struct {
		Labels   []string       `json:"labels"`
		Datasets []chartDataset `json:"datasets"`
	} `json:"data"`
	Options struct {
		Legend struct {
			Display bool `json:"display"`
		} `json:"legend"`
		Title struct {
			Display   bool   `json:"display"`
			Text      string `json:"text"`
			FontColor string `json:"fontColor"`
		} `json:"title"`
		Scales struct {
			YAxes []chartAxis `json:"yAxes"`
			XAxes []chartAxis `json:"xAxes"`
		} `json:"scales"`
	} `json:"options"`
}

// BuildURL returns a chart URL for the wallet's recent balance history, or
// an empty string when no history is available.
func (b *Builder) BuildURL(ctx context.Context, w domain.Wallet) (string, error) {
	end := b.nowFn().UTC()
	start := end.AddDate(0, 0, -b.days)

	points, err := b.history.BalanceHistory(ctx, w.Address, start, end)
	if err != nil {
		return "", errors.Wrapf(err, "fetch balance history of %s", w.Address)
	}
	if len(points) == 0 {
		return "", nil
	}

	labels := make([]string, 0, len(points))
	values := make([]float64, 0, len(points))
	for _, p := range points {
		labels = append(labels, p.Date.Format("01-02"))
		values = append(values, b.conv.ToDecimal(p.Balance).InexactFloat64())
	}

	cfg := b.config(labels, values)
	encoded, err := json.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, "encode chart config")
	}

	return quickchartBaseURL + "?c=" + url.QueryEscape(string(encoded)), nil
}

func (b *Builder) config(labels []string, values []float64) chartConfig {
	var cfg chartConfig
	cfg.Type = "line"
	cfg.Data.Labels = labels
	cfg.Data.Datasets = []chartDataset{{
		Data:                      values,
		Fill:                      true,
		BackgroundColor:           fillColor,
		BorderColor:               lineColor,
		PointBackgroundColor:      lineColor,
		PointBorderColor:          "#fff",
		PointHoverBackgroundColor: "#fff",
		PointHoverBorderColor:     lineColor,
	}}

	cfg.Options.Legend.Display = false
	cfg.Options.Title.Display = true
	cfg.Options.Title.Text = fmt.Sprintf("Balance (Last %d Days)", b.days)
	cfg.Options.Title.FontColor = fontColor

	yAxis := chartAxis{Ticks: map[string]any{"beginAtZero": false, "fontColor": fontColor}}
	yAxis.GridLines.Color = gridColor
	xAxis := chartAxis{Ticks: map[string]any{"fontColor": fontColor}}
	xAxis.GridLines.Color = gridColor
	cfg.Options.Scales.YAxes = []chartAxis{yAxis}
	cfg.Options.Scales.XAxes = []chartAxis{xAxis}

	return cfg
}
