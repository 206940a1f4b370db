package main

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/jeovahfialho/portfolio/internal/domain"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type latestPriceView struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	Price  string `json:"price" yaml:"price"`
}

type summaryView struct {
	Symbol        string `json:"symbol" yaml:"symbol"`
	Period        string `json:"period" yaml:"period"`
	LatestPrice   string `json:"latest_price" yaml:"latest_price"`
	EarliestPrice string `json:"earliest_price" yaml:"earliest_price"`
	MaxPrice      string `json:"max_price" yaml:"max_price"`
	MinPrice      string `json:"min_price" yaml:"min_price"`
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("formato de saída inválido %q (use text, json ou yaml)", format)
	}
}

func formatPrice(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func renderLatestPrice(w io.Writer, format string, symbol domain.Symbol, price float64) error {
	view := latestPriceView{
		Symbol: symbol.String(),
		Price:  formatPrice(price),
	}

	switch format {
	case formatJSON:
		return writeJSON(w, view)
	case formatYAML:
		return yaml.NewEncoder(w).Encode(view)
	default:
		_, err := fmt.Fprintf(w, "%s: %s\n", view.Symbol, view.Price)
		return err
	}
}

func renderSummary(w io.Writer, format string, symbol domain.Symbol, period domain.TimePeriod, s domain.EquitySummary) error {
	view := summaryView{
		Symbol:        symbol.String(),
		Period:        period.String(),
		LatestPrice:   formatPrice(s.LatestPrice),
		EarliestPrice: formatPrice(s.EarliestPrice),
		MaxPrice:      formatPrice(s.MaxPrice),
		MinPrice:      formatPrice(s.MinPrice),
	}

	switch format {
	case formatJSON:
		return writeJSON(w, view)
	case formatYAML:
		return yaml.NewEncoder(w).Encode(view)
	default:
		_, err := fmt.Fprintf(w,
			"📊 Resumo de %s (%s):\n├─ Último preço:   %s\n├─ Primeiro preço: %s\n├─ Máxima:         %s\n└─ Mínima:         %s\n",
			view.Symbol, view.Period, view.LatestPrice, view.EarliestPrice, view.MaxPrice, view.MinPrice)
		return err
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
