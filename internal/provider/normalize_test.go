package provider

import (
	"errors"
	"math"
	"testing"

	"StockPulse/internal/domain/models"
)

func validData() *models.StockData {
	return &models.StockData{
		Symbol: "2330",
		Price:  625,
		History: models.Series{
			{Date: "2025-03-10", Close: 620},
			{Date: "2025-03-11", Close: 622},
			{Date: "2025-03-12", Close: 625},
		},
	}
}

func TestValidateAccepts(t *testing.T) {
	if err := Validate(validData()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.StockData)
	}{
		{"empty symbol", func(d *models.StockData) { d.Symbol = "" }},
		{"zero price", func(d *models.StockData) { d.Price = 0 }},
		{"negative price", func(d *models.StockData) { d.Price = -1 }},
		{"nan price", func(d *models.StockData) { d.Price = math.NaN() }},
		{"empty history", func(d *models.StockData) { d.History = nil }},
		{"nan close", func(d *models.StockData) { d.History[1].Close = math.NaN() }},
		{"zero close", func(d *models.StockData) { d.History[0].Close = 0 }},
		{"duplicate date", func(d *models.StockData) { d.History[1].Date = d.History[0].Date }},
		{"descending dates", func(d *models.StockData) { d.History[2].Date = "2025-03-01" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := validData()
			tc.mutate(data)
			err := Validate(data)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("error %v is not ErrValidation", err)
			}
		})
	}
}

func TestChangeFrom(t *testing.T) {
	change, pct := ChangeFrom(110, 100)
	if change != 10 || pct != 10 {
		t.Fatalf("got change=%v pct=%v", change, pct)
	}

	change, pct = ChangeFrom(110, 0)
	if change != 0 || pct != 0 {
		t.Fatalf("unusable previous close should yield zeros, got %v %v", change, pct)
	}

	change, pct = ChangeFrom(110, math.NaN())
	if change != 0 || pct != 0 {
		t.Fatalf("NaN previous close should yield zeros, got %v %v", change, pct)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{NetworkError(errors.New("dial tcp")), "network"},
		{MalformedError("bad json"), "malformed"},
		{ValidationError("empty history"), "validation"},
		{RateLimitedError("429"), "rate_limited"},
		{errors.New("other"), "unknown"},
	}
	for _, tc := range cases {
		if got := Classify(tc.err); got != tc.want {
			t.Fatalf("Classify(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
