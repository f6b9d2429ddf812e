package features

import (
	"math"
	"testing"
	"time"

	"StockCast/internal/domain/models"
)

func linearSeries(n int, start float64) models.PriceSeries {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(models.PriceSeries, n)
	for i := 0; i < n; i++ {
		s[i] = models.Candle{
			Date:  base.AddDate(0, 0, i),
			Close: start + float64(i),
		}
	}
	return s
}

func TestDeriveRowCount(t *testing.T) {
	rows := Derive(linearSeries(50, 100))
	if len(rows) != 31 {
		t.Fatalf("expected 31 rows, got %d", len(rows))
	}
	if !rows[0].Date.Equal(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("first row should carry day 20's date, got %v", rows[0].Date)
	}
}

func TestDeriveTooShort(t *testing.T) {
	if rows := Derive(linearSeries(19, 100)); rows != nil {
		t.Fatalf("expected nil for %d rows, got %d", 19, len(rows))
	}
}

func TestDeriveMovingAverages(t *testing.T) {
	rows := Derive(linearSeries(50, 100))

	// closes are 100..149, so at index 19 MA5 spans 115..119 and MA20
	// spans 100..119.
	first := rows[0]
	if math.Abs(first.MAShort-117) > 1e-9 {
		t.Errorf("MAShort = %v, want 117", first.MAShort)
	}
	if math.Abs(first.MALong-109.5) > 1e-9 {
		t.Errorf("MALong = %v, want 109.5", first.MALong)
	}

	wantReturn := 119.0/118.0 - 1
	if math.Abs(first.Return-wantReturn) > 1e-12 {
		t.Errorf("Return = %v, want %v", first.Return, wantReturn)
	}
	if first.Volatility <= 0 {
		t.Errorf("Volatility = %v, want > 0", first.Volatility)
	}
}

func TestDeriveConstantSeries(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(models.PriceSeries, 30)
	for i := range s {
		s[i] = models.Candle{Date: base.AddDate(0, 0, i), Close: 100}
	}

	rows := Derive(s)
	if len(rows) != 11 {
		t.Fatalf("expected 11 rows, got %d", len(rows))
	}
	for i, r := range rows {
		if r.MAShort != 100 || r.MALong != 100 {
			t.Fatalf("row %d: moving averages %v/%v, want 100/100", i, r.MAShort, r.MALong)
		}
		if r.Return != 0 {
			t.Fatalf("row %d: return %v, want 0", i, r.Return)
		}
		if r.Volatility != 0 {
			t.Fatalf("row %d: volatility %v, want 0", i, r.Volatility)
		}
	}
}
