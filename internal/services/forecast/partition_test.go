package forecast

import (
	"errors"
	"testing"

	"StockCast/internal/domain/models"
)

func TestSplitNumbersDaysContinuously(t *testing.T) {
	rows := make([]models.FeatureRow, 40)
	part, err := Split(rows, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(part.Train) != 30 || len(part.Evaluation) != 10 {
		t.Fatalf("got train=%d eval=%d, want 30/10", len(part.Train), len(part.Evaluation))
	}
	for i, r := range part.Train {
		if r.Day != i {
			t.Fatalf("train row %d has day %d", i, r.Day)
		}
	}
	for i, r := range part.Evaluation {
		if r.Day != 30+i {
			t.Fatalf("eval row %d has day %d, want %d", i, r.Day, 30+i)
		}
	}
}

func TestSplitDoesNotMutateInput(t *testing.T) {
	rows := make([]models.FeatureRow, 20)
	if _, err := Split(rows, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, r := range rows {
		if r.Day != 0 {
			t.Fatalf("input row %d mutated: day %d", i, r.Day)
		}
	}
}

func TestSplitTooShort(t *testing.T) {
	rows := make([]models.FeatureRow, 10)
	_, err := Split(rows, 10)
	var insufficient *models.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if insufficient.Have != 10 || insufficient.Need != 11 {
		t.Fatalf("unexpected have/need: %d/%d", insufficient.Have, insufficient.Need)
	}
}
