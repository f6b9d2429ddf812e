package forecast

import "StockCast/internal/domain/models"

// Split partitions engineered rows into a training segment and the most
// recent window of the given size, assigning each row its day ordinal:
// the training segment is numbered 0..len(train)-1 and the evaluation
// segment continues the numbering without a gap.
func Split(rows []models.FeatureRow, window int) (models.Partition, error) {
	if len(rows) <= window {
		return models.Partition{}, &models.InsufficientDataError{Have: len(rows), Need: window + 1}
	}

	numbered := make([]models.FeatureRow, len(rows))
	copy(numbered, rows)
	for i := range numbered {
		numbered[i].Day = i
	}

	cut := len(numbered) - window
	return models.Partition{
		Train:      numbered[:cut],
		Evaluation: numbered[cut:],
	}, nil
}
