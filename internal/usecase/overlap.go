package usecase

import (
	"time"

	"appointment-booking/internal/data/entity"
)

// Slot windows are half-open [start, end): back-to-back slots do not conflict.
func windowsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// firstPairConflict checks adjacent pairs. Slots must be sorted by StartAt.
func firstPairConflict(slots []*entity.Slot) (*entity.Slot, *entity.Slot) {
	for i := 1; i < len(slots); i++ {
		prev, curr := slots[i-1], slots[i]
		if windowsOverlap(prev.StartAt, prev.EndAt, curr.StartAt, curr.EndAt) {
			return prev, curr
		}
	}
	return nil, nil
}

func firstConflictAgainst(candidates, existing []*entity.Slot) (*entity.Slot, *entity.Slot) {
	for _, candidate := range candidates {
		for _, current := range existing {
			if windowsOverlap(candidate.StartAt, candidate.EndAt, current.StartAt, current.EndAt) {
				return candidate, current
			}
		}
	}
	return nil, nil
}
