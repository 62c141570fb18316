package maintenance

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andrewpaige1/studyflash-api/models"
)

// Result reports how many rows a sweep removed.
type Result struct {
	Flashcards   int64
	AttemptCards int64
}

// Sweeper removes rows left behind when a parent was deleted outside a
// cascade.
type Sweeper struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewSweeper(db *gorm.DB, log *zap.Logger) *Sweeper {
	return &Sweeper{db: db, log: log}
}

// Sweep deletes flashcards whose set is gone and attempt cards whose attempt
// is gone.
func (s *Sweeper) Sweep(ctx context.Context) (Result, error) {
	var res Result
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cards := tx.Where("set_id NOT IN (?)", tx.Model(&models.FlashcardSet{}).Select("id")).
			Delete(&models.Flashcard{})
		if cards.Error != nil {
			return fmt.Errorf("sweep flashcards: %w", cards.Error)
		}
		res.Flashcards = cards.RowsAffected

		results := tx.Where("attempt_id NOT IN (?)", tx.Model(&models.Attempt{}).Select("id")).
			Delete(&models.AttemptCard{})
		if results.Error != nil {
			return fmt.Errorf("sweep attempt cards: %w", results.Error)
		}
		res.AttemptCards = results.RowsAffected
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	s.log.Info("sweep finished",
		zap.Int64("flashcards", res.Flashcards),
		zap.Int64("attempt_cards", res.AttemptCards),
	)
	return res, nil
}

// Run sweeps every interval until ctx is cancelled. Failed sweeps are logged
// and retried on the next tick.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				s.log.Error("sweep failed", zap.Error(err))
			}
		}
	}
}
