package handlers

import (
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/andrewpaige1/studyflash-api/models"
)

type cardInput struct {
	Front    string   `json:"front"`
	Back     string   `json:"back"`
	Tags     []string `json:"tags"`
	IsPublic bool     `json:"isPublic"`
}

func (c cardInput) toFlashcard(set *models.FlashcardSet) (models.Flashcard, error) {
	front := strings.TrimSpace(c.Front)
	back := strings.TrimSpace(c.Back)
	if front == "" || back == "" {
		return models.Flashcard{}, badRequest("Each flashcard must have a front and back")
	}

	publicID, err := newPublicID()
	if err != nil {
		return models.Flashcard{}, err
	}

	return models.Flashcard{
		PublicID:      publicID,
		Front:         front,
		Back:          back,
		IsPublic:      c.IsPublic,
		Tags:          datatypes.JSONSlice[string](cleanTags(c.Tags)),
		UserID:        set.UserID,
		SetID:         set.ID,
		OwnerUsername: set.OwnerUsername,
		SetPublicID:   set.PublicID,
	}, nil
}

// createSetWithCards stores set and its initial cards atomically. Any invalid
// card rolls the whole set back.
func createSetWithCards(tx *gorm.DB, set *models.FlashcardSet, cards []cardInput) ([]models.Flashcard, error) {
	created := make([]models.Flashcard, 0, len(cards))

	err := tx.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(set).Error; err != nil {
			return err
		}

		for _, input := range cards {
			flashcard, err := input.toFlashcard(set)
			if err != nil {
				return err
			}
			if err := tx.Create(&flashcard).Error; err != nil {
				return err
			}
			created = append(created, flashcard)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// deleteSetCascade removes a set's flashcards and then the set itself in one
// transaction, returning how many flashcards went with it. Children go first
// so no surviving set ever points at missing cards.
func deleteSetCascade(tx *gorm.DB, set *models.FlashcardSet) (int64, error) {
	var deleted int64

	err := tx.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("set_id = ?", set.ID).Delete(&models.Flashcard{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected

		result = tx.Delete(&models.FlashcardSet{}, set.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return notFound("Set not found")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}
