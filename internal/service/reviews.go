package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookly/internal/models"
)

// Reviews provides persistence operations for book reviews.
type Reviews struct {
	db *gorm.DB
}

func NewReviews(db *gorm.DB) *Reviews {
	return &Reviews{db: db}
}

// Add stores a review by userID on bookID. A missing book yields ErrNotFound.
func (s *Reviews) Add(ctx context.Context, userID, bookID uuid.UUID, rating int, comment string) (*models.Review, error) {
	var book models.Book
	err := s.db.WithContext(ctx).Select("id").First(&book, "id = ?", bookID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup book: %w", err)
	}

	review := models.Review{
		BookID:  bookID,
		UserID:  userID,
		Rating:  rating,
		Comment: comment,
	}
	if err := s.db.WithContext(ctx).Create(&review).Error; err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return &review, nil
}
