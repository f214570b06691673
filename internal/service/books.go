package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookly/internal/models"
)

// Books provides persistence operations for catalog entries.
type Books struct {
	db *gorm.DB
}

func NewBooks(db *gorm.DB) *Books {
	return &Books{db: db}
}

// List returns all books, newest first.
func (s *Books) List(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (s *Books) Get(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	var book models.Book
	err := s.db.WithContext(ctx).Preload("Reviews").First(&book, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &book, nil
}

func (s *Books) Create(ctx context.Context, book *models.Book) error {
	if err := s.db.WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

// Update applies a partial update and returns the refreshed record.
func (s *Books) Update(ctx context.Context, id uuid.UUID, changes map[string]any) (*models.Book, error) {
	book, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(book).Updates(changes).Error; err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	return book, nil
}

func (s *Books) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.Book{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
