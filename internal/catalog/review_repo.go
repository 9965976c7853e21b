package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightcart/storefront-backend/pkg/db/models"
)

// ReviewRepository exposes review persistence operations.
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository constructs a review repo bound to the provided GORM DB.
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// ListByProduct returns the reviews for a product, newest first.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// Upsert creates the user's review or replaces their previous one.
func (r *ReviewRepository) Upsert(ctx context.Context, review *models.Review) (*models.Review, error) {
	tx := r.db.WithContext(ctx)

	var existing models.Review
	err := tx.Where("product_id = ? AND user_id = ?", review.ProductID, review.UserID).
		First(&existing).Error
	switch {
	case err == nil:
		existing.Rating = review.Rating
		existing.Comment = review.Comment
		if err := tx.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	case err == gorm.ErrRecordNotFound:
		if err := tx.Create(review).Error; err != nil {
			return nil, err
		}
		return review, nil
	default:
		return nil, err
	}
}

type ratingRow struct {
	ProductID uuid.UUID
	Average   float64
	Count     int
}

// RatingsFor aggregates the average rating and review count per product.
func (r *ReviewRepository) RatingsFor(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]RatingSummary, error) {
	summaries := make(map[uuid.UUID]RatingSummary, len(productIDs))
	if len(productIDs) == 0 {
		return summaries, nil
	}

	var rows []ratingRow
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("product_id, AVG(rating) AS average, COUNT(*) AS count").
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		summaries[row.ProductID] = RatingSummary{
			Average: row.Average,
			Count:   row.Count,
		}
	}
	return summaries, nil
}
