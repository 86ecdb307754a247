package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"shortly/models"
)

var (
	// ErrNotFound means no record matched; callers treat this as a normal
	// outcome, not a failure.
	ErrNotFound = errors.New("link not found")
	// ErrDuplicateCode means an insert hit the unique index on short_code.
	ErrDuplicateCode = errors.New("short code already exists")
)

// LinkRepository is the persistence boundary for link records. The store
// enforces short_code uniqueness; a violated insert fails atomically with
// ErrDuplicateCode and leaves no partial state.
type LinkRepository interface {
	Insert(ctx context.Context, link *models.Link) error
	FindByCode(ctx context.Context, code string) (*models.Link, error)
	FindByID(ctx context.Context, id uint64) (*models.Link, error)
	List(ctx context.Context, limit, offset int) ([]models.Link, error)
	Count(ctx context.Context) (int64, error)
	UpdateLongURL(ctx context.Context, id uint64, longURL string) (*models.Link, error)
	Delete(ctx context.Context, id uint64) error
}

type linkRepository struct {
	db *gorm.DB
}

// NewLinkRepository wraps a GORM handle in the LinkRepository interface.
func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) Insert(ctx context.Context, link *models.Link) error {
	err := r.db.WithContext(ctx).Create(link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateCode
		}
		return err
	}
	return nil
}

func (r *linkRepository) FindByCode(ctx context.Context, code string) (*models.Link, error) {
	var link models.Link
	err := r.db.WithContext(ctx).Where("short_code = ?", code).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *linkRepository) FindByID(ctx context.Context, id uint64) (*models.Link, error) {
	var link models.Link
	err := r.db.WithContext(ctx).First(&link, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *linkRepository) List(ctx context.Context, limit, offset int) ([]models.Link, error) {
	var links []models.Link
	err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Offset(offset).Find(&links).Error
	return links, err
}

func (r *linkRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Link{}).Count(&count).Error
	return count, err
}

func (r *linkRepository) UpdateLongURL(ctx context.Context, id uint64, longURL string) (*models.Link, error) {
	result := r.db.WithContext(ctx).Model(&models.Link{}).Where("id = ?", id).Update("long_url", longURL)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *linkRepository) Delete(ctx context.Context, id uint64) error {
	// Deleting an absent id is not an error; the row count is not checked.
	return r.db.WithContext(ctx).Delete(&models.Link{}, id).Error
}
