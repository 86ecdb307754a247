package registry

import (
	"context"
	"errors"
	"fmt"

	"shortly/internal/repo"
	"shortly/models"
	"shortly/utils"
)

// maxCreateAttempts bounds the collision-retry loop in Create. Five fresh
// candidates against a 36^7 code space failing in a row means something is
// wrong with the store, not bad luck.
const maxCreateAttempts = 5

var (
	// ErrNotFound is returned when a code or id matches no live record.
	ErrNotFound = repo.ErrNotFound
	// ErrCodeSpaceExhausted is returned when every generated candidate
	// collided with an existing code.
	ErrCodeSpaceExhausted = errors.New("could not allocate a unique short code")
	// ErrInvalidURL is returned for a blank destination URL.
	ErrInvalidURL = errors.New("long_url is required")
)

// CodeFunc produces one fresh short-code candidate per call.
type CodeFunc func() (string, error)

// DefaultCodeFunc samples codes of length n from the standard alphabet.
func DefaultCodeFunc(n int) CodeFunc {
	return func() (string, error) {
		return utils.RandomCode(n)
	}
}

// Registry is the single authority for allocating short codes and
// resolving them back to URLs. It is stateless between calls; all durable
// state lives in the injected repository.
type Registry struct {
	repo repo.LinkRepository
	gen  CodeFunc
}

func New(r repo.LinkRepository, gen CodeFunc) *Registry {
	if gen == nil {
		gen = DefaultCodeFunc(utils.DefaultCodeLength)
	}
	return &Registry{repo: r, gen: gen}
}

// Create allocates a fresh code for longURL and persists the mapping.
// A duplicate-code insert is retried with a newly generated candidate;
// a rejected candidate is never reused. Any other store error aborts.
func (r *Registry) Create(ctx context.Context, longURL string) (*models.Link, error) {
	if longURL == "" {
		return nil, ErrInvalidURL
	}
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		code, err := r.gen()
		if err != nil {
			return nil, fmt.Errorf("generate code: %w", err)
		}
		link := &models.Link{LongURL: longURL, ShortCode: code}
		err = r.repo.Insert(ctx, link)
		if err == nil {
			return link, nil
		}
		if !errors.Is(err, repo.ErrDuplicateCode) {
			return nil, err
		}
	}
	return nil, ErrCodeSpaceExhausted
}

// Resolve returns the destination URL for a code, or ErrNotFound. The
// caller performs the actual redirect.
func (r *Registry) Resolve(ctx context.Context, code string) (string, error) {
	link, err := r.repo.FindByCode(ctx, code)
	if err != nil {
		return "", err
	}
	return link.LongURL, nil
}

// Get returns the record for an id, or ErrNotFound.
func (r *Registry) Get(ctx context.Context, id uint64) (*models.Link, error) {
	return r.repo.FindByID(ctx, id)
}

// ListRecent returns one page of records ordered most-recently-created
// first (descending id), plus the total record count. Pages are 1-based.
func (r *Registry) ListRecent(ctx context.Context, page, limit int) ([]models.Link, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	rows, err := r.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Update replaces the destination URL of the record with the given id.
// The short code is never touched.
func (r *Registry) Update(ctx context.Context, id uint64, longURL string) (*models.Link, error) {
	if longURL == "" {
		return nil, ErrInvalidURL
	}
	return r.repo.UpdateLongURL(ctx, id, longURL)
}

// Delete removes the record with the given id. Deleting an absent id
// succeeds; the two cases are indistinguishable to the caller.
func (r *Registry) Delete(ctx context.Context, id uint64) error {
	return r.repo.Delete(ctx, id)
}
