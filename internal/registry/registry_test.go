package registry

import (
	"context"
	"errors"
	"sync"
	"testing"

	"shortly/internal/repo"
	"shortly/models"
	"shortly/utils"
)

// memRepo is an in-memory LinkRepository enforcing the same uniqueness
// invariant as the Postgres store.
type memRepo struct {
	mu     sync.Mutex
	nextID uint64
	byID   map[uint64]*models.Link
	byCode map[string]*models.Link
}

func newMemRepo() *memRepo {
	return &memRepo{
		byID:   make(map[uint64]*models.Link),
		byCode: make(map[string]*models.Link),
	}
}

func (m *memRepo) Insert(ctx context.Context, link *models.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byCode[link.ShortCode]; exists {
		return repo.ErrDuplicateCode
	}
	m.nextID++
	link.ID = m.nextID
	stored := *link
	m.byID[link.ID] = &stored
	m.byCode[link.ShortCode] = &stored
	return nil
}

func (m *memRepo) FindByCode(ctx context.Context, code string) (*models.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	link, ok := m.byCode[code]
	if !ok {
		return nil, repo.ErrNotFound
	}
	out := *link
	return &out, nil
}

func (m *memRepo) FindByID(ctx context.Context, id uint64) (*models.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	link, ok := m.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	out := *link
	return &out, nil
}

func (m *memRepo) List(ctx context.Context, limit, offset int) ([]models.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Link
	for id := m.nextID; id > 0 && len(out) < limit+offset; id-- {
		if link, ok := m.byID[id]; ok {
			out = append(out, *link)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	return out[offset:], nil
}

func (m *memRepo) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byID)), nil
}

func (m *memRepo) UpdateLongURL(ctx context.Context, id uint64, longURL string) (*models.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	link, ok := m.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	link.LongURL = longURL
	out := *link
	return &out, nil
}

func (m *memRepo) Delete(ctx context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if link, ok := m.byID[id]; ok {
		delete(m.byCode, link.ShortCode)
		delete(m.byID, id)
	}
	return nil
}

func newTestRegistry() (*Registry, *memRepo) {
	store := newMemRepo()
	return New(store, nil), store
}

func TestCreateResolveRoundTrip(t *testing.T) {
	reg, _ := newTestRegistry()
	ctx := context.Background()

	link, err := reg.Create(ctx, "https://example.com")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(link.ShortCode) != utils.DefaultCodeLength {
		t.Errorf("code %q has length %d, want %d", link.ShortCode, len(link.ShortCode), utils.DefaultCodeLength)
	}
	if link.ID == 0 {
		t.Error("Create did not assign an id")
	}

	got, err := reg.Resolve(ctx, link.ShortCode)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://example.com" {
		t.Errorf("Resolve = %q, want original URL", got)
	}
}

func TestCreateSameURLTwice(t *testing.T) {
	reg, _ := newTestRegistry()
	ctx := context.Background()
	const dest = "https://example.com/page"

	first, err := reg.Create(ctx, dest)
	if err != nil {
		t.Fatalf("Create #1: %v", err)
	}
	second, err := reg.Create(ctx, dest)
	if err != nil {
		t.Fatalf("Create #2: %v", err)
	}
	if first.ShortCode == second.ShortCode {
		t.Fatalf("two creates yielded the same code %q", first.ShortCode)
	}
	for _, link := range []*models.Link{first, second} {
		got, err := reg.Resolve(ctx, link.ShortCode)
		if err != nil || got != dest {
			t.Errorf("Resolve(%q) = %q, %v; want %q", link.ShortCode, got, err, dest)
		}
	}
}

func TestResolveUnknownCode(t *testing.T) {
	reg, _ := newTestRegistry()

	_, err := reg.Resolve(context.Background(), "nothere")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve unknown code: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteThenResolve(t *testing.T) {
	reg, _ := newTestRegistry()
	ctx := context.Background()

	link, err := reg.Create(ctx, "https://example.com")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := reg.Delete(ctx, link.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := reg.Resolve(ctx, link.ShortCode); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve after delete: err = %v, want ErrNotFound", err)
	}
	// Deleting again is still a success.
	if err := reg.Delete(ctx, link.ID); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestUpdateThenResolve(t *testing.T) {
	reg, _ := newTestRegistry()
	ctx := context.Background()

	link, err := reg.Create(ctx, "https://old.example.com")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := reg.Update(ctx, link.ID, "https://new.example.com")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ShortCode != link.ShortCode {
		t.Errorf("Update changed the code: %q -> %q", link.ShortCode, updated.ShortCode)
	}
	got, err := reg.Resolve(ctx, link.ShortCode)
	if err != nil || got != "https://new.example.com" {
		t.Errorf("Resolve after update = %q, %v", got, err)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	reg, _ := newTestRegistry()

	_, err := reg.Update(context.Background(), 42, "https://example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update unknown id: err = %v, want ErrNotFound", err)
	}
}

func TestCreateRetriesOnCollision(t *testing.T) {
	store := newMemRepo()
	codes := []string{"aaaaaaa", "aaaaaaa", "bbbbbbb"}
	i := 0
	gen := func() (string, error) {
		code := codes[i]
		i++
		return code, nil
	}
	reg := New(store, gen)
	ctx := context.Background()

	first, err := reg.Create(ctx, "https://one.example.com")
	if err != nil {
		t.Fatalf("Create #1: %v", err)
	}
	if first.ShortCode != "aaaaaaa" {
		t.Fatalf("first code = %q", first.ShortCode)
	}

	// The generator hands out the taken code once more; the registry must
	// retry with the next candidate instead of failing or overwriting.
	second, err := reg.Create(ctx, "https://two.example.com")
	if err != nil {
		t.Fatalf("Create #2: %v", err)
	}
	if second.ShortCode != "bbbbbbb" {
		t.Errorf("second code = %q, want the retried candidate", second.ShortCode)
	}

	got, err := reg.Resolve(ctx, "aaaaaaa")
	if err != nil || got != "https://one.example.com" {
		t.Errorf("first record damaged: %q, %v", got, err)
	}
	if n, _ := store.Count(ctx); n != 2 {
		t.Errorf("store holds %d records, want 2", n)
	}
}

func TestCreateExhaustsRetries(t *testing.T) {
	store := newMemRepo()
	gen := func() (string, error) { return "stuckkk", nil }
	reg := New(store, gen)
	ctx := context.Background()

	if _, err := reg.Create(ctx, "https://first.example.com"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := reg.Create(ctx, "https://second.example.com")
	if !errors.Is(err, ErrCodeSpaceExhausted) {
		t.Errorf("err = %v, want ErrCodeSpaceExhausted", err)
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Errorf("store holds %d records, want 1", n)
	}
}

func TestCreateRejectsBlankURL(t *testing.T) {
	reg, _ := newTestRegistry()

	_, err := reg.Create(context.Background(), "")
	if !errors.Is(err, ErrInvalidURL) {
		t.Errorf("err = %v, want ErrInvalidURL", err)
	}
}

func TestCreatePropagatesStoreErrors(t *testing.T) {
	boom := errors.New("connection refused")
	reg := New(failingRepo{err: boom}, func() (string, error) { return "aaaaaaa", nil })

	_, err := reg.Create(context.Background(), "https://example.com")
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want the store error untouched", err)
	}
}

func TestListRecentPagination(t *testing.T) {
	reg, _ := newTestRegistry()
	ctx := context.Background()

	var created []*models.Link
	for i := 0; i < 5; i++ {
		link, err := reg.Create(ctx, "https://example.com/page")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		created = append(created, link)
	}

	rows, total, err := reg.ListRecent(ctx, 1, 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(rows) != 2 {
		t.Fatalf("page 1 has %d rows, want 2", len(rows))
	}
	// Most recently created first.
	if rows[0].ID != created[4].ID || rows[1].ID != created[3].ID {
		t.Errorf("page 1 ids = %d, %d; want %d, %d", rows[0].ID, rows[1].ID, created[4].ID, created[3].ID)
	}

	rows, _, err = reg.ListRecent(ctx, 3, 2)
	if err != nil {
		t.Fatalf("ListRecent page 3: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != created[0].ID {
		t.Errorf("last page = %+v, want only the oldest record", rows)
	}

	// Out-of-range page parameters fall back to sane defaults.
	rows, _, err = reg.ListRecent(ctx, 0, 0)
	if err != nil {
		t.Fatalf("ListRecent(0,0): %v", err)
	}
	if len(rows) != 5 {
		t.Errorf("default page has %d rows, want all 5", len(rows))
	}
}

// failingRepo returns the same error from every operation.
type failingRepo struct {
	err error
}

func (f failingRepo) Insert(ctx context.Context, link *models.Link) error { return f.err }
func (f failingRepo) FindByCode(ctx context.Context, code string) (*models.Link, error) {
	return nil, f.err
}
func (f failingRepo) FindByID(ctx context.Context, id uint64) (*models.Link, error) {
	return nil, f.err
}
func (f failingRepo) List(ctx context.Context, limit, offset int) ([]models.Link, error) {
	return nil, f.err
}
func (f failingRepo) Count(ctx context.Context) (int64, error) { return 0, f.err }
func (f failingRepo) UpdateLongURL(ctx context.Context, id uint64, longURL string) (*models.Link, error) {
	return nil, f.err
}
func (f failingRepo) Delete(ctx context.Context, id uint64) error { return f.err }
