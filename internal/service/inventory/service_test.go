package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/mamadbah2/inventaire/internal/domain/models"
)

// mockRepo is an in-memory, mutex-guarded stand-in for the MongoDB repository.
type mockRepo struct {
	mu       sync.Mutex
	counters map[string]int64
	items    map[string]models.InventoryItem
	nextID   int
	seqErr   error
	seqCalls int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		counters: make(map[string]int64),
		items:    make(map[string]models.InventoryItem),
	}
}

func (m *mockRepo) NextSequence(ctx context.Context, ownerID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seqCalls++
	if m.seqErr != nil {
		return 0, m.seqErr
	}
	m.counters[ownerID]++
	return m.counters[ownerID], nil
}

func (m *mockRepo) InsertItem(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.OwnerID == item.OwnerID && existing.DisplayID == item.DisplayID {
			return models.InventoryItem{}, models.ErrConflict
		}
	}
	m.nextID++
	item.ID = strconv.Itoa(m.nextID)
	m.items[item.ID] = item
	return item, nil
}

func (m *mockRepo) ItemsByOwner(ctx context.Context, ownerID string) ([]models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.InventoryItem
	for _, item := range m.items {
		if item.OwnerID == ownerID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockRepo) ItemByID(ctx context.Context, ownerID, id string) (models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok || item.OwnerID != ownerID {
		return models.InventoryItem{}, models.ErrNotFound
	}
	return item, nil
}

func (m *mockRepo) SearchItems(ctx context.Context, ownerID, query string) ([]models.InventoryItem, error) {
	return m.ItemsByOwner(ctx, ownerID)
}

func (m *mockRepo) UpdateItem(ctx context.Context, ownerID, id string, patch models.UpdateItemInput, now time.Time) (models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return models.InventoryItem{}, models.ErrNotFound
	}
	if item.OwnerID != ownerID {
		return models.InventoryItem{}, models.ErrForbidden
	}
	if patch.ProductName != nil {
		item.ProductName = *patch.ProductName
	}
	if patch.Category != nil {
		item.Category = models.Category(*patch.Category)
	}
	if patch.Supplier != nil {
		item.Supplier = *patch.Supplier
	}
	if patch.StockStatus != nil {
		item.StockStatus = models.StockStatus(*patch.StockStatus)
	}
	if patch.CostPerUnit != nil {
		item.CostPerUnit = *patch.CostPerUnit
	}
	if patch.WarehouseCode != nil {
		item.WarehouseCode = *patch.WarehouseCode
	}
	item.LastUpdated = now
	m.items[id] = item
	return item, nil
}

func (m *mockRepo) DeleteItem(ctx context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return models.ErrNotFound
	}
	if item.OwnerID != ownerID {
		return models.ErrForbidden
	}
	delete(m.items, id)
	return nil
}

func (m *mockRepo) DistinctOwners(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	var owners []string
	for _, item := range m.items {
		if !seen[item.OwnerID] {
			seen[item.OwnerID] = true
			owners = append(owners, item.OwnerID)
		}
	}
	return owners, nil
}

func validInput() models.CreateItemInput {
	return models.CreateItemInput{
		ProductName:   "USB Cable",
		Category:      "Electronics",
		Supplier:      "Acme",
		CostPerUnit:   10,
		WarehouseCode: "wh-1",
	}
}

func TestCreate_Success(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)

	item, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if item.DisplayID != "INV-001" {
		t.Errorf("DisplayID = %q, want INV-001", item.DisplayID)
	}
	if item.WarehouseCode != "WH-1" {
		t.Errorf("WarehouseCode = %q, want uppercased WH-1", item.WarehouseCode)
	}
	if item.StockStatus != models.StockStatusInStock {
		t.Errorf("StockStatus = %q, want default InStock", item.StockStatus)
	}
	if item.OwnerID != "user-1" {
		t.Errorf("OwnerID = %q, want user-1", item.OwnerID)
	}
	if item.LastUpdated.IsZero() {
		t.Error("LastUpdated should be set on creation")
	}
}

func TestCreate_ValidationErrorDoesNotConsumeSequence(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)

	bad := validInput()
	bad.ProductName = "   "
	_, err := svc.Create(context.Background(), "user-1", bad)

	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := ve.Fields["productName"]; !ok {
		t.Errorf("expected productName error, got %v", ve.Fields)
	}
	if repo.seqCalls != 0 {
		t.Errorf("allocator invoked %d times for rejected submission", repo.seqCalls)
	}

	// The next successful creation still gets the first number.
	item, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if item.DisplayID != "INV-001" {
		t.Errorf("DisplayID = %q, want INV-001 after rejected attempt", item.DisplayID)
	}
}

func TestCreate_SequencePerOwner(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)

	a, err := svc.Create(context.Background(), "owner-a", validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	b, err := svc.Create(context.Background(), "owner-b", validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Identifiers are unique per owner, not globally.
	if a.DisplayID != "INV-001" || b.DisplayID != "INV-001" {
		t.Errorf("DisplayIDs = %q/%q, want both INV-001", a.DisplayID, b.DisplayID)
	}
}

func TestCreate_ConcurrentDistinctIdentifiers(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)

	const n = 50
	var wg sync.WaitGroup
	ids := make(chan string, n)
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			item, err := svc.Create(context.Background(), "user-1", validInput())
			if err != nil {
				errs <- err
				return
			}
			ids <- item.DisplayID
		}()
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent create failed: %v", err)
	}

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate display id %q under concurrency", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Errorf("got %d distinct ids, want %d", len(seen), n)
	}
	if repo.counters["user-1"] != n {
		t.Errorf("counter = %d, want exactly %d", repo.counters["user-1"], n)
	}
}

func TestCreate_AllocatorFailureFailsClosed(t *testing.T) {
	repo := newMockRepo()
	repo.seqErr = fmt.Errorf("%w: connection refused", models.ErrServiceUnavailable)
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), "user-1", validInput())
	if !errors.Is(err, models.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
	if len(repo.items) != 0 {
		t.Error("no item must be persisted when allocation fails")
	}
}

func TestCreate_DeletedNumberNeverReused(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)

	first, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Delete(context.Background(), "user-1", first.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	second, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if second.DisplayID != "INV-002" {
		t.Errorf("DisplayID = %q, want INV-002 (deletion never reclaims numbers)", second.DisplayID)
	}
}

func TestGet_ForeignOwnerIsNotFound(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)

	item, err := svc.Create(context.Background(), "owner-a", validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.Get(context.Background(), "owner-b", item.ID)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign item, got %v", err)
	}
}

func TestSearch_EmptyQueryRejected(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)

	_, err := svc.Search(context.Background(), "user-1", "   ")
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestUpdate_NormalizesAndKeepsDisplayID(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)

	item, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	code := " wh-east "
	updated, err := svc.Update(context.Background(), "user-1", item.ID, models.UpdateItemInput{WarehouseCode: &code})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.WarehouseCode != "WH-EAST" {
		t.Errorf("WarehouseCode = %q, want WH-EAST", updated.WarehouseCode)
	}
	if updated.DisplayID != item.DisplayID {
		t.Errorf("DisplayID changed from %q to %q on update", item.DisplayID, updated.DisplayID)
	}
}

func TestUpdate_EmptyPatchRejected(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)

	item, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.Update(context.Background(), "user-1", item.ID, models.UpdateItemInput{})
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for empty patch, got %v", err)
	}
}

func TestUpdate_InvalidPatchRejected(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)

	item, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	bad := -3.0
	_, err = svc.Update(context.Background(), "user-1", item.ID, models.UpdateItemInput{CostPerUnit: &bad})

	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestDelete_ForeignOwnerForbidden(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)

	item, err := svc.Create(context.Background(), "owner-a", validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err = svc.Delete(context.Background(), "owner-b", item.ID)
	if !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(repo.items) != 1 {
		t.Error("item must survive a foreign delete attempt")
	}
}
