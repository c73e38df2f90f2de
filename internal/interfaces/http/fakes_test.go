package http_test

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/Insumos-api/internal/domain"
	"github.com/jhoicas/Insumos-api/internal/domain/entity"
	"github.com/jhoicas/Insumos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria para los tests del router
// ──────────────────────────────────────────────────────────────────────────────

type memUsers struct {
	mu    sync.Mutex
	users []*entity.User
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append(m.users, u)
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

type memItems struct {
	mu      sync.Mutex
	records []*entity.CatalogItem
}

var _ repository.CatalogItemRepository = (*memItems)(nil)

func (m *memItems) sorted() []*entity.CatalogItem {
	out := append([]*entity.CatalogItem(nil), m.records...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m *memItems) CreateBatch(_ context.Context, items []*entity.CatalogItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, items...)
	return nil
}

func (m *memItems) GetByID(_ context.Context, id string) (*entity.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memItems) FindEquivalent(_ context.Context, item *entity.CatalogItem) (*entity.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.Name == item.Name && r.Unit == item.Unit && r.UnitPrice.Equal(item.UnitPrice) &&
			r.EmissionDate == item.EmissionDate && (item.Code == "" || r.Code == item.Code) {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memItems) ListRecent(_ context.Context, limit int) ([]*entity.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sorted()
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *memItems) ListPage(ctx context.Context, afterID string, limit int) ([]*entity.CatalogItem, error) {
	m.mu.Lock()
	all := m.sorted()
	m.mu.Unlock()
	for i, r := range all {
		if r.ID == afterID {
			rest := all[i+1:]
			if len(rest) > limit {
				rest = rest[:limit]
			}
			return rest, nil
		}
	}
	return m.ListRecent(ctx, limit)
}

func (m *memItems) ListCodes(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var codes []string
	for _, r := range m.records {
		if r.Code != "" {
			codes = append(codes, r.Code)
		}
	}
	return codes, nil
}

func (m *memItems) Update(_ context.Context, item *entity.CatalogItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if r.ID == item.ID {
			m.records[i] = item
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memItems) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if r.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type memTx struct{ items *memItems }

func (t memTx) RunCatalog(_ context.Context, fn func(items repository.CatalogItemRepository) error) error {
	return fn(t.items)
}

type memInvoices struct {
	mu      sync.Mutex
	records map[string]*entity.InvoiceRecord
}

func (m *memInvoices) CreateIfAbsent(_ context.Context, rec *entity.InvoiceRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records == nil {
		m.records = map[string]*entity.InvoiceRecord{}
	}
	if _, ok := m.records[rec.ID]; ok {
		return false, nil
	}
	m.records[rec.ID] = rec
	return true, nil
}

func (m *memInvoices) GetByID(_ context.Context, id string) (*entity.InvoiceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[id], nil
}

func (m *memInvoices) SetStoragePath(context.Context, string, string) error { return nil }

type memProducts struct {
	mu    sync.Mutex
	items []*entity.Product
}

func (m *memProducts) Create(_ context.Context, p *entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.items {
		if x.NameLower == p.NameLower {
			return domain.ErrDuplicate
		}
	}
	m.items = append(m.items, p)
	return nil
}

func (m *memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.items {
		if x.ID == id {
			return x, nil
		}
	}
	return nil, nil
}

func (m *memProducts) GetByNameLower(_ context.Context, nameLower string) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.items {
		if x.NameLower == nameLower {
			return x, nil
		}
	}
	return nil, nil
}

func (m *memProducts) ListRecent(_ context.Context, limit int) ([]*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Product, 0, limit)
	for i := len(m.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.items[i])
	}
	return out, nil
}

type stubSheets struct{}

func (stubSheets) GenerateCostSheet(context.Context, *entity.Product) ([]byte, error) {
	return []byte("%PDF-1.4 ficha"), nil
}
