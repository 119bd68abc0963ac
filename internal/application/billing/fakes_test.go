package billing_test

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/Facturas-api/internal/application/billing"
	"github.com/jhoicas/Facturas-api/internal/domain/entity"
	"github.com/jhoicas/Facturas-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los casos de uso (guardan copias, como lo haría la DB)
// ──────────────────────────────────────────────────────────────────────────────

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]entity.User)}
}

func (r *memUserRepo) Create(user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

type memClientRepo struct {
	mu      sync.Mutex
	clients map[string]entity.Client
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{clients: make(map[string]entity.Client)}
}

func (r *memClientRepo) Create(client *entity.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[client.ID] = *client
	return nil
}

func (r *memClientRepo) GetByID(id string) (*entity.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clients[id]; ok {
		cp := c
		return &cp, nil
	}
	return nil, nil
}

func (r *memClientRepo) ListByUser(userID string, limit, offset int) ([]*entity.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Client
	for _, c := range r.clients {
		if c.UserID == userID {
			cp := c
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return page(list, limit, offset), nil
}

func (r *memClientRepo) Update(client *entity.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[client.ID] = *client
	return nil
}

func (r *memClientRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, id)
	return nil
}

type memInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[string]entity.Invoice
	items    map[string][]entity.InvoiceItem // por invoiceID, en orden de Position
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{
		invoices: make(map[string]entity.Invoice),
		items:    make(map[string][]entity.InvoiceItem),
	}
}

func (r *memInvoiceRepo) Create(invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[invoice.ID] = *invoice
	return nil
}

func (r *memInvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.InvoiceID] = append(r.items[item.InvoiceID], *item)
	return nil
}

func (r *memInvoiceRepo) Update(invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[invoice.ID] = *invoice
	return nil
}

func (r *memInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.invoices[id]; ok {
		cp := inv
		return &cp, nil
	}
	return nil, nil
}

func (r *memInvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.items[invoiceID]
	out := make([]*entity.InvoiceItem, 0, len(stored))
	for _, it := range stored {
		cp := it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *memInvoiceRepo) ListByUser(userID string, limit, offset int) ([]*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Invoice
	for _, inv := range r.invoices {
		if inv.UserID == userID {
			cp := inv
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].InvoiceNumber < list[j].InvoiceNumber })
	return page(list, limit, offset), nil
}

func (r *memInvoiceRepo) DeleteItemsByInvoiceID(invoiceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, invoiceID)
	return nil
}

func (r *memInvoiceRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.invoices, id)
	return nil
}

func (r *memInvoiceRepo) CountByClient(clientID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, inv := range r.invoices {
		if inv.ClientID == clientID {
			count++
		}
	}
	return count, nil
}

type memSettingsRepo struct {
	mu       sync.Mutex
	settings map[string]entity.UserSettings
	defaults billing.Defaults
}

func newMemSettingsRepo(defaults billing.Defaults) *memSettingsRepo {
	return &memSettingsRepo{settings: make(map[string]entity.UserSettings), defaults: defaults}
}

func (r *memSettingsRepo) Get(userID string) (*entity.UserSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.settings[userID]; ok {
		cp := s
		return &cp, nil
	}
	return nil, nil
}

func (r *memSettingsRepo) Upsert(settings *entity.UserSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.settings[settings.UserID]; ok {
		// el contador no se pisa por esta vía
		settings.NextInvoiceNumber = existing.NextInvoiceNumber
	}
	r.settings[settings.UserID] = *settings
	return nil
}

// IncrementInvoiceNumber emite bajo lock: equivale al upsert atómico de la DB.
func (r *memSettingsRepo) IncrementInvoiceNumber(userID string) (string, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[userID]
	if !ok {
		s = *r.defaults.Seed(userID)
	}
	issued := s.NextInvoiceNumber
	s.NextInvoiceNumber++
	r.settings[userID] = s
	return s.InvoicePrefix, issued, nil
}

// memTxRunner satisface billing.InvoiceTxRunner sin transacción real:
// entrega los mismos repos en memoria.
type memTxRunner struct {
	invoiceRepo  *memInvoiceRepo
	settingsRepo *memSettingsRepo
}

func (r *memTxRunner) RunInvoice(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	settingsRepo repository.SettingsRepository,
) error) error {
	return fn(r.invoiceRepo, r.settingsRepo)
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testDefaults() billing.Defaults {
	return billing.Defaults{
		Currency:         "EUR",
		TaxRate:          decimal.NewFromFloat(19),
		InvoicePrefix:    "INV",
		PaymentTermsDays: 14,
	}
}
