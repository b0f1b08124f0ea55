package sales

import (
	"errors"
	"sync"
	"time"

	"mercado-backend/internal/models"
	"mercado-backend/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrDraftNotFound   = errors.New("draft not found")
	ErrItemNotFound    = errors.New("line item not found")
	ErrInvalidItem     = errors.New("a product and a positive quantity are required")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPayment  = errors.New("payment method is invalid")
	ErrIncompleteDraft = errors.New("select a client and add at least one item")
)

// DraftItem is one line of an in-progress sale. UnitPrice is a snapshot of
// the product price at add time; later price edits do not touch it.
type DraftItem struct {
	ID          uint
	ProductID   uint
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// Draft is a sale under composition. It exists only inside the manager;
// cancelling discards it without a trace, finalizing turns it into a
// persisted Sale. Total is maintained incrementally and always equals the
// sum of the item subtotals.
type Draft struct {
	ID            string
	ClientID      uint
	PaymentMethod models.PaymentMethod
	Items         []DraftItem
	Total         decimal.Decimal
	CreatedAt     time.Time
}

// Drafts abandoned mid-composition (opened, then never finalized or
// cancelled) are swept after this age so the map cannot grow without bound
// in a long-running process.
const draftTTL = 24 * time.Hour

type DraftManager struct {
	mu     sync.Mutex
	drafts map[string]*Draft
}

func NewDraftManager() *DraftManager {
	return &DraftManager{drafts: make(map[string]*Draft)}
}

// Open starts a new empty draft: no client, payment method Cash, zero total.
func (m *DraftManager) Open() Draft {
	d := &Draft{
		ID:            uuid.NewString(),
		PaymentMethod: models.PaymentCash,
		Total:         decimal.Zero,
		CreatedAt:     time.Now(),
	}

	m.mu.Lock()
	m.pruneLocked(d.CreatedAt)
	m.drafts[d.ID] = d
	m.mu.Unlock()

	return snapshot(d)
}

// pruneLocked drops every draft older than draftTTL. Caller holds mu.
func (m *DraftManager) pruneLocked(now time.Time) {
	for id, d := range m.drafts {
		if now.Sub(d.CreatedAt) > draftTTL {
			delete(m.drafts, id)
		}
	}
}

func (m *DraftManager) Get(id string) (Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drafts[id]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	return snapshot(d), nil
}

func (m *DraftManager) SetClient(id string, clientID uint) (Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drafts[id]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	d.ClientID = clientID
	return snapshot(d), nil
}

func (m *DraftManager) SetPaymentMethod(id string, method models.PaymentMethod) (Draft, error) {
	if !method.Valid() {
		return Draft{}, ErrInvalidPayment
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drafts[id]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	d.PaymentMethod = method
	return snapshot(d), nil
}

// AddItem appends a line item with the product's current price snapshotted.
// The item id is (max existing draft item id)+1. A missing product selection
// or a non-positive quantity leaves the draft untouched.
func (m *DraftManager) AddItem(db *gorm.DB, draftID string, productID uint, quantity int) (Draft, error) {
	if productID == 0 || quantity < 1 {
		return Draft{}, ErrInvalidItem
	}

	product, ok := store.Find[models.Product](db, productID)
	if !ok {
		return Draft{}, ErrProductNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drafts[draftID]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}

	var maxID uint
	for _, it := range d.Items {
		if it.ID > maxID {
			maxID = it.ID
		}
	}

	price := decimal.NewFromFloat(product.Price)
	subtotal := price.Mul(decimal.NewFromInt(int64(quantity)))

	d.Items = append(d.Items, DraftItem{
		ID:          maxID + 1,
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		UnitPrice:   price,
		Subtotal:    subtotal,
	})
	d.Total = d.Total.Add(subtotal)

	return snapshot(d), nil
}

// RemoveItem drops the line item and subtracts its subtotal from the total.
func (m *DraftManager) RemoveItem(draftID string, itemID uint) (Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drafts[draftID]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}

	for i, it := range d.Items {
		if it.ID == itemID {
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			d.Total = d.Total.Sub(it.Subtotal)
			return snapshot(d), nil
		}
	}
	return Draft{}, ErrItemNotFound
}

// Cancel discards the draft entirely; nothing is persisted.
func (m *DraftManager) Cancel(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.drafts[id]; !ok {
		return ErrDraftNotFound
	}
	delete(m.drafts, id)
	return nil
}

// Finalize turns a complete draft into a persisted Sale. It requires a
// selected client and at least one item; otherwise the draft survives
// untouched and the sales collection is unchanged. On success the sale id is
// assigned, sale date and creation time are stamped, and every line item is
// re-stamped with the new sale id.
func (m *DraftManager) Finalize(db *gorm.DB, draftID string) (models.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drafts[draftID]
	if !ok {
		return models.Sale{}, ErrDraftNotFound
	}
	if d.ClientID == 0 || len(d.Items) == 0 {
		return models.Sale{}, ErrIncompleteDraft
	}

	sale := models.Sale{
		ClientID:      d.ClientID,
		SaleDate:      time.Now(),
		Total:         d.Total.InexactFloat64(),
		PaymentMethod: d.PaymentMethod,
		Items:         make([]models.SaleItem, 0, len(d.Items)),
	}
	for _, it := range d.Items {
		sale.Items = append(sale.Items, models.SaleItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.InexactFloat64(),
			Subtotal:  it.Subtotal.InexactFloat64(),
		})
	}

	// Creating the sale also writes the items with the new sale id.
	if err := db.Create(&sale).Error; err != nil {
		return models.Sale{}, err
	}

	delete(m.drafts, draftID)
	return sale, nil
}

func snapshot(d *Draft) Draft {
	out := *d
	out.Items = make([]DraftItem, len(d.Items))
	copy(out.Items, d.Items)
	return out
}
