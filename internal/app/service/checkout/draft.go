package checkout

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fatflowers/storetis/internal/models"
	"github.com/fatflowers/storetis/pkg/errs"
)

var (
	ErrEmptySelection = errs.New(errs.ErrInvalid, "no services selected")
	ErrNoDraft        = errs.New(errs.ErrNotFound, "no draft order, please select services from your cart")
	ErrPriceOnContact = errs.New(errs.ErrInvalid, "service requires a quote and cannot be bought online")
)

// DraftItem is one priced line of a draft. Price is a decimal string so the
// value survives serialization exactly.
type DraftItem struct {
	CartItemID   string `json:"cart_item_id"`
	ServiceID    string `json:"service_id"`
	ServiceName  string `json:"service_name"`
	DurationDays int    `json:"duration_days"`
	Price        string `json:"price"`
}

// Draft is the staged order shown to the user before confirmation.
type Draft struct {
	Items      []DraftItem `json:"items"`
	TotalPrice string      `json:"total_price"`
	CreatedAt  time.Time   `json:"created_at"`
}

// CartItemIDs lists the originating cart lines in draft order.
func (d *Draft) CartItemIDs() []string {
	ids := make([]string, 0, len(d.Items))
	for _, it := range d.Items {
		ids = append(ids, it.CartItemID)
	}
	return ids
}

// Total parses TotalPrice.
func (d *Draft) Total() (decimal.Decimal, error) {
	return decimal.NewFromString(d.TotalPrice)
}

// BuildDraft prices cart items (with Service loaded). The whole draft is
// rejected when any service has no fixed price.
func BuildDraft(items []models.CartItem, now time.Time) (*Draft, error) {
	if len(items) == 0 {
		return nil, ErrEmptySelection
	}
	d := &Draft{Items: make([]DraftItem, 0, len(items)), CreatedAt: now}
	total := decimal.Zero
	for _, it := range items {
		price, ok := it.Service.FixedPrice()
		if !ok {
			name := ""
			if it.Service != nil {
				name = it.Service.Name
			}
			return nil, fmt.Errorf("%w: %q", ErrPriceOnContact, name)
		}
		d.Items = append(d.Items, DraftItem{
			CartItemID:   it.ID,
			ServiceID:    it.ServiceID,
			ServiceName:  it.Service.Name,
			DurationDays: it.DurationDays,
			Price:        price.String(),
		})
		total = total.Add(price)
	}
	d.TotalPrice = total.String()
	return d, nil
}
