package shop

import (
	"github.com/example/shopfront/internal/domain/cart"
	"github.com/example/shopfront/internal/domain/catalog"
	"github.com/example/shopfront/internal/domain/checkout"
)

// View is the render-ready snapshot handed to presentation adapters after
// every inbound call. Monetary values are formatted to two decimal places.
type View struct {
	User     string        `json:"user,omitempty"`
	Products []ProductView `json:"products"`
	Cart     CartView      `json:"cart"`
	Message  string        `json:"message,omitempty"`
	Order    *OrderView    `json:"order,omitempty"`
}

type ProductView struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

type CartView struct {
	Lines []LineView `json:"lines"`
	Total string     `json:"total"`
}

type LineView struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type OrderView struct {
	ID    string          `json:"id"`
	Buyer string          `json:"buyer"`
	Lines []OrderLineView `json:"lines"`
	Total string          `json:"total"`
}

type OrderLineView struct {
	Quantity  int    `json:"quantity"`
	Name      string `json:"name"`
	LineTotal string `json:"line_total"`
}

func productViews(products []catalog.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ProductView{
			Code:  p.Code,
			Name:  p.Name,
			Price: p.Price.StringFixed(2),
		})
	}
	return views
}

func cartView(c *cart.Cart) CartView {
	lines := make([]LineView, 0, c.Len())
	for _, l := range c.Lines() {
		lines = append(lines, LineView{
			Code:      l.Code,
			Name:      l.Name,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal.StringFixed(2),
		})
	}
	return CartView{
		Lines: lines,
		Total: c.Total().StringFixed(2),
	}
}

func orderView(summary *checkout.Summary) *OrderView {
	if summary == nil {
		return nil
	}
	lines := make([]OrderLineView, 0, len(summary.Lines))
	for _, l := range summary.Lines {
		lines = append(lines, OrderLineView{
			Quantity:  l.Quantity,
			Name:      l.Name,
			LineTotal: l.LineTotal.StringFixed(2),
		})
	}
	return &OrderView{
		ID:    summary.ID,
		Buyer: summary.BuyerLabel(),
		Lines: lines,
		Total: summary.Total.StringFixed(2),
	}
}
