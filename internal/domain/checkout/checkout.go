package checkout

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/shopfront/internal/domain/cart"
	"github.com/example/shopfront/internal/domain/session"
)

const AggregateType = "Order"

var ErrEmptyCart = errors.New("cart is empty")

// Line is one entry of an order summary.
type Line struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Summary is the snapshot produced by a successful checkout, rendered to
// the buyer as the receipt for the order.
type Summary struct {
	ID       string          `json:"id"`
	Buyer    session.User    `json:"buyer"`
	Lines    []Line          `json:"lines"`
	Total    decimal.Decimal `json:"total"`
	PlacedAt time.Time       `json:"placed_at"`
}

// BuyerLabel renders the buyer as "DisplayName (username)".
func (s *Summary) BuyerLabel() string {
	return fmt.Sprintf("%s (%s)", s.Buyer.DisplayName, s.Buyer.Username)
}

// Finalize validates the session and the cart, builds the order summary and
// clears the cart. Validation failures mutate nothing; once validation
// passes the operation cannot fail partway.
func Finalize(sess *session.Session, c *cart.Cart) (*Summary, error) {
	buyer, ok := sess.Current()
	if !ok {
		return nil, session.ErrNotAuthenticated
	}
	if c.Len() == 0 {
		return nil, ErrEmptyCart
	}

	cartLines := c.Lines()
	lines := make([]Line, 0, len(cartLines))
	for _, l := range cartLines {
		lines = append(lines, Line{
			Name:      l.Name,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal,
		})
	}

	summary := &Summary{
		ID:       uuid.New().String(),
		Buyer:    buyer,
		Lines:    lines,
		Total:    c.Total(),
		PlacedAt: time.Now(),
	}

	c.Clear()
	return summary, nil
}
