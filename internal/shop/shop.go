package shop

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/example/shopfront/internal/domain/cart"
	"github.com/example/shopfront/internal/domain/catalog"
	"github.com/example/shopfront/internal/domain/checkout"
	"github.com/example/shopfront/internal/domain/session"
	"github.com/example/shopfront/internal/infrastructure/journal"
)

// MessageTTL is how long a transient user-facing message stays visible.
const MessageTTL = 3 * time.Second

// Subscriber is notified with a fresh View after every inbound call.
type Subscriber func(View)

// Shop owns the authoritative state of one running application instance:
// the catalog, one session, one cart and the last order summary. All state
// transitions go through its methods, one logical action at a time; callers
// that receive concurrent input must serialize.
type Shop struct {
	catalog *catalog.Catalog
	session *session.Session
	cart    *cart.Cart
	journal journal.Journal

	subscribers []Subscriber

	results    []catalog.Product // nil means show the full catalog
	lastOrder  *checkout.Summary
	msg        string
	msgExpires time.Time
	now        func() time.Time
}

type Option func(*Shop)

// WithClock replaces the wall clock, used by tests to control message
// expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Shop) { s.now = now }
}

func New(cat *catalog.Catalog, directory *session.Directory, j journal.Journal, opts ...Option) *Shop {
	s := &Shop{
		catalog: cat,
		session: session.New(directory),
		cart:    cart.New(),
		journal: j,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a render callback invoked after every inbound call.
func (s *Shop) Subscribe(fn Subscriber) {
	s.subscribers = append(s.subscribers, fn)
}

func (s *Shop) notify() {
	v := s.Snapshot()
	for _, fn := range s.subscribers {
		fn(v)
	}
}

func (s *Shop) post(text string) {
	s.msg = text
	s.msgExpires = s.now().Add(MessageTTL)
}

// record appends to the journal best-effort; the journal is an audit feed,
// a failed append must not undo a completed state change.
func (s *Shop) record(ctx context.Context, aggregateID, aggregateType, eventType string, data any) {
	if s.journal == nil {
		return
	}
	if _, err := s.journal.Append(ctx, aggregateID, aggregateType, eventType, data); err != nil {
		log.Printf("[Shop] Failed to journal %s for %s: %v", eventType, aggregateID, err)
	}
}

func cartID(username string) string {
	return "cart-" + username
}

func sessionID(username string) string {
	return "session-" + username
}

// Login evaluates one login attempt. Switching users clears the cart so a
// cart never crosses into another user's session.
func (s *Shop) Login(ctx context.Context, username, password string) (session.User, error) {
	defer s.notify()

	previous, wasAuthenticated := s.session.Current()

	u, err := s.session.Login(username, password)
	if err != nil {
		switch err {
		case session.ErrEmptyCredentials:
			s.post("enter username and password")
		case session.ErrInvalidCredentials:
			s.post("invalid username or password")
		}
		return session.User{}, err
	}

	if wasAuthenticated && previous.Username != u.Username {
		s.dropCart(ctx, previous.Username)
	}

	s.record(ctx, sessionID(u.Username), session.AggregateType, session.EventUserLoggedIn, session.UserLoggedIn{
		Username:    u.Username,
		DisplayName: u.DisplayName,
		LoggedInAt:  s.now(),
	})
	return u, nil
}

// Logout returns the session to Anonymous and clears the cart so it cannot
// leak into the next user's session.
func (s *Shop) Logout(ctx context.Context) {
	defer s.notify()

	u, ok := s.session.Current()
	s.session.Logout()
	if !ok {
		return
	}

	s.dropCart(ctx, u.Username)
	s.record(ctx, sessionID(u.Username), session.AggregateType, session.EventUserLoggedOut, session.UserLoggedOut{
		Username:    u.Username,
		LoggedOutAt: s.now(),
	})
	s.post("signed out")
}

func (s *Shop) dropCart(ctx context.Context, username string) {
	if s.cart.Len() == 0 {
		return
	}
	s.cart.Clear()
	s.record(ctx, cartID(username), cart.AggregateType, cart.EventCartCleared, cart.CartCleared{
		CartID:    cartID(username),
		Username:  username,
		ClearedAt: s.now(),
	})
}

// Search filters the catalog by term; an empty term after trimming falls
// back to the full catalog.
func (s *Shop) Search(term string) []catalog.Product {
	defer s.notify()

	term = strings.TrimSpace(term)
	if term == "" {
		s.results = nil
		return s.catalog.All()
	}

	results := s.catalog.Search(term)
	s.results = results
	if len(results) == 0 {
		s.post("no products found")
	}
	return results
}

// ShowAll resets the product listing to the full catalog.
func (s *Shop) ShowAll() []catalog.Product {
	defer s.notify()

	s.results = nil
	return s.catalog.All()
}

// AddToCart puts one unit of the product in the cart.
func (s *Shop) AddToCart(ctx context.Context, code string) error {
	defer s.notify()

	u, ok := s.session.Current()
	if !ok {
		s.post("log in to add products")
		return session.ErrNotAuthenticated
	}

	p, err := s.catalog.FindByCode(code)
	if err != nil {
		s.post("product not found")
		return err
	}

	item := s.cart.Add(p)
	s.record(ctx, cartID(u.Username), cart.AggregateType, cart.EventItemAdded, cart.ItemAddedToCart{
		CartID:      cartID(u.Username),
		Username:    u.Username,
		ProductCode: p.Code,
		ProductName: p.Name,
		Price:       p.Price,
		Quantity:    item.Quantity,
		AddedAt:     s.now(),
	})
	s.post(p.Name + " added to cart")
	return nil
}

// RemoveFromCart deletes the line with the given code; absent codes are a
// no-op.
func (s *Shop) RemoveFromCart(ctx context.Context, code string) error {
	defer s.notify()

	u, ok := s.session.Current()
	if !ok {
		s.post("log in to manage the cart")
		return session.ErrNotAuthenticated
	}

	if !s.cart.Remove(code) {
		return nil
	}
	s.record(ctx, cartID(u.Username), cart.AggregateType, cart.EventItemRemoved, cart.ItemRemovedFromCart{
		CartID:      cartID(u.Username),
		Username:    u.Username,
		ProductCode: code,
		RemovedAt:   s.now(),
	})
	return nil
}

// IncreaseQty raises the quantity of the line by one; absent codes are a
// no-op.
func (s *Shop) IncreaseQty(ctx context.Context, code string) error {
	defer s.notify()

	u, ok := s.session.Current()
	if !ok {
		s.post("log in to manage the cart")
		return session.ErrNotAuthenticated
	}

	item, changed := s.cart.Increment(code)
	if !changed {
		return nil
	}
	s.record(ctx, cartID(u.Username), cart.AggregateType, cart.EventQuantityIncreased, cart.QuantityChanged{
		CartID:      cartID(u.Username),
		Username:    u.Username,
		ProductCode: code,
		Quantity:    item.Quantity,
		ChangedAt:   s.now(),
	})
	return nil
}

// DecreaseQty lowers the quantity of the line by one, removing the line at
// zero; absent codes are a no-op.
func (s *Shop) DecreaseQty(ctx context.Context, code string) error {
	defer s.notify()

	u, ok := s.session.Current()
	if !ok {
		s.post("log in to manage the cart")
		return session.ErrNotAuthenticated
	}

	item, changed := s.cart.Decrement(code)
	if !changed {
		return nil
	}
	s.record(ctx, cartID(u.Username), cart.AggregateType, cart.EventQuantityDecreased, cart.QuantityChanged{
		CartID:      cartID(u.Username),
		Username:    u.Username,
		ProductCode: code,
		Quantity:    item.Quantity,
		ChangedAt:   s.now(),
	})
	return nil
}

// ClearCart empties the cart.
func (s *Shop) ClearCart(ctx context.Context) error {
	defer s.notify()

	u, ok := s.session.Current()
	if !ok {
		s.post("log in to manage the cart")
		return session.ErrNotAuthenticated
	}

	s.dropCart(ctx, u.Username)
	return nil
}

// FinalizePurchase converts the cart into an order summary and empties the
// cart. Failures leave both session and cart untouched.
func (s *Shop) FinalizePurchase(ctx context.Context) (*checkout.Summary, error) {
	defer s.notify()

	if err := s.session.Require(); err != nil {
		s.post("log in to finalize the purchase")
		return nil, err
	}

	u, _ := s.session.Current()

	summary, err := checkout.Finalize(s.session, s.cart)
	if err != nil {
		if err == checkout.ErrEmptyCart {
			s.post("cart is empty")
		}
		return nil, err
	}

	lines := make([]checkout.OrderLine, 0, len(summary.Lines))
	for _, l := range summary.Lines {
		lines = append(lines, checkout.OrderLine{
			Name:      l.Name,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal,
		})
	}
	s.record(ctx, summary.ID, checkout.AggregateType, checkout.EventOrderPlaced, checkout.OrderPlaced{
		OrderID:  summary.ID,
		Username: u.Username,
		Lines:    lines,
		Total:    summary.Total,
		PlacedAt: summary.PlacedAt,
	})
	s.record(ctx, cartID(u.Username), cart.AggregateType, cart.EventCartCleared, cart.CartCleared{
		CartID:    cartID(u.Username),
		Username:  u.Username,
		ClearedAt: s.now(),
	})

	s.lastOrder = summary
	return summary, nil
}

// Snapshot builds the current render-ready view. It never mutates state.
func (s *Shop) Snapshot() View {
	v := View{
		Cart:  cartView(s.cart),
		Order: orderView(s.lastOrder),
	}

	if u, ok := s.session.Current(); ok {
		v.User = u.DisplayName
	}

	if s.results != nil {
		v.Products = productViews(s.results)
	} else {
		v.Products = productViews(s.catalog.All())
	}

	if s.msg != "" && s.now().Before(s.msgExpires) {
		v.Message = s.msg
	}

	return v
}
