package shop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shopfront/internal/domain/cart"
	"github.com/example/shopfront/internal/domain/catalog"
	"github.com/example/shopfront/internal/domain/checkout"
	"github.com/example/shopfront/internal/domain/session"
	"github.com/example/shopfront/internal/infrastructure/journal/mocks"
)

func newTestShop(t *testing.T, opts ...Option) (*Shop, *mocks.MockJournal) {
	t.Helper()
	dir, err := session.DefaultDirectory()
	require.NoError(t, err)
	j := mocks.NewMockJournal()
	return New(catalog.Default(), dir, j, opts...), j
}

func login(t *testing.T, s *Shop, username, password string) {
	t.Helper()
	_, err := s.Login(context.Background(), username, password)
	require.NoError(t, err)
}

// ============================================
// Scenario Tests
// ============================================

func TestShop_PurchaseScenario(t *testing.T) {
	s, _ := newTestShop(t)
	ctx := context.Background()

	login(t, s, "aluno", "1234")

	require.NoError(t, s.AddToCart(ctx, "P002"))
	require.NoError(t, s.AddToCart(ctx, "P002"))

	v := s.Snapshot()
	require.Len(t, v.Cart.Lines, 1)
	assert.Equal(t, "P002", v.Cart.Lines[0].Code)
	assert.Equal(t, 2, v.Cart.Lines[0].Quantity)
	assert.Equal(t, "199.80", v.Cart.Lines[0].LineTotal)
	assert.Equal(t, "199.80", v.Cart.Total)

	summary, err := s.FinalizePurchase(ctx)
	require.NoError(t, err)
	assert.Equal(t, "199.80", summary.Total.StringFixed(2))

	v = s.Snapshot()
	assert.Empty(t, v.Cart.Lines)
	assert.Equal(t, "0.00", v.Cart.Total)
	require.NotNil(t, v.Order)
	assert.Equal(t, "Aluno (aluno)", v.Order.Buyer)
	assert.Equal(t, "199.80", v.Order.Total)
}

func TestShop_JournalRecordsEverything(t *testing.T) {
	s, j := newTestShop(t)
	ctx := context.Background()

	login(t, s, "aluno", "1234")
	require.NoError(t, s.AddToCart(ctx, "P001"))
	require.NoError(t, s.IncreaseQty(ctx, "P001"))
	require.NoError(t, s.DecreaseQty(ctx, "P001"))
	require.NoError(t, s.AddToCart(ctx, "P005"))
	require.NoError(t, s.RemoveFromCart(ctx, "P005"))
	require.NoError(t, s.AddToCart(ctx, "P002"))
	_, err := s.FinalizePurchase(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{
		session.EventUserLoggedIn,
		cart.EventItemAdded,
		cart.EventQuantityIncreased,
		cart.EventQuantityDecreased,
		cart.EventItemAdded,
		cart.EventItemRemoved,
		cart.EventItemAdded,
		checkout.EventOrderPlaced,
		cart.EventCartCleared,
	}, j.EventTypes())

	// Cart events, including the clear on finalize, share the cart aggregate
	cartEvents := j.Events("cart-aluno")
	assert.Len(t, cartEvents, 7)
}

// ============================================
// Guard Tests
// ============================================

func TestShop_CartOperationsRequireLogin(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		op   func(s *Shop) error
	}{
		{"add", func(s *Shop) error { return s.AddToCart(ctx, "P001") }},
		{"remove", func(s *Shop) error { return s.RemoveFromCart(ctx, "P001") }},
		{"increase", func(s *Shop) error { return s.IncreaseQty(ctx, "P001") }},
		{"decrease", func(s *Shop) error { return s.DecreaseQty(ctx, "P001") }},
		{"clear", func(s *Shop) error { return s.ClearCart(ctx) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, j := newTestShop(t)

			err := tt.op(s)

			assert.ErrorIs(t, err, session.ErrNotAuthenticated)
			assert.Empty(t, j.AppendCalls, "guarded op must not journal")
			assert.Empty(t, s.Snapshot().Cart.Lines)
		})
	}
}

func TestShop_FinalizeRequiresLogin(t *testing.T) {
	s, _ := newTestShop(t)

	_, err := s.FinalizePurchase(context.Background())

	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
	assert.Contains(t, s.Snapshot().Message, "log in")
}

func TestShop_FinalizeEmptyCart(t *testing.T) {
	s, _ := newTestShop(t)
	login(t, s, "aluno", "1234")

	_, err := s.FinalizePurchase(context.Background())

	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
	assert.Equal(t, "cart is empty", s.Snapshot().Message)
}

func TestShop_AddToCart_UnknownProduct(t *testing.T) {
	s, j := newTestShop(t)
	login(t, s, "aluno", "1234")
	j.Reset()

	err := s.AddToCart(context.Background(), "P999")

	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	assert.Empty(t, j.AppendCalls)
	assert.Equal(t, "product not found", s.Snapshot().Message)
}

func TestShop_NoOpCartChangesAreNotJournaled(t *testing.T) {
	s, j := newTestShop(t)
	ctx := context.Background()
	login(t, s, "aluno", "1234")
	j.Reset()

	require.NoError(t, s.RemoveFromCart(ctx, "P001"))
	require.NoError(t, s.IncreaseQty(ctx, "P001"))
	require.NoError(t, s.DecreaseQty(ctx, "P001"))
	require.NoError(t, s.ClearCart(ctx))

	assert.Empty(t, j.AppendCalls)
}

// ============================================
// Login / Logout Tests
// ============================================

func TestShop_Login_InvalidCredentials_PostsMessage(t *testing.T) {
	s, _ := newTestShop(t)

	_, err := s.Login(context.Background(), "aluno", "wrong")

	assert.ErrorIs(t, err, session.ErrInvalidCredentials)
	assert.Equal(t, "invalid username or password", s.Snapshot().Message)
	assert.Empty(t, s.Snapshot().User)
}

func TestShop_Login_EmptyCredentials_PostsMessage(t *testing.T) {
	s, _ := newTestShop(t)

	_, err := s.Login(context.Background(), "  ", "")

	assert.ErrorIs(t, err, session.ErrEmptyCredentials)
	assert.Equal(t, "enter username and password", s.Snapshot().Message)
}

func TestShop_Logout_ClearsCart(t *testing.T) {
	s, j := newTestShop(t)
	ctx := context.Background()
	login(t, s, "aluno", "1234")
	require.NoError(t, s.AddToCart(ctx, "P001"))

	s.Logout(ctx)

	v := s.Snapshot()
	assert.Empty(t, v.User)
	assert.Empty(t, v.Cart.Lines, "cart must not survive logout")

	types := j.EventTypes()
	assert.Contains(t, types, cart.EventCartCleared)
	assert.Equal(t, session.EventUserLoggedOut, types[len(types)-1])
}

func TestShop_SwitchingUsersClearsCart(t *testing.T) {
	s, _ := newTestShop(t)
	ctx := context.Background()
	login(t, s, "aluno", "1234")
	require.NoError(t, s.AddToCart(ctx, "P001"))

	login(t, s, "admin", "admin")

	v := s.Snapshot()
	assert.Equal(t, "Administrador", v.User)
	assert.Empty(t, v.Cart.Lines, "cart must not leak across users")
}

// ============================================
// Search Tests
// ============================================

func TestShop_Search_Mouse_ReturnsP002(t *testing.T) {
	s, _ := newTestShop(t)

	results := s.Search("mouse")

	require.Len(t, results, 1)
	assert.Equal(t, "P002", results[0].Code)

	v := s.Snapshot()
	require.Len(t, v.Products, 1)
	assert.Equal(t, "Mouse Gamer", v.Products[0].Name)
	assert.Equal(t, "99.90", v.Products[0].Price)
}

func TestShop_Search_NoMatch_PostsMessage(t *testing.T) {
	s, _ := newTestShop(t)

	results := s.Search("notebook")

	assert.Empty(t, results)
	v := s.Snapshot()
	assert.Empty(t, v.Products)
	assert.Equal(t, "no products found", v.Message)
}

func TestShop_Search_EmptyTerm_ShowsAll(t *testing.T) {
	s, _ := newTestShop(t)
	s.Search("mouse")

	results := s.Search("   ")

	assert.Len(t, results, 5)
	assert.Len(t, s.Snapshot().Products, 5)
}

func TestShop_ShowAll_ResetsSearch(t *testing.T) {
	s, _ := newTestShop(t)
	s.Search("mouse")

	results := s.ShowAll()

	assert.Len(t, results, 5)
	assert.Len(t, s.Snapshot().Products, 5)
}

// ============================================
// Notification Tests
// ============================================

func TestShop_NotifiesSubscribersAfterEveryCall(t *testing.T) {
	s, _ := newTestShop(t)
	ctx := context.Background()

	var views []View
	s.Subscribe(func(v View) { views = append(views, v) })

	s.Search("mouse")
	_, _ = s.Login(ctx, "aluno", "1234")
	_ = s.AddToCart(ctx, "P002")
	_ = s.AddToCart(ctx, "P999") // failures notify too

	require.Len(t, views, 4)
	assert.Equal(t, "Aluno", views[2].User)
	assert.Len(t, views[2].Cart.Lines, 1)
}

// ============================================
// Message Expiry Tests
// ============================================

func TestShop_MessagesExpireAfterTTL(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	s, _ := newTestShop(t, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	login(t, s, "aluno", "1234")
	require.NoError(t, s.AddToCart(ctx, "P002"))

	assert.Equal(t, "Mouse Gamer added to cart", s.Snapshot().Message)

	now = now.Add(MessageTTL - time.Millisecond)
	assert.NotEmpty(t, s.Snapshot().Message, "message still visible just before the deadline")

	now = now.Add(2 * time.Millisecond)
	assert.Empty(t, s.Snapshot().Message, "message gone after the deadline")

	// Expiry is cosmetic: cart state is untouched
	assert.Len(t, s.Snapshot().Cart.Lines, 1)
}

func TestShop_NewMessageReplacesOldOne(t *testing.T) {
	s, _ := newTestShop(t)
	ctx := context.Background()
	login(t, s, "aluno", "1234")

	require.NoError(t, s.AddToCart(ctx, "P001"))
	require.NoError(t, s.AddToCart(ctx, "P002"))

	assert.Equal(t, "Mouse Gamer added to cart", s.Snapshot().Message)
}
