package store

import (
	"sync"
	"time"

	"montraa-store/internal/cart"
	"montraa-store/internal/logger"
	"montraa-store/internal/metrics"
	"montraa-store/internal/navigation"
	"montraa-store/internal/order"
	"montraa-store/internal/product"
	"montraa-store/internal/user"

	"go.uber.org/zap"
)

// Snapshot is a consistent copy of the whole state taken after a mutation.
type Snapshot struct {
	Cart         []cart.Line
	CartTotal    float64
	CartCount    int
	View         navigation.View
	Selected     *product.Product
	User         *user.User
	DarkMode     bool
	SearchQuery  string
	CheckoutStep order.Step
}

// Observer is called after every mutation, outside the store lock.
type Observer func(Snapshot)

type Options struct {
	WishlistAutoLogin bool
	// Now is the clock used for order dates. Defaults to time.Now.
	Now func() time.Time
}

// Store is the application state container. Build one per running app and
// pass it to whatever needs it. All methods are safe for concurrent use;
// every mutator is applied atomically before observers run.
type Store struct {
	catalog *product.Catalog
	now     func() time.Time

	mu           sync.Mutex
	cart         cart.Service
	session      user.Service
	nav          navigation.Service
	darkMode     bool
	searchQuery  string
	checkoutStep order.Step

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObsID int
}

func New(catalog *product.Catalog, opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Store{
		catalog:      catalog,
		now:          now,
		cart:         cart.NewService(),
		session:      user.NewService(catalog, user.Options{AutoLogin: opts.WishlistAutoLogin}),
		nav:          navigation.NewService(),
		checkoutStep: order.StepShipping,
		observers:    make(map[int]Observer),
	}
}

func (s *Store) Catalog() *product.Catalog {
	return s.catalog
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn
	s.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			delete(s.observers, id)
			s.obsMu.Unlock()
		})
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Cart:         s.cart.Lines(),
		CartTotal:    s.cart.Total(),
		CartCount:    s.cart.Count(),
		View:         s.nav.View(),
		Selected:     s.nav.SelectedProduct(),
		User:         s.session.User(),
		DarkMode:     s.darkMode,
		SearchQuery:  s.searchQuery,
		CheckoutStep: s.checkoutStep,
	}
}

// mutate applies fn under the lock and then notifies observers.
func (s *Store) mutate(fn func()) Snapshot {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

func (s *Store) notify(snap Snapshot) {
	s.obsMu.Lock()
	observers := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.obsMu.Unlock()

	for _, o := range observers {
		o(snap)
	}
}

// -- Cart --

func (s *Store) AddToCart(p product.Product, quantity int) Snapshot {
	return s.AddToCartWithOptions(p, quantity, cart.Options{})
}

func (s *Store) AddToCartWithOptions(p product.Product, quantity int, opts cart.Options) Snapshot {
	metrics.CartMutationsTotal.WithLabelValues("add").Inc()
	return s.mutate(func() { s.cart.AddWithOptions(p, quantity, opts) })
}

func (s *Store) RemoveFromCart(productID int) Snapshot {
	metrics.CartMutationsTotal.WithLabelValues("remove").Inc()
	return s.mutate(func() { s.cart.Remove(productID) })
}

func (s *Store) UpdateQuantity(productID, delta int) Snapshot {
	metrics.CartMutationsTotal.WithLabelValues("update").Inc()
	return s.mutate(func() { s.cart.UpdateQuantity(productID, delta) })
}

func (s *Store) ClearCart() Snapshot {
	metrics.CartMutationsTotal.WithLabelValues("clear").Inc()
	return s.mutate(func() { s.cart.Clear() })
}

func (s *Store) Cart() []cart.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

// CartTotal is derived from the current lines on every call.
func (s *Store) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// -- Session & wishlist --

func (s *Store) Login() Snapshot {
	return s.mutate(func() { s.session.Login() })
}

// Logout ends the session and returns to the home view.
func (s *Store) Logout() Snapshot {
	return s.mutate(func() {
		s.session.Logout()
		s.nav.SetView(navigation.MustScreen(navigation.KindHome))
	})
}

func (s *Store) User() *user.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.User()
}

// ToggleWishlist flips productID in the wishlist, provisioning a demo session
// first when the visitor is anonymous and auto-login is enabled.
func (s *Store) ToggleWishlist(productID int) (Snapshot, error) {
	var err error
	snap := s.mutate(func() {
		_, err = s.session.ToggleWishlist(productID)
	})
	return snap, err
}

func (s *Store) IsInWishlist(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.IsInWishlist(productID)
}

// -- Navigation --

func (s *Store) View() navigation.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.View()
}

// SetView overwrites the current view. Entering checkout starts at shipping.
func (s *Store) SetView(v navigation.View) Snapshot {
	return s.mutate(func() {
		if v.Kind() == navigation.KindCheckout && s.nav.View().Kind() != navigation.KindCheckout {
			s.checkoutStep = order.StepShipping
		}
		s.nav.SetView(v)
	})
}

func (s *Store) SelectedProduct() *product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.SelectedProduct()
}

func (s *Store) SetSelectedProduct(p *product.Product) Snapshot {
	return s.mutate(func() { s.nav.SetSelectedProduct(p) })
}

func (s *Store) OpenProduct(p product.Product) Snapshot {
	return s.mutate(func() { s.nav.OpenProduct(p) })
}

// -- Theme & search --

func (s *Store) ToggleTheme() Snapshot {
	return s.mutate(func() { s.darkMode = !s.darkMode })
}

func (s *Store) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.darkMode
}

func (s *Store) SetSearchQuery(q string) Snapshot {
	return s.mutate(func() { s.searchQuery = q })
}

func (s *Store) SearchQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchQuery
}

// -- Checkout --

// AdvanceCheckout moves to the next checkout step, stopping at confirmation.
func (s *Store) AdvanceCheckout() Snapshot {
	return s.mutate(func() { s.checkoutStep = s.checkoutStep.Next() })
}

// PlaceOrder snapshots the cart into a simulated order, records it on the
// signed-in user, clears the cart and returns home.
func (s *Store) PlaceOrder() (order.Order, Snapshot, error) {
	var (
		placed order.Order
		err    error
	)

	snap := s.mutate(func() {
		placed, err = order.Place(s.cart.Lines(), s.now())
		if err != nil {
			return
		}
		s.session.RecordOrder(placed)
		s.cart.Clear()
		s.checkoutStep = order.StepShipping
		s.nav.SetView(navigation.MustScreen(navigation.KindHome))
	})
	if err != nil {
		return order.Order{}, snap, err
	}

	metrics.OrdersPlacedTotal.Inc()
	logger.Named("store").Info("order placed (simulation)",
		zap.String("order_id", placed.ID),
		zap.Float64("total", placed.Total),
		zap.Int("lines", len(placed.Items)),
	)
	return placed, snap, nil
}
