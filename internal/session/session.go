package session

import (
	"context"
	"errors"
	"sync"

	"github.com/Skotchmaster/crochet_store/internal/cart"
	"github.com/Skotchmaster/crochet_store/internal/favorites"
)

var ErrNotFound = errors.New("session not found")

// Session owns one visitor's cart and favorites. All mutation goes through Do.
type Session struct {
	ID string

	mu        sync.Mutex
	cart      *cart.Cart
	favorites *favorites.Set
}

func New(id string) *Session {
	return &Session{
		ID:        id,
		cart:      cart.New(),
		favorites: favorites.New(),
	}
}

func (s *Session) Do(fn func(c *cart.Cart, f *favorites.Set)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.cart, s.favorites)
}

// DoErr is Do for callbacks that can fail.
func (s *Session) DoErr(fn func(c *cart.Cart, f *favorites.Set) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.cart, s.favorites)
}

// Empty reports whether the session holds nothing worth keeping.
func (s *Session) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Len() == 0 && s.favorites.Len() == 0
}

type Snapshot struct {
	Cart      []cart.Line `json:"cart"`
	Favorites []int       `json:"favorites"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Cart: s.cart.Lines(), Favorites: s.favorites.IDs()}
}

func (s *Session) restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Restore(snap.Cart)
	s.favorites.Restore(snap.Favorites)
}

type Store interface {
	// Load returns ErrNotFound for unknown ids.
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
}
