package user

import (
	"encoding/json"
	"sort"

	"montraa-store/internal/order"
)

type User struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Avatar   string        `json:"avatar"`
	Orders   []order.Order `json:"orders"`
	Wishlist Wishlist      `json:"wishlist"`
}

// Clone deep-copies orders and wishlist.
func (u User) Clone() User {
	c := u
	c.Orders = make([]order.Order, len(u.Orders))
	for i, o := range u.Orders {
		c.Orders[i] = o.Clone()
	}
	c.Wishlist = u.Wishlist.Clone()
	return c
}

// Wishlist is a set of product IDs.
type Wishlist map[int]struct{}

func NewWishlist(ids ...int) Wishlist {
	w := make(Wishlist, len(ids))
	for _, id := range ids {
		w[id] = struct{}{}
	}
	return w
}

func (w Wishlist) Has(id int) bool {
	_, ok := w[id]
	return ok
}

// Toggle flips membership and reports whether id is now present.
func (w Wishlist) Toggle(id int) bool {
	if w.Has(id) {
		delete(w, id)
		return false
	}
	w[id] = struct{}{}
	return true
}

// IDs returns the members in ascending order.
func (w Wishlist) IDs() []int {
	ids := make([]int, 0, len(w))
	for id := range w {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (w Wishlist) Clone() Wishlist {
	return NewWishlist(w.IDs()...)
}

// MarshalJSON encodes the set as a sorted array of IDs.
func (w Wishlist) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.IDs())
}

func (w *Wishlist) UnmarshalJSON(data []byte) error {
	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*w = NewWishlist(ids...)
	return nil
}
