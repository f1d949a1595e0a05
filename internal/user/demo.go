package user

import (
	"montraa-store/internal/cart"
	"montraa-store/internal/order"
	"montraa-store/internal/product"
)

// DemoProfile fabricates the fixed demo user. Login always produces this
// profile; there are no credentials to check.
func DemoProfile(c *product.Catalog) User {
	return User{
		ID:     "123",
		Name:   "Alex Doe",
		Email:  "alex@example.com",
		Avatar: "https://i.pravatar.cc/150?u=a042581f4e29026704d",
		Orders: []order.Order{
			seededOrder(c, "#ORD-2023-8892", "Dec 12, 2023", order.StatusDelivered, 4, 2),
			seededOrder(c, "#ORD-2024-1002", "Jan 05, 2024", order.StatusProcessing, 1),
		},
		Wishlist: NewWishlist(2, 5),
	}
}

func seededOrder(c *product.Catalog, id, date string, status order.Status, productIDs ...int) order.Order {
	o := order.Order{ID: id, Date: date, Status: status}
	for _, pid := range productIDs {
		p, ok := c.ByID(pid)
		if !ok {
			continue
		}
		line := cart.Line{Product: p, Quantity: 1}
		o.Items = append(o.Items, line)
		o.Total += line.Subtotal()
	}
	return o
}
