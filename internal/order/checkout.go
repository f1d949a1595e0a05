package order

import (
	"fmt"
	"strings"
	"time"

	"montraa-store/internal/cart"

	"github.com/google/uuid"
)

// DateLayout is how order dates are displayed, e.g. "Dec 12, 2023".
const DateLayout = "Jan 02, 2006"

// Step is the position in the simulated checkout flow.
type Step int

const (
	StepShipping Step = iota + 1
	StepPayment
	StepConfirmation
)

func (s Step) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Next advances one step and stays on confirmation.
func (s Step) Next() Step {
	if s < StepShipping {
		return StepShipping
	}
	if s >= StepConfirmation {
		return StepConfirmation
	}
	return s + 1
}

// Place builds a Processing order from the given lines. Nothing is charged.
func Place(lines []cart.Line, now time.Time) (Order, error) {
	if len(lines) == 0 {
		return Order{}, ErrCartEmpty
	}

	o := Order{
		ID:     NewID(now),
		Date:   now.Format(DateLayout),
		Status: StatusProcessing,
		Items:  make([]cart.Line, len(lines)),
	}
	for i, l := range lines {
		l.Product = l.Product.Clone()
		o.Items[i] = l
		o.Total += l.Subtotal()
	}

	return o, nil
}

// NewID returns a display id like "#ORD-2024-1A2B3C4D".
func NewID(now time.Time) string {
	short := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("#ORD-%d-%s", now.Year(), short)
}
