// README: Checkout session aggregate and step definitions.
package checkout

import (
    "time"

    "footy/internal/backend"
    "footy/internal/types"
)

type Step string

const (
    StepShipping Step = "shipping"
    StepReview   Step = "review"
    StepComplete Step = "complete"
)

// Session is one end-to-end attempt to convert a cart into an order. It is
// owned by exactly one checkout flow; the idempotency key is fixed for the
// session's whole lifetime and only a full reset produces a new one.
type Session struct {
    ID              types.ID
    Step            Step
    ShippingAddress *backend.ShippingAddress
    IdempotencyKey  string
    Order           *backend.Order
    Submitting      bool
    Error           string
    CreatedAt       time.Time
}

// AllowedTransitions represents the checkout step flow as code. Complete is
// terminal: no outgoing transitions.
var AllowedTransitions = map[Step][]Step{
    StepShipping: {StepReview},
    StepReview:   {StepShipping, StepComplete},
}

func CanTransition(from, to Step) bool {
    next, ok := AllowedTransitions[from]
    if !ok {
        return false
    }
    for _, s := range next {
        if s == to {
            return true
        }
    }
    return false
}

// StepNumber is the 1-based position used in funnel events.
func StepNumber(step Step) int {
    switch step {
    case StepShipping:
        return 1
    case StepReview:
        return 2
    case StepComplete:
        return 3
    }
    return 0
}
