// README: Clickstream event model and event names for the checkout funnel.
package analytics

import (
    "time"

    "footy/internal/types"
)

const (
    EventBeginCheckout   = "begin_checkout"
    EventCheckoutStep    = "checkout_step"
    EventPurchase        = "purchase"
    EventCheckoutDropoff = "checkout_dropoff"
)

type Event struct {
    ID        string
    Name      string
    SessionID types.ID
    Time      time.Time
    Metadata  map[string]any
}
