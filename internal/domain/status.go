package domain

// Purchase order statuses. An order is created PENDING and becomes RECEIVED
// only through an explicit confirmation that also increments product stock.
const (
	PurchaseOrderPending  = "PENDING"
	PurchaseOrderReceived = "RECEIVED"
)

// OrderStatusCancelled marks sales orders excluded from demand estimation.
const OrderStatusCancelled = "cancelled"

// RoleAdmin is the role required for the back-office API.
const RoleAdmin = "admin"

// Urgency classifies how badly a flagged product needs replenishment.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
)

var urgencyRanks = map[Urgency]int{
	UrgencyCritical: 0,
	UrgencyHigh:     1,
	UrgencyMedium:   2,
}

// Rank returns the sort rank of an urgency tier, critical first.
func (u Urgency) Rank() int {
	if rank, ok := urgencyRanks[u]; ok {
		return rank
	}

	return len(urgencyRanks)
}
