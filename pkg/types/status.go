package types

// OrderStatus is the lifecycle state of an order in the ledger.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled:
		return true
	}
	return false
}

// Label is the storefront text shown for s.
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPending:
		return "Chờ xác nhận"
	case OrderStatusConfirmed:
		return "Đã xác nhận"
	case OrderStatusCancelled:
		return "Đã hủy"
	}
	return string(s)
}

type ConsultationStatus string

const (
	ConsultationStatusNew       ConsultationStatus = "new"
	ConsultationStatusAssigned  ConsultationStatus = "assigned"
	ConsultationStatusCompleted ConsultationStatus = "completed"
)

func (s ConsultationStatus) Valid() bool {
	switch s {
	case ConsultationStatusNew, ConsultationStatusAssigned, ConsultationStatusCompleted:
		return true
	}
	return false
}

// Open reports whether a request still awaits a consultant.
func (s ConsultationStatus) Open() bool {
	return s == ConsultationStatusNew || s == ConsultationStatusAssigned
}

// SubscriptionChangeReason tags audit log rows written for a subscription.
type SubscriptionChangeReason string

const (
	SubscriptionChangeReasonCreate     SubscriptionChangeReason = "create"
	SubscriptionChangeReasonVerify     SubscriptionChangeReason = "verify"
	SubscriptionChangeReasonAssign     SubscriptionChangeReason = "assign"
	SubscriptionChangeReasonDeactivate SubscriptionChangeReason = "deactivate"
)

// OrderChangeReason tags audit log rows written for an order.
type OrderChangeReason string

const (
	OrderChangeReasonCreate OrderChangeReason = "create"
	OrderChangeReasonStatus OrderChangeReason = "status"
)

// PriceKind filters the catalog by how a service is priced.
type PriceKind string

const (
	PriceKindAll     PriceKind = ""
	PriceKindContact PriceKind = "contact"
	PriceKindPaid    PriceKind = "paid"
	PriceKindFree    PriceKind = "free"
)

// SubscriptionBucket groups a user's subscriptions on the dashboard.
type SubscriptionBucket string

const (
	SubscriptionBucketActive       SubscriptionBucket = "active"
	SubscriptionBucketExpiringSoon SubscriptionBucket = "expiring_soon"
	SubscriptionBucketExpired      SubscriptionBucket = "expired"
	SubscriptionBucketUnverified   SubscriptionBucket = "unverified"
)
