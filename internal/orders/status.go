package orders

import "restoran-pos/internal/models"

// forward is the only arrow out of each non-terminal status.
var forward = map[models.OrderStatus]models.OrderStatus{
	models.OrderPending:   models.OrderPreparing,
	models.OrderPreparing: models.OrderReady,
	models.OrderReady:     models.OrderDelivered,
}

// Next returns the status that follows s. Delivered is terminal.
func Next(s models.OrderStatus) (models.OrderStatus, bool) {
	n, ok := forward[s]
	return n, ok
}

func CanTransition(from, to models.OrderStatus) bool {
	n, ok := Next(from)
	return ok && n == to
}

func ValidStatus(s string) bool {
	return models.OrderStatus(s).Valid()
}

// ActionLabel is the kitchen button text for moving an order out of s.
func ActionLabel(s models.OrderStatus) string {
	switch s {
	case models.OrderPending:
		return "Start preparing"
	case models.OrderPreparing:
		return "Mark ready"
	case models.OrderReady:
		return "Deliver"
	}
	return ""
}

func StatusLabel(s models.OrderStatus) string {
	switch s {
	case models.OrderPending:
		return "Pending"
	case models.OrderPreparing:
		return "Preparing"
	case models.OrderReady:
		return "Ready"
	case models.OrderDelivered:
		return "Delivered"
	}
	return string(s)
}
