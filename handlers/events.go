package handlers

import (
	"time"

	"cafe-pos-api/events"
	"cafe-pos-api/models"
)

var publisher *events.Publisher

// SetPublisher wires the order-event feed; a nil publisher disables it
func SetPublisher(p *events.Publisher) {
	publisher = p
}

func publishOrderEvent(order *models.Order, eventType string) {
	publisher.Publish(events.OrderEvent{
		OrderID:  order.ID,
		OrderNo:  order.OrderNo,
		Type:     eventType,
		Status:   string(order.Status),
		Total:    order.TotalPrice,
		Occurred: time.Now(),
	})
}
