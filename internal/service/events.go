package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/shop_backoffice/internal/logging"
	"github.com/Skotchmaster/shop_backoffice/internal/models"
	"github.com/Skotchmaster/shop_backoffice/internal/mykafka"
)

const (
	EventProductCreated = "product_created"
	EventProductUpdated = "product_updated"
	EventProductDeleted = "product_deleted"
)

type ProductEvent struct {
	Type       string    `json:"type"`
	ProductID  string    `json:"product_id"`
	Name       string    `json:"name,omitempty"`
	Price      float64   `json:"price,omitempty"`
	CategoryID string    `json:"category_id,omitempty"`
	Image      string    `json:"image,omitempty"`
	At         time.Time `json:"at"`
}

func productEvent(kind string, p *models.Product) ProductEvent {
	return ProductEvent{
		Type:       kind,
		ProductID:  p.ID,
		Name:       p.Name,
		Price:      p.Price,
		CategoryID: p.CategoryID,
		Image:      p.Image,
		At:         time.Now().UTC(),
	}
}

// publish is best effort: the mutation is already committed, so a broker
// failure is only logged.
func publish(ctx context.Context, pub Publisher, ev ProductEvent) {
	if pub == nil {
		return
	}
	if err := pub.PublishEvent(ctx, mykafka.TopicProductEvents, ev.ProductID, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "event", ev.Type, "product_id", ev.ProductID, "error", err)
	}
}
