package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Zia-11/web-project/internal/events"
	"github.com/Zia-11/web-project/internal/repository"
	"github.com/Zia-11/web-project/internal/ws"
)

// CountNotifier recomputes the product total after every product mutation
// and pushes it to all websocket subscribers. Failures are logged and
// never reach the triggering request.
type CountNotifier struct {
	dispatcher events.Dispatcher
	products   repository.ProductRepository
	hub        *ws.Hub
	logger     *zap.Logger
}

// NewCountNotifier creates the notifier.
func NewCountNotifier(dispatcher events.Dispatcher, products repository.ProductRepository, hub *ws.Hub, logger *zap.Logger) *CountNotifier {
	return &CountNotifier{
		dispatcher: dispatcher,
		products:   products,
		hub:        hub,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to every product mutation event.
func (n *CountNotifier) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventProductCreated, n.handleProductMutation)
	n.dispatcher.Subscribe(events.EventProductUpdated, n.handleProductMutation)
	n.dispatcher.Subscribe(events.EventProductDeleted, n.handleProductMutation)
}

func (n *CountNotifier) handleProductMutation(ctx context.Context, event events.Event) error {
	count, err := n.products.Count(ctx)
	if err != nil {
		n.logger.Warn("product count recompute failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return err
	}
	n.logger.Debug("broadcasting product count",
		zap.String("event_type", string(event.Type)),
		zap.Int64("count", count))
	n.hub.Broadcast(count)
	return nil
}
