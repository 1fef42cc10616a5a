package services

import (
	"fmt"
	"log"

	"permata/internal/models"
	"permata/internal/repositories"
	"permata/pkg/rabbitmq"
)

// OrderService handles business logic related to orders after placement:
// customer reads and the admin-driven status machine.
type OrderService struct {
	orderRepo repositories.OrderRepository
	mqClient  *rabbitmq.Client // may be nil
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		mqClient:  mqClient,
	}
}

// GetAllOrders retrieves all orders. Admin only.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetOrdersByUser retrieves all orders placed by a user.
func (s *OrderService) GetOrdersByUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUser(userID)
}

// UpdateOrderStatus moves an order along the status machine:
// pending -> shipping -> completed, or pending -> cancelled. The repository
// update is conditional on the current status, so two admins racing on the
// same order cannot both win.
func (s *OrderService) UpdateOrderStatus(id string, status string) error {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}

	if !models.ValidTransition(order.Status, status) {
		return fmt.Errorf("invalid status transition from %s to %s", order.Status, status)
	}

	if err := s.orderRepo.UpdateStatus(id, order.Status, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}

	if s.mqClient != nil {
		err := s.mqClient.PublishOrderEvent(rabbitmq.OrderEvent{
			Type:        rabbitmq.EventOrderStatusChanged,
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			UserID:      order.UserID,
			Status:      status,
			Total:       order.Total,
		})
		if err != nil {
			log.Printf("Warning: failed to publish status change event for order %s: %v", id, err)
		}
	}

	return nil
}
