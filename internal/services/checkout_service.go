package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"permata/internal/models"
	"permata/internal/repositories"
	"permata/pkg/rabbitmq"

	"github.com/google/uuid"
)

// CheckoutService converts a selected subset of cart items into a persisted
// order plus a notification, then clears those items from the cart. Each
// item's name and price are snapshotted at checkout time, so later cart or
// catalog edits never change a placed order.
type CheckoutService struct {
	cart             *CartService
	orderRepo        repositories.OrderRepository
	notificationRepo repositories.NotificationRepository
	mqClient         *rabbitmq.Client // may be nil
	shippingFee      float64

	mu     sync.Mutex
	placed map[string]string // user id + idempotency key -> order id
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(cart *CartService, orderRepo repositories.OrderRepository, notificationRepo repositories.NotificationRepository, mqClient *rabbitmq.Client, shippingFee float64) *CheckoutService {
	return &CheckoutService{
		cart:             cart,
		orderRepo:        orderRepo,
		notificationRepo: notificationRepo,
		mqClient:         mqClient,
		shippingFee:      shippingFee,
		placed:           make(map[string]string),
	}
}

// CheckoutInput carries everything needed to place an order.
type CheckoutInput struct {
	UserID        string
	SelectedKeys  []string
	PaymentMethod string

	// Shipping address snapshot.
	Recipient  string
	Phone      string
	Street     string
	City       string
	PostalCode string

	// IdempotencyKey guards against double submission: a repeated key
	// returns the order already placed for it instead of creating another.
	IdempotencyKey string
}

// PlaceOrder validates the selection, snapshots the selected items, persists
// the order, removes the items from the cart, and records a notification.
// Any validation failure happens before the first write; the cart is only
// mutated after the order exists.
func (s *CheckoutService) PlaceOrder(input CheckoutInput) (*models.Order, error) {
	if input.UserID == "" {
		return nil, fmt.Errorf("checkout requires an authenticated user")
	}
	if len(input.SelectedKeys) == 0 {
		return nil, fmt.Errorf("checkout requires at least one selected item")
	}
	if input.PaymentMethod != models.PaymentMethodCOD && input.PaymentMethod != models.PaymentMethodBankTransfer {
		return nil, fmt.Errorf("unsupported payment method: %s", input.PaymentMethod)
	}

	// Keys are scoped per user so one user's key can never replay another
	// user's order.
	idemKey := input.UserID + ":" + input.IdempotencyKey
	if input.IdempotencyKey != "" {
		s.mu.Lock()
		orderID, seen := s.placed[idemKey]
		s.mu.Unlock()
		if seen {
			return s.orderRepo.GetByID(orderID)
		}
	}

	// Snapshot the selected items. Every selected key must still be in the
	// cart; a stale key aborts the whole checkout before anything is written.
	var items []models.OrderItem
	var subtotal float64
	for _, key := range input.SelectedKeys {
		cartItem, ok := s.cart.Get(input.UserID, key)
		if !ok {
			return nil, fmt.Errorf("cart item %s not found", key)
		}
		items = append(items, models.OrderItem{
			ProductID: cartItem.ProductID,
			Name:      cartItem.Name,
			Price:     cartItem.Price,
			Quantity:  cartItem.Quantity,
			ImageURL:  cartItem.ImageURL,
			Size:      cartItem.Size,
		})
		subtotal += cartItem.Price * float64(cartItem.Quantity)
	}

	paymentStatus := models.PaymentStatusPaid
	if input.PaymentMethod == models.PaymentMethodCOD {
		paymentStatus = models.PaymentStatusPending
	}

	now := time.Now()
	order := &models.Order{
		ID:            uuid.New().String(),
		OrderNumber:   fmt.Sprintf("ORD-%d", now.UnixMilli()),
		UserID:        input.UserID,
		Items:         items,
		Subtotal:      subtotal,
		ShippingFee:   s.shippingFee,
		Total:         subtotal + s.shippingFee,
		PaymentMethod: input.PaymentMethod,
		PaymentStatus: paymentStatus,
		Status:        models.OrderStatusPending,
		Recipient:     input.Recipient,
		Phone:         input.Phone,
		Street:        input.Street,
		City:          input.City,
		PostalCode:    input.PostalCode,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if input.IdempotencyKey != "" {
		s.mu.Lock()
		s.placed[idemKey] = order.ID
		s.mu.Unlock()
	}

	s.cart.RemoveMany(input.UserID, input.SelectedKeys)

	notification := &models.Notification{
		UserID:  input.UserID,
		Title:   "Order placed",
		Message: fmt.Sprintf("Your order %s has been received and is pending confirmation.", order.OrderNumber),
		Type:    models.NotificationTypeOrder,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		// The order is already persisted; losing the notification should not
		// fail the checkout.
		log.Printf("Warning: failed to create notification for order %s: %v", order.OrderNumber, err)
	}

	if s.mqClient != nil {
		err := s.mqClient.PublishOrderEvent(rabbitmq.OrderEvent{
			Type:        rabbitmq.EventOrderCreated,
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			UserID:      order.UserID,
			Status:      order.Status,
			Total:       order.Total,
		})
		if err != nil {
			log.Printf("Warning: failed to publish order created event for order %s: %v", order.ID, err)
		}
	}

	return order, nil
}
