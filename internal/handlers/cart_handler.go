package handlers

import (
	"fmt"
	"log"
	"strings"

	"permata/internal/middleware"
	"permata/internal/models"
	"permata/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the session cart. All cart routes
// require authentication; the session is the authenticated user.
type CartHandler struct {
	cart     *services.CartService
	products *services.ProductService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cart *services.CartService, products *services.ProductService) *CartHandler {
	return &CartHandler{
		cart:     cart,
		products: products,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:key", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items/:key", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
}

// HandleGetCart returns the cart contents with its derived totals. An
// optional comma-separated keys query restricts the total to that subset,
// which the checkout screen uses to total only the selected items.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	sessionID := middleware.UserID(c)

	var selected []string
	if raw := c.Query("keys"); raw != "" {
		selected = strings.Split(raw, ",")
	}

	return c.JSON(fiber.Map{
		"items":          h.cart.Items(sessionID),
		"count":          h.cart.Count(sessionID),
		"total":          h.cart.Total(sessionID, nil),
		"selected_total": h.cart.Total(sessionID, selected),
	})
}

// AddItemRequest represents the request body for adding a cart item.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

// HandleAddItem adds a product to the cart, snapshotting its current name
// and price. Adding the same product and size again bumps the quantity.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "A product ID is required",
		})
	}

	product, err := h.products.GetProductByID(req.ProductID)
	if err != nil {
		log.Printf("Error loading product %s for cart: %v", req.ProductID, err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Product with ID %s not found", req.ProductID),
		})
	}

	item := h.cart.Add(middleware.UserID(c), models.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		ImageURL:  product.ImageURL,
		Size:      req.Size,
		Quantity:  req.Quantity,
	})

	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateQuantityRequest represents the request body for a quantity change.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// HandleUpdateQuantity sets the quantity of a cart item. A quantity below 1
// removes the item.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	h.cart.UpdateQuantity(middleware.UserID(c), c.Params("key"), req.Quantity)
	return c.JSON(fiber.Map{
		"message": "Cart updated",
	})
}

// HandleRemoveItem removes a cart item. Removing an absent key still
// succeeds.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	h.cart.Remove(middleware.UserID(c), c.Params("key"))
	return c.JSON(fiber.Map{
		"message": "Item removed",
	})
}

// HandleClearCart empties the cart unconditionally.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	h.cart.Clear(middleware.UserID(c))
	return c.JSON(fiber.Map{
		"message": "Cart cleared",
	})
}
