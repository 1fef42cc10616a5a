package handlers

import (
	"fmt"
	"log"

	"permata/internal/middleware"
	"permata/internal/models"
	"permata/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// WishlistHandler handles HTTP requests for wishlists. Routes run behind
// OptionalAuth: authenticated requests address the user's remote wishlist,
// anonymous requests with an X-Device-ID header address the guest wishlist.
type WishlistHandler struct {
	wishlist *services.WishlistService
	products *services.ProductService
	validate *validator.Validate
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(wishlist *services.WishlistService, products *services.ProductService) *WishlistHandler {
	return &WishlistHandler{
		wishlist: wishlist,
		products: products,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the wishlist routes.
func (h *WishlistHandler) RegisterRoutes(router fiber.Router) {
	wishlistRoutes := router.Group("/wishlist")
	wishlistRoutes.Get("/", h.HandleGetWishlist)
	wishlistRoutes.Post("/toggle", h.HandleToggle)
	wishlistRoutes.Delete("/:productId", h.HandleRemove)
}

// HandleGetWishlist returns the caller's wishlist.
func (h *WishlistHandler) HandleGetWishlist(c *fiber.Ctx) error {
	items, err := h.wishlist.List(c.Context(), middleware.UserID(c), c.Get("X-Device-ID"))
	if err != nil {
		log.Printf("Error getting wishlist: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not retrieve wishlist",
			"error":   err.Error(),
		})
	}
	return c.JSON(items)
}

// ToggleRequest represents the request body for a wishlist toggle.
type ToggleRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// HandleToggle adds the product when absent and removes it when present.
func (h *WishlistHandler) HandleToggle(c *fiber.Ctx) error {
	var req ToggleRequest
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
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Product with ID %s not found", req.ProductID),
		})
	}

	added, err := h.wishlist.Toggle(c.Context(), middleware.UserID(c), c.Get("X-Device-ID"), models.WishlistItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		ImageURL:  product.ImageURL,
	})
	if err != nil {
		log.Printf("Error toggling wishlist item %s: %v", req.ProductID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update wishlist",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"product_id":  req.ProductID,
		"in_wishlist": added,
	})
}

// HandleRemove deletes a product from the wishlist. Idempotent.
func (h *WishlistHandler) HandleRemove(c *fiber.Ctx) error {
	productID := c.Params("productId")
	if err := h.wishlist.Remove(c.Context(), middleware.UserID(c), c.Get("X-Device-ID"), productID); err != nil {
		log.Printf("Error removing wishlist item %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update wishlist",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Item removed from wishlist",
	})
}
