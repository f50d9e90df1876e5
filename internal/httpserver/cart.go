package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"heven-store/internal/domain"
	cartsvc "heven-store/internal/service/cart"
)

func listCartHandler(cart cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		lines, err := cart.Lines(c.Request.Context(), currentProfile(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		if lines == nil {
			lines = []domain.CartLine{}
		}
		c.JSON(http.StatusOK, gin.H{"items": lines})
	}
}

func cartTotalsHandler(cart cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		totals, err := cart.ComputeTotals(c.Request.Context(), currentProfile(c).ID, c.Query("coupon"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, totals)
	}
}

func addCartItemHandler(cart cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartsvc.AddInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		item, err := cart.Add(c.Request.Context(), currentProfile(c).ID, req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func updateCartItemHandler(cart cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if err := cart.UpdateQuantity(c.Request.Context(), currentProfile(c).ID, c.Param("id"), req.Quantity); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func removeCartItemHandler(cart cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		found, err := cart.Remove(c.Request.Context(), currentProfile(c).ID, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		if !found {
			// removing an absent item is not an error, but the caller
			// should know nothing was deleted
			c.JSON(http.StatusOK, gin.H{"removed": false, "warning": "not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
