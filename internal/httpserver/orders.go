package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"heven-store/internal/domain"
	checkoutsvc "heven-store/internal/service/checkout"
)

func checkoutHandler(checkout checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutsvc.CheckoutInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		order, err := checkout.Checkout(c.Request.Context(), currentProfile(c).ID, req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func listOrdersHandler(checkout checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := checkout.Orders(c.Request.Context(), currentProfile(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func getOrderHandler(checkout checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := checkout.Order(c.Request.Context(), currentProfile(c).ID, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

func updateOrderStatusHandler(checkout checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		order, err := checkout.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func metricsHandler(checkout checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics, err := checkout.Metrics(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, metrics)
	}
}
