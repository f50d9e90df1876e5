package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"heven-store/internal/domain"
	productrepo "heven-store/internal/repository/product"
)

func listProductsHandler(catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter productrepo.ListFilter
		if c.Query("featured") == "true" {
			featured := true
			filter.Featured = &featured
		}
		if category := c.Query("category"); category != "" {
			filter.CategoryID = &category
		}
		products, err := catalog.List(c.Request.Context(), filter)
		if err != nil {
			writeError(c, err)
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

func getProductHandler(catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := catalog.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func listCategoriesHandler(catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := catalog.Categories(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		if categories == nil {
			categories = []domain.Category{}
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}

func upsertProductHandler(catalog catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.Product
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		product, err := catalog.UpsertProduct(c.Request.Context(), req)
		if err != nil {
			badRequest(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
