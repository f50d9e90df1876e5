package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	wishlistrepo "heven-store/internal/repository/wishlist"
)

func listWishlistHandler(wishlist wishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := wishlist.List(c.Request.Context(), currentProfile(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		if entries == nil {
			entries = []wishlistrepo.Entry{}
		}
		c.JSON(http.StatusOK, gin.H{"items": entries})
	}
}

func addWishlistHandler(wishlist wishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := wishlist.Add(c.Request.Context(), currentProfile(c).ID, c.Param("productId")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func removeWishlistHandler(wishlist wishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := wishlist.Remove(c.Request.Context(), currentProfile(c).ID, c.Param("productId")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
