package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quiz-engine/internal/catalog"
)

type CatalogHandler struct {
	Catalog *catalog.Catalog
}

func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{Catalog: c}
}

func (h *CatalogHandler) ListLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"languages": h.Catalog.Languages()})
}

func (h *CatalogHandler) ListTopics(c *gin.Context) {
	language := c.Param("language")
	topics, ok := h.Catalog.Topics(language)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown language"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"language": language, "topics": topics})
}
