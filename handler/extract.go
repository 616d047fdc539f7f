package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"algocom-api/fetcher"
)

type ExtractHandler struct {
	extractor *fetcher.Extractor
}

func NewExtractHandler(extractor *fetcher.Extractor) *ExtractHandler {
	return &ExtractHandler{extractor: extractor}
}

// Extract pulls readable text from a scraped article page. Extraction
// failures return a placeholder with 200 so the reader view still renders.
func (h *ExtractHandler) Extract(c *gin.Context) {
	pageURL := c.Query("url")
	if pageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	content, err := h.extractor.Extract(c.Request.Context(), pageURL)
	if err != nil {
		log.Printf("[WARN] Extraction failed for %s: %v", pageURL, err)
		c.JSON(http.StatusOK, gin.H{"content": "Full content could not be extracted."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": content})
}
