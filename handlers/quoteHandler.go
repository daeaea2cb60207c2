package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/buildbooks/buildbooks_backend/models"
	"github.com/buildbooks/buildbooks_backend/workflow"
)

// ConvertQuoteHandler maps an accepted supplier quote onto a purchase draft.
// It never writes the ledger; the client confirms quantity and price, then
// posts the draft through the purchase endpoint.
func ConvertQuoteHandler(c *gin.Context) {
	var quote models.Quote
	if err := c.ShouldBindJSON(&quote); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	draft, err := workflow.ConvertAcceptedQuote(c.Request.Context(), workflow.DefaultQuoteMatcher(), &quote)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}
