package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/buildbooks/buildbooks_backend/models"
	"github.com/buildbooks/buildbooks_backend/workflow"
)

// Purchase writes go through the workflow so the alert marker stays anchored
// to the current level; reads hit models directly.
func CreatePurchaseHandler(c *gin.Context) {
	var input models.NewPurchaseRecord
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record, err := workflow.RecordPurchase(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// ListPurchasesHandler lists the project's purchase ledger, or one item's
// slice of it when item_id is given.
func ListPurchasesHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if itemIdStr := c.Query("item_id"); itemIdStr != "" {
		itemId, err := strconv.Atoi(itemIdStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "item_id must be an integer"})
			return
		}
		records, err := models.ListPurchasesByItem(ctx, itemId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"purchases": records})
		return
	}
	records, err := models.ListPurchasesByProject(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": records})
}

func GetPurchaseHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}
	record, err := models.GetPurchaseRecord(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func UpdatePurchaseHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}
	var input models.UpdatePurchaseRecord
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record, err := workflow.EditPurchase(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func DeletePurchaseHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}
	if err := workflow.RemovePurchase(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
