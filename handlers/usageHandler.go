package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/buildbooks/buildbooks_backend/config"
	"github.com/buildbooks/buildbooks_backend/models"
	"github.com/buildbooks/buildbooks_backend/workflow"
)

// RecordUsageHandler appends a usage entry through the workflow, which owns
// per-item serialization and low-stock alerting. The response carries the
// post-event reconciliation view so clients never compute their own.
func RecordUsageHandler(c *gin.Context) {
	var input models.NewUsageRecord
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record, view, err := workflow.RecordUsage(c.Request.Context(), config.GetLogger(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"usage": record, "reconciliation": view})
}

func ListUsageHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if itemIdStr := c.Query("item_id"); itemIdStr != "" {
		itemId, err := strconv.Atoi(itemIdStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "item_id must be an integer"})
			return
		}
		records, err := models.ListUsageByItem(ctx, itemId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"usage": records})
		return
	}
	records, err := models.ListUsageByProject(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": records})
}

func GetUsageHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}
	record, err := models.GetUsageRecord(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func UpdateUsageHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}
	var input models.UpdateUsageRecord
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record, err := workflow.EditUsage(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func DeleteUsageHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}
	if err := workflow.RemoveUsage(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
