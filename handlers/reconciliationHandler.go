package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/buildbooks/buildbooks_backend/models"
	"github.com/buildbooks/buildbooks_backend/reconcile"
	"github.com/buildbooks/buildbooks_backend/workflow"
)

// GetItemReconciliationHandler recomputes one item's derived view from the
// ledgers. Nothing here is cached; a second call after a ledger edit always
// reflects the edit.
func GetItemReconciliationHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}
	ctx := c.Request.Context()
	item, err := models.GetLineItem(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	purchases, err := models.ListPurchasesByItem(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	usage, err := models.ListUsageByItem(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	view := workflow.BuildItemView(item, purchases, usage)
	remainingPercent, defined := workflow.RemainingPercentForAlert(view)

	resp := gin.H{
		"item":           item,
		"reconciliation": view,
	}
	if defined {
		resp["remaining_percent"] = remainingPercent
	}
	c.JSON(http.StatusOK, resp)
}

// GetProjectReconciliationHandler returns every item's view plus the
// project rollup.
func GetProjectReconciliationHandler(c *gin.Context) {
	ctx := c.Request.Context()
	items, err := models.ListLineItems(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	purchases, err := models.ListPurchasesByProject(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	usage, err := models.ListUsageByProject(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	purchasesByItem := make(map[int][]models.PurchaseRecord)
	for _, p := range purchases {
		purchasesByItem[p.ItemId] = append(purchasesByItem[p.ItemId], p)
	}
	usageByItem := make(map[int][]models.UsageRecord)
	for _, u := range usage {
		usageByItem[u.ItemId] = append(usageByItem[u.ItemId], u)
	}

	type itemWithView struct {
		Item           models.LineItem    `json:"item"`
		Reconciliation reconcile.ItemView `json:"reconciliation"`
	}
	results := make([]itemWithView, 0, len(items))
	views := make([]reconcile.ItemView, 0, len(items))
	for i := range items {
		view := workflow.BuildItemView(&items[i], purchasesByItem[items[i].ID], usageByItem[items[i].ID])
		results = append(results, itemWithView{Item: items[i], Reconciliation: view})
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"items":  results,
		"rollup": reconcile.Rollup(views),
	})
}
