package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/buildbooks/buildbooks_backend/reports"
)

func ProcurementReportHandler(c *gin.Context) {
	f, err := reports.BuildProcurementReport(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=procurement-report.xlsx")
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
