package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/buildbooks/buildbooks_backend/models"
)

// CreateProjectHandler is the only write outside project scope: it mints the
// project id the X-Project-Id header carries everywhere else.
func CreateProjectHandler(c *gin.Context) {
	var input models.NewProject
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project, err := models.CreateProject(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func GetProjectHandler(c *gin.Context) {
	project, err := models.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}
