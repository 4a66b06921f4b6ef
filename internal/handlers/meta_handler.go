package handlers

import (
	"net/http"

	"task-tracker-api/internal/models"

	"github.com/gin-gonic/gin"
)

// GetCategories handles GET /api/categories
// Returns the options the add-task form offers
func GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories":  models.Categories,
		"statuses":    models.Statuses,
		"dateLayout":  models.DateLayout,
		"minPriority": 1,
		"columns":     Columns,
	})
}
