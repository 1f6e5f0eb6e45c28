package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (app *App) Dashboard(c *gin.Context) {
	stats, err := app.store.DashboardStats()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Error fetching dashboard stats")
		return
	}
	respondOK(c, stats)
}

// Activity returns the recent-activity feed shown on the admin dashboard.
// There is no activity log table yet, so the feed is illustrative.
func (app *App) Activity(c *gin.Context) {
	now := time.Now().UTC()
	activities := []gin.H{
		{
			"id":        1,
			"type":      "application",
			"message":   "New application received from John Doe",
			"timestamp": now.Add(-1 * time.Hour),
		},
		{
			"id":        2,
			"type":      "event",
			"message":   "DigiCon 3.0 registration opened",
			"timestamp": now.Add(-2 * time.Hour),
		},
		{
			"id":        3,
			"type":      "member",
			"message":   "New member added: Jane Smith",
			"timestamp": now.Add(-24 * time.Hour),
		},
		{
			"id":        4,
			"type":      "contact",
			"message":   "New contact message from visitor",
			"timestamp": now.Add(-48 * time.Hour),
		},
	}
	respondOK(c, activities)
}

func (app *App) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "KARE ACM SIGBED API is running",
		"timestamp": time.Now().UTC(),
	})
}
