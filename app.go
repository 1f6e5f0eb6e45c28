package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// App wires the handlers to the storage adapter picked at startup. Handlers
// never look at the storage mode; they only see the Store interface.
type App struct {
	store Store
	cfg   *Config
}

func NewApp(store Store, cfg *Config) *App {
	return &App{store: store, cfg: cfg}
}

// -----------------------------
// Response helpers
// -----------------------------

// Every response, success or failure, uses the {success, message, data}
// envelope so clients have a single parsing path.

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, code int, msg string, data interface{}) {
	body := gin.H{"success": true, "message": msg}
	if data != nil {
		body["data"] = data
	}
	c.JSON(code, body)
}

func respondError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"success": false, "message": msg})
}
