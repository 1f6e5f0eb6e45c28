package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type ContactRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Category string `json:"category"`
}

func (app *App) SubmitContact(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
		respondError(c, http.StatusBadRequest, "Please fill in all required fields")
		return
	}
	if !emailRegex.MatchString(req.Email) {
		respondError(c, http.StatusBadRequest, "Please provide a valid email address")
		return
	}

	category := req.Category
	if category == "" {
		category = "general"
	}

	now := time.Now().UTC()
	contact := Contact{
		Name:      req.Name,
		Email:     strings.ToLower(req.Email),
		Subject:   req.Subject,
		Message:   req.Message,
		Category:  category,
		Status:    "new",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := app.store.CreateContact(&contact); err != nil {
		respondError(c, http.StatusInternalServerError, "Error submitting contact form")
		return
	}

	respondMessage(c, http.StatusCreated, "Thank you for contacting us! We will get back to you soon.", nil)
}

func (app *App) ListContacts(c *gin.Context) {
	filter := ContactFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 20),
	}
	contacts, total, err := app.store.ListContacts(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Error fetching contacts")
		return
	}
	respondOK(c, gin.H{
		"contacts":   contacts,
		"pagination": newPagination(filter.Page, filter.Limit, total),
	})
}

// GetContact marks an unread message as read on first fetch.
func (app *App) GetContact(c *gin.Context) {
	contact, err := app.store.GetContact(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(c, http.StatusNotFound, "Contact message not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Error fetching contact")
		return
	}

	if contact.Status == "new" {
		contact.Status = "read"
		contact.UpdatedAt = time.Now().UTC()
		if err := app.store.UpdateContact(contact); err != nil {
			respondError(c, http.StatusInternalServerError, "Error fetching contact")
			return
		}
	}

	respondOK(c, contact)
}

type ContactUpdateRequest struct {
	Status string `json:"status"`
	Reply  string `json:"reply"`
}

func (app *App) UpdateContact(c *gin.Context) {
	var req ContactUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	contact, err := app.store.GetContact(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(c, http.StatusNotFound, "Contact not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Error updating contact")
		return
	}

	now := time.Now().UTC()
	if req.Status != "" {
		contact.Status = req.Status
	}
	if req.Reply != "" {
		contact.Reply = req.Reply
		contact.RepliedAt = &now
		contact.Status = "replied"
	}
	contact.UpdatedAt = now

	if err := app.store.UpdateContact(contact); err != nil {
		respondError(c, http.StatusInternalServerError, "Error updating contact")
		return
	}

	respondMessage(c, http.StatusOK, "Contact updated successfully", contact)
}

func (app *App) DeleteContact(c *gin.Context) {
	user := currentUser(c)
	if user == nil || user.Role != RoleAdmin {
		respondError(c, http.StatusForbidden, "Only admins can delete contacts")
		return
	}

	if err := app.store.DeleteContact(c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(c, http.StatusNotFound, "Contact not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Error deleting contact")
		return
	}
	respondMessage(c, http.StatusOK, "Contact deleted successfully", nil)
}
