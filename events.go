package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// parseDate accepts RFC3339 or plain YYYY-MM-DD.
func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t, err = time.Parse("2006-01-02", value)
	}
	return t, err
}

func (app *App) ListEvents(c *gin.Context) {
	filter := EventFilter{
		Status:       c.Query("status"),
		Type:         c.Query("type"),
		FeaturedOnly: c.Query("featured") == "true",
		UpcomingOnly: c.Query("upcoming") == "true",
		Page:         queryInt(c, "page", 1),
		Limit:        queryInt(c, "limit", 10),
	}

	events, total, err := app.store.ListEvents(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Error fetching events")
		return
	}

	respondOK(c, gin.H{
		"events":     events,
		"pagination": newPagination(filter.Page, filter.Limit, total),
	})
}

func (app *App) UpcomingEvents(c *gin.Context) {
	limit := queryInt(c, "limit", 5)
	events, err := app.store.UpcomingEvents(limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Error fetching upcoming events")
		return
	}
	respondOK(c, events)
}

func (app *App) GetEvent(c *gin.Context) {
	event, err := app.store.GetEvent(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(c, http.StatusNotFound, "Event not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Error fetching event")
		return
	}
	respondOK(c, event)
}

type EventRequest struct {
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	ShortDescription string    `json:"shortDescription"`
	EventType        string    `json:"eventType"`
	Date             string    `json:"date"`
	EndDate          string    `json:"endDate"`
	Time             string    `json:"time"`
	Venue            string    `json:"venue"`
	IsOnline         bool      `json:"isOnline"`
	MeetingLink      string    `json:"meetingLink"`
	Image            string    `json:"image"`
	RegistrationLink string    `json:"registrationLink"`
	MaxParticipants  int       `json:"maxParticipants"`
	Speakers         []Speaker `json:"speakers"`
	Tags             []string  `json:"tags"`
	Status           string    `json:"status"`
	IsFeatured       bool      `json:"isFeatured"`
}

func (app *App) CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" || req.Description == "" || req.Date == "" {
		respondError(c, http.StatusBadRequest, "Please provide title, description and date")
		return
	}
	eventDate, err := parseDate(req.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid date format (use RFC3339 or YYYY-MM-DD)")
		return
	}

	eventType := req.EventType
	if eventType == "" {
		eventType = "other"
	}
	status := req.Status
	if status == "" {
		status = EventStatusUpcoming
	}

	now := time.Now().UTC()
	event := Event{
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		EventType:        eventType,
		Date:             eventDate,
		Time:             req.Time,
		Venue:            req.Venue,
		IsOnline:         req.IsOnline,
		MeetingLink:      req.MeetingLink,
		Image:            req.Image,
		RegistrationLink: req.RegistrationLink,
		MaxParticipants:  req.MaxParticipants,
		Speakers:         req.Speakers,
		Tags:             req.Tags,
		Status:           status,
		IsFeatured:       req.IsFeatured,
		CreatedBy:        currentUser(c).ID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.EndDate != "" {
		endDate, err := parseDate(req.EndDate)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid date format (use RFC3339 or YYYY-MM-DD)")
			return
		}
		event.EndDate = &endDate
	}

	if err := app.store.CreateEvent(&event); err != nil {
		respondError(c, http.StatusInternalServerError, "Error creating event")
		return
	}

	respondMessage(c, http.StatusCreated, "Event created successfully", event)
}

type EventUpdateRequest struct {
	Title            *string    `json:"title"`
	Description      *string    `json:"description"`
	ShortDescription *string    `json:"shortDescription"`
	EventType        *string    `json:"eventType"`
	Date             *string    `json:"date"`
	EndDate          *string    `json:"endDate"`
	Time             *string    `json:"time"`
	Venue            *string    `json:"venue"`
	IsOnline         *bool      `json:"isOnline"`
	MeetingLink      *string    `json:"meetingLink"`
	Image            *string    `json:"image"`
	RegistrationLink *string    `json:"registrationLink"`
	MaxParticipants  *int       `json:"maxParticipants"`
	Speakers         *[]Speaker `json:"speakers"`
	Tags             *[]string  `json:"tags"`
	Status           *string    `json:"status"`
	IsFeatured       *bool      `json:"isFeatured"`
}

func (app *App) UpdateEvent(c *gin.Context) {
	var req EventUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	event, err := app.store.GetEvent(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(c, http.StatusNotFound, "Event not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Error updating event")
		return
	}

	if req.Title != nil {
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.ShortDescription != nil {
		event.ShortDescription = *req.ShortDescription
	}
	if req.EventType != nil {
		event.EventType = *req.EventType
	}
	if req.Date != nil {
		eventDate, err := parseDate(*req.Date)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid date format (use RFC3339 or YYYY-MM-DD)")
			return
		}
		event.Date = eventDate
	}
	if req.EndDate != nil {
		if *req.EndDate == "" {
			event.EndDate = nil
		} else {
			endDate, err := parseDate(*req.EndDate)
			if err != nil {
				respondError(c, http.StatusBadRequest, "Invalid date format (use RFC3339 or YYYY-MM-DD)")
				return
			}
			event.EndDate = &endDate
		}
	}
	if req.Time != nil {
		event.Time = *req.Time
	}
	if req.Venue != nil {
		event.Venue = *req.Venue
	}
	if req.IsOnline != nil {
		event.IsOnline = *req.IsOnline
	}
	if req.MeetingLink != nil {
		event.MeetingLink = *req.MeetingLink
	}
	if req.Image != nil {
		event.Image = *req.Image
	}
	if req.RegistrationLink != nil {
		event.RegistrationLink = *req.RegistrationLink
	}
	if req.MaxParticipants != nil {
		event.MaxParticipants = *req.MaxParticipants
	}
	if req.Speakers != nil {
		event.Speakers = *req.Speakers
	}
	if req.Tags != nil {
		event.Tags = *req.Tags
	}
	if req.Status != nil {
		event.Status = *req.Status
	}
	if req.IsFeatured != nil {
		event.IsFeatured = *req.IsFeatured
	}
	event.UpdatedAt = time.Now().UTC()

	if err := app.store.UpdateEvent(event); err != nil {
		respondError(c, http.StatusInternalServerError, "Error updating event")
		return
	}

	respondMessage(c, http.StatusOK, "Event updated successfully", event)
}

func (app *App) DeleteEvent(c *gin.Context) {
	if err := app.store.DeleteEvent(c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(c, http.StatusNotFound, "Event not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Error deleting event")
		return
	}
	respondMessage(c, http.StatusOK, "Event deleted successfully", nil)
}

type EventRegistrationRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	RollNo     string `json:"rollNo"`
	Department string `json:"department"`
}

// RegisterForEvent is the public registration endpoint. The participant
// counter is incremented atomically by the store so a full event can never
// oversell.
func (app *App) RegisterForEvent(c *gin.Context) {
	var req EventRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Email == "" {
		respondError(c, http.StatusBadRequest, "Name and email are required")
		return
	}

	if _, err := app.store.RegisterParticipant(c.Param("id")); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respondError(c, http.StatusNotFound, "Event not found")
		case errors.Is(err, ErrEventFull):
			respondError(c, http.StatusBadRequest, "Event is full")
		default:
			respondError(c, http.StatusInternalServerError, "Error registering for event")
		}
		return
	}

	respondMessage(c, http.StatusOK, "Registered successfully for the event", nil)
}
