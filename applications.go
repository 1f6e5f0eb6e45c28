package main

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	emailRegex = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	phoneRegex = regexp.MustCompile(`^\d{10}$`)
	nonDigits  = regexp.MustCompile(`\D`)
)

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}

type ApplicationRequest struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	RollNo     string `json:"rollNo"`
	Department string `json:"department"`
	Year       string `json:"year"`
	Position   string `json:"position"`
	Skills     string `json:"skills"`
	Motivation string `json:"motivation"`
	Linkedin   string `json:"linkedin"`
	Github     string `json:"github"`
}

// SubmitApplication handles the public recruitment form.
func (app *App) SubmitApplication(c *gin.Context) {
	var req ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Please fill in all required fields")
		return
	}

	if req.FullName == "" || req.Email == "" || req.Phone == "" || req.RollNo == "" ||
		req.Department == "" || req.Year == "" || req.Position == "" || req.Motivation == "" {
		respondError(c, http.StatusBadRequest, "Please fill in all required fields")
		return
	}
	if !emailRegex.MatchString(req.Email) {
		respondError(c, http.StatusBadRequest, "Please provide a valid email address")
		return
	}
	phone := nonDigits.ReplaceAllString(req.Phone, "")
	if !phoneRegex.MatchString(phone) {
		respondError(c, http.StatusBadRequest, "Please provide a valid 10-digit phone number")
		return
	}
	if !validDepartments[req.Department] {
		respondError(c, http.StatusBadRequest, "Please provide a valid department")
		return
	}
	if !validYears[req.Year] {
		respondError(c, http.StatusBadRequest, "Please provide a valid year of study")
		return
	}
	if !validPositions[req.Position] {
		respondError(c, http.StatusBadRequest, "Please provide a valid position")
		return
	}

	exists, err := app.store.ApplicationExists(req.Email, req.RollNo)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Error submitting application. Please try again.")
		return
	}
	if exists {
		respondError(c, http.StatusBadRequest, "An application with this email or roll number already exists")
		return
	}

	applicationID, err := newApplicationID(app.store)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Error submitting application. Please try again.")
		return
	}

	now := time.Now().UTC()
	application := Application{
		ApplicationID: applicationID,
		FullName:      req.FullName,
		Email:         strings.ToLower(req.Email),
		Phone:         phone,
		RollNo:        req.RollNo,
		Department:    req.Department,
		Year:          req.Year,
		Position:      req.Position,
		Skills:        req.Skills,
		Motivation:    req.Motivation,
		Linkedin:      req.Linkedin,
		Github:        req.Github,
		Status:        AppStatusPending,
		SubmittedAt:   now,
		UpdatedAt:     now,
	}
	if err := app.store.CreateApplication(&application); err != nil {
		if errors.Is(err, ErrDuplicate) {
			respondError(c, http.StatusBadRequest, "An application with this email or roll number already exists")
			return
		}
		respondError(c, http.StatusInternalServerError, "Error submitting application. Please try again.")
		return
	}

	respondMessage(c, http.StatusCreated, "Application submitted successfully!", gin.H{
		"applicationId": application.ApplicationID,
		"name":          application.FullName,
		"position":      application.Position,
		"submittedAt":   application.SubmittedAt,
	})
}

func (app *App) ListApplications(c *gin.Context) {
	filter := ApplicationFilter{
		Status:     c.Query("status"),
		Position:   c.Query("position"),
		Department: c.Query("department"),
		Search:     c.Query("search"),
		Page:       queryInt(c, "page", 1),
		Limit:      queryInt(c, "limit", 10),
	}

	applications, total, err := app.store.ListApplications(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Error fetching applications")
		return
	}

	respondOK(c, gin.H{
		"applications": applications,
		"pagination":   newPagination(filter.Page, filter.Limit, total),
	})
}

func (app *App) GetApplicationStats(c *gin.Context) {
	stats, err := app.store.ApplicationStats()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Error fetching statistics")
		return
	}
	respondOK(c, stats)
}

func (app *App) GetApplication(c *gin.Context) {
	application, err := app.store.GetApplication(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(c, http.StatusNotFound, "Application not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Error fetching application")
		return
	}
	respondOK(c, application)
}

type ApplicationUpdateRequest struct {
	Status        string     `json:"status"`
	Notes         *string    `json:"notes"`
	InterviewDate *time.Time `json:"interviewDate"`
}

func (app *App) UpdateApplication(c *gin.Context) {
	var req ApplicationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status != "" && !validAppStatuses[req.Status] {
		respondError(c, http.StatusBadRequest, "Invalid application status")
		return
	}

	application, err := app.store.GetApplication(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(c, http.StatusNotFound, "Application not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Error updating application")
		return
	}

	if req.Status != "" {
		application.Status = req.Status
	}
	if req.Notes != nil {
		application.Notes = *req.Notes
	}
	if req.InterviewDate != nil {
		application.InterviewDate = req.InterviewDate
	}
	application.UpdatedAt = time.Now().UTC()

	if err := app.store.UpdateApplication(application); err != nil {
		respondError(c, http.StatusInternalServerError, "Error updating application")
		return
	}

	respondMessage(c, http.StatusOK, "Application updated successfully", application)
}

func (app *App) DeleteApplication(c *gin.Context) {
	if err := app.store.DeleteApplication(c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respondError(c, http.StatusNotFound, "Application not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Error deleting application")
		return
	}
	respondMessage(c, http.StatusOK, "Application deleted successfully", nil)
}

// CheckApplication lets the public form warn about duplicates before submit.
func (app *App) CheckApplication(c *gin.Context) {
	exists, err := app.store.ApplicationExists(c.Param("email"), "")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Error checking application")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "exists": exists})
}
