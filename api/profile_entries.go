package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/garnizeh/devconnect/pkg/models"
)

type experienceRequest struct {
	Title       string      `json:"title" validate:"required"`
	Company     string      `json:"company" validate:"required"`
	Location    string      `json:"location"`
	From        models.Date `json:"from" validate:"required"`
	To          models.Date `json:"to"`
	Current     bool        `json:"current"`
	Description string      `json:"description"`
}

func (r *experienceRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Company = strings.TrimSpace(r.Company)
	r.Location = strings.TrimSpace(r.Location)
	r.Description = strings.TrimSpace(r.Description)
}

var experienceMessages = fieldMessages{
	"title":   "Title is required",
	"company": "Company is required",
	"from":    "From date is required",
}

type educationRequest struct {
	School       string      `json:"school" validate:"required"`
	Degree       string      `json:"degree" validate:"required"`
	FieldOfStudy string      `json:"fieldofstudy" validate:"required"`
	From         models.Date `json:"from" validate:"required"`
	To           models.Date `json:"to"`
	Current      *bool       `json:"current" validate:"required"`
	Description  string      `json:"description"`
}

func (r *educationRequest) normalize() {
	r.School = strings.TrimSpace(r.School)
	r.Degree = strings.TrimSpace(r.Degree)
	r.FieldOfStudy = strings.TrimSpace(r.FieldOfStudy)
	r.Description = strings.TrimSpace(r.Description)
}

var educationMessages = fieldMessages{
	"school":       "School is required",
	"degree":       "Degree is required",
	"fieldofstudy": "Field of study is required",
	"from":         "From date is required",
	"current":      "Current is required",
}

// AddExperience puts a new entry at the front of the caller's experience list.
func (h *ProfileHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	var req experienceRequest
	if !decodeAndValidate(w, r, &req, experienceMessages) {
		return
	}

	p, ok := h.current(w, r)
	if !ok {
		return
	}

	p.AddExperience(models.Experience{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	})
	if !h.save(w, r, p) {
		return
	}

	writeJSON(w, p, http.StatusOK)
}

// RemoveExperience drops the entry in the exp_id path variable. Unknown ids leave the
// profile unchanged.
func (h *ProfileHandler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	p, ok := h.current(w, r)
	if !ok {
		return
	}

	if p.RemoveExperience(mux.Vars(r)["exp_id"]) && !h.save(w, r, p) {
		return
	}

	writeJSON(w, p, http.StatusOK)
}

// AddEducation puts a new entry at the front of the caller's education list.
func (h *ProfileHandler) AddEducation(w http.ResponseWriter, r *http.Request) {
	var req educationRequest
	if !decodeAndValidate(w, r, &req, educationMessages) {
		return
	}

	p, ok := h.current(w, r)
	if !ok {
		return
	}

	p.AddEducation(models.Education{
		ID:           uuid.NewString(),
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      *req.Current,
		Description:  req.Description,
	})
	if !h.save(w, r, p) {
		return
	}

	writeJSON(w, p, http.StatusOK)
}

// RemoveEducation drops the entry in the edu_id path variable. Unknown ids leave the
// profile unchanged.
func (h *ProfileHandler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	p, ok := h.current(w, r)
	if !ok {
		return
	}

	if p.RemoveEducation(mux.Vars(r)["edu_id"]) && !h.save(w, r, p) {
		return
	}

	writeJSON(w, p, http.StatusOK)
}
