package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/garnizeh/devconnect/pkg/models"
	"github.com/garnizeh/devconnect/pkg/repository"
)

const (
	msgNoProfile       = "There is no profile for this user"
	msgProfileNotFound = "Profile not found"
	msgUserNotFound    = "User not found"
)

type ProfileHandler struct {
	accounts repository.AccountRepo
	profiles repository.ProfileRepo
}

// NewProfileHandler creates a new ProfileHandler with required dependencies.
func NewProfileHandler(accounts repository.AccountRepo, profiles repository.ProfileRepo) *ProfileHandler {
	return &ProfileHandler{accounts: accounts, profiles: profiles}
}

// profileRequest carries a partial profile. Optional fields are pointers so absent and
// empty values leave the stored value untouched. Social links are accepted flat, as the
// web client sends them, or nested under "social".
type profileRequest struct {
	Status         string           `json:"status" validate:"required"`
	Skills         models.SkillList `json:"skills" validate:"required,min=1"`
	Company        *string          `json:"company"`
	Website        *string          `json:"website"`
	Location       *string          `json:"location"`
	Bio            *string          `json:"bio"`
	GitHubUsername *string          `json:"githubusername"`
	YouTube        *string          `json:"youtube"`
	Twitter        *string          `json:"twitter"`
	Facebook       *string          `json:"facebook"`
	LinkedIn       *string          `json:"linkedin"`
	Instagram      *string          `json:"instagram"`
	Social         *models.Social   `json:"social"`
}

func (r *profileRequest) normalize() {
	r.Status = strings.TrimSpace(r.Status)
}

var profileMessages = fieldMessages{
	"status": "Status is required",
	"skills": "Skills is required",
}

func (r *profileRequest) apply(p *models.Profile) {
	p.Status = r.Status
	p.Skills = []string(r.Skills)

	setIfPresent(&p.Company, r.Company)
	setIfPresent(&p.Website, r.Website)
	setIfPresent(&p.Location, r.Location)
	setIfPresent(&p.Bio, r.Bio)
	setIfPresent(&p.GitHubUsername, r.GitHubUsername)

	if s := r.Social; s != nil {
		setIfPresent(&p.Social.YouTube, &s.YouTube)
		setIfPresent(&p.Social.Twitter, &s.Twitter)
		setIfPresent(&p.Social.Facebook, &s.Facebook)
		setIfPresent(&p.Social.LinkedIn, &s.LinkedIn)
		setIfPresent(&p.Social.Instagram, &s.Instagram)
	}
	setIfPresent(&p.Social.YouTube, r.YouTube)
	setIfPresent(&p.Social.Twitter, r.Twitter)
	setIfPresent(&p.Social.Facebook, r.Facebook)
	setIfPresent(&p.Social.LinkedIn, r.LinkedIn)
	setIfPresent(&p.Social.Instagram, r.Instagram)
}

func setIfPresent(dst, v *string) {
	if v == nil {
		return
	}
	if s := strings.TrimSpace(*v); s != "" {
		*dst = s
	}
}

// Me answers the caller's profile.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.GetProfileByAccount(r.Context(), AccountIDFrom(r.Context()))
	if err != nil {
		serverError(w, r, err)
		return
	}
	if p == nil {
		writeMsg(w, msgNoProfile, http.StatusBadRequest)
		return
	}

	writeJSON(w, p, http.StatusOK)
}

// Upsert creates the caller's profile or updates the fields present in the request.
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !decodeAndValidate(w, r, &req, profileMessages) {
		return
	}

	ctx := r.Context()
	accountID := AccountIDFrom(ctx)

	p, err := h.profiles.GetProfileByAccount(ctx, accountID)
	if err != nil {
		serverError(w, r, err)
		return
	}
	if p == nil {
		acc, err := h.accounts.GetAccountByID(ctx, accountID)
		if err != nil {
			serverError(w, r, err)
			return
		}
		if acc == nil {
			writeMsg(w, msgUserNotFound, http.StatusBadRequest)
			return
		}
		p = &models.Profile{ID: uuid.NewString(), AccountID: accountID}
	}

	req.apply(p)
	if !h.save(w, r, p) {
		return
	}

	saved, err := h.profiles.GetProfileByAccount(ctx, accountID)
	if err != nil {
		serverError(w, r, err)
		return
	}
	if saved == nil {
		writeMsg(w, msgNoProfile, http.StatusBadRequest)
		return
	}

	writeJSON(w, saved, http.StatusOK)
}

// List answers every profile, most recently updated first.
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.ListProfiles(r.Context())
	if err != nil {
		serverError(w, r, err)
		return
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}

	writeJSON(w, profiles, http.StatusOK)
}

// ByUser answers the profile of the account in the user_id path variable.
func (h *ProfileHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["user_id"]
	if _, err := uuid.Parse(id); err != nil {
		writeMsg(w, msgProfileNotFound, http.StatusBadRequest)
		return
	}

	p, err := h.profiles.GetProfileByAccount(r.Context(), id)
	if err != nil {
		serverError(w, r, err)
		return
	}
	if p == nil {
		writeMsg(w, msgProfileNotFound, http.StatusBadRequest)
		return
	}

	writeJSON(w, p, http.StatusOK)
}

// Delete removes the caller's profile and account.
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.DeleteAccount(r.Context(), AccountIDFrom(r.Context())); err != nil {
		serverError(w, r, err)
		return
	}

	writeMsg(w, "User deleted", http.StatusOK)
}

// current loads the caller's profile, answering 400 when there is none.
func (h *ProfileHandler) current(w http.ResponseWriter, r *http.Request) (*models.Profile, bool) {
	p, err := h.profiles.GetProfileByAccount(r.Context(), AccountIDFrom(r.Context()))
	if err != nil {
		serverError(w, r, err)
		return nil, false
	}
	if p == nil {
		writeMsg(w, msgNoProfile, http.StatusBadRequest)
		return nil, false
	}
	return p, true
}

func (h *ProfileHandler) save(w http.ResponseWriter, r *http.Request, p *models.Profile) bool {
	p.Updated = time.Now().UTC()
	if err := h.profiles.SaveProfile(r.Context(), p); err != nil {
		serverError(w, r, err)
		return false
	}
	return true
}
