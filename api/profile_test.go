package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/garnizeh/devconnect/pkg/models"
	"github.com/garnizeh/devconnect/pkg/repository/mock"
)

type profileBody struct {
	ID   string `json:"_id"`
	User *struct {
		ID     string `json:"_id"`
		Name   string `json:"name"`
		Avatar string `json:"avatar"`
	} `json:"user"`
	Company    string            `json:"company"`
	Website    string            `json:"website"`
	Status     string            `json:"status"`
	Skills     []string          `json:"skills"`
	Social     map[string]string `json:"social"`
	Experience []struct {
		ID      string  `json:"_id"`
		Title   string  `json:"title"`
		From    string  `json:"from"`
		To      *string `json:"to"`
		Current bool    `json:"current"`
	} `json:"experience"`
	Education []struct {
		ID           string `json:"_id"`
		School       string `json:"school"`
		FieldOfStudy string `json:"fieldofstudy"`
		Current      bool   `json:"current"`
	} `json:"education"`
	Date string `json:"date"`
}

func decodeProfile(t *testing.T, b []byte) profileBody {
	t.Helper()
	var p profileBody
	if err := json.Unmarshal(b, &p); err != nil {
		t.Fatalf("unmarshal profile %s: %v", b, err)
	}
	return p
}

func seedProfile(t *testing.T, s *mock.Store, accountID string, updated time.Time) {
	t.Helper()
	p := &models.Profile{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Status:    "Developer",
		Skills:    []string{"Go"},
		Company:   "Acme",
		Updated:   updated,
	}
	if err := s.SaveProfile(context.Background(), p); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
}

func TestProfileMe(t *testing.T) {
	store := mock.NewStore()
	seedAccount(t, store, "acc-1", "alice@example.com", "hunter22")
	router := newRouter(store, nil)
	tok := tokenFor(t, "acc-1")

	w := do(t, router, http.MethodGet, "/api/profile/me", nil, tok)
	if w.Code != http.StatusBadRequest || decodeMsg(t, w) != "There is no profile for this user" {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}

	seedProfile(t, store, "acc-1", time.Now())
	w = do(t, router, http.MethodGet, "/api/profile/me", nil, tok)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", w.Code, w.Body.String())
	}
	p := decodeProfile(t, w.Body.Bytes())
	if p.User == nil || p.User.Name != "User acc-1" || p.User.Avatar == "" {
		t.Fatalf("expected joined owner, got %s", w.Body.String())
	}

	if w := do(t, router, http.MethodGet, "/api/profile/me", nil, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestProfileUpsert(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		prepare    func(t *testing.T, s *mock.Store)
		wantStatus int
		checkBody  func(t *testing.T, b []byte)
	}{
		{
			name:       "MissingRequired",
			body:       map[string]any{"company": "Acme"},
			wantStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, b []byte) {
				var body errorsBody
				_ = json.Unmarshal(b, &body)
				if len(body.Errors) != 2 || !hasMsg(body, "status", "Status is required") || !hasMsg(body, "skills", "Skills is required") {
					t.Fatalf("unexpected body: %s", b)
				}
			},
		},
		{
			name:       "OnlyBlankSkills",
			body:       map[string]any{"status": "Developer", "skills": " , ,"},
			wantStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, b []byte) {
				var body errorsBody
				_ = json.Unmarshal(b, &body)
				if len(body.Errors) != 1 || !hasMsg(body, "skills", "Skills is required") {
					t.Fatalf("unexpected body: %s", b)
				}
			},
		},
		{
			name:       "InvalidBody",
			body:       []byte(`{"status": 12}`),
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "Create",
			body: map[string]any{
				"status":   "Developer",
				"skills":   " Go, SQL, ,JavaScript",
				"company":  "Acme",
				"website":  "",
				"twitter":  "https://twitter.com/alice",
				"linkedin": "https://linkedin.com/in/alice",
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				p := decodeProfile(t, b)
				if p.ID == "" || p.Status != "Developer" || p.Company != "Acme" || p.Website != "" {
					t.Fatalf("unexpected profile: %s", b)
				}
				want := []string{"Go", "SQL", "JavaScript"}
				if len(p.Skills) != len(want) {
					t.Fatalf("unexpected skills: %v", p.Skills)
				}
				for i := range want {
					if p.Skills[i] != want[i] {
						t.Fatalf("unexpected skills: %v", p.Skills)
					}
				}
				if p.Social["twitter"] != "https://twitter.com/alice" || p.Social["linkedin"] != "https://linkedin.com/in/alice" {
					t.Fatalf("unexpected social: %v", p.Social)
				}
				if p.User == nil || p.User.ID != "acc-1" {
					t.Fatalf("expected joined owner: %s", b)
				}
				if len(p.Experience) != 0 || len(p.Education) != 0 {
					t.Fatalf("new profile must start with empty lists: %s", b)
				}
			},
		},
		{
			name: "UpdateKeepsAbsentFields",
			body: map[string]any{
				"status":  "Senior Developer",
				"skills":  []string{"Rust"},
				"company": "",
				"social":  map[string]string{"youtube": "https://youtube.com/alice"},
			},
			prepare: func(t *testing.T, s *mock.Store) {
				seedProfile(t, s, "acc-1", time.Now().Add(-time.Hour))
				p, _ := s.GetProfileByAccount(context.Background(), "acc-1")
				p.Social.Twitter = "https://twitter.com/alice"
				_ = s.SaveProfile(context.Background(), p)
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				p := decodeProfile(t, b)
				if p.Status != "Senior Developer" || len(p.Skills) != 1 || p.Skills[0] != "Rust" {
					t.Fatalf("expected updated fields: %s", b)
				}
				if p.Company != "Acme" {
					t.Fatalf("absent or empty fields must be left untouched: %s", b)
				}
				if p.Social["twitter"] != "https://twitter.com/alice" || p.Social["youtube"] != "https://youtube.com/alice" {
					t.Fatalf("social links must merge: %v", p.Social)
				}
			},
		},
		{
			name: "DeletedAccount",
			body: map[string]any{"status": "Developer", "skills": "Go"},
			prepare: func(t *testing.T, s *mock.Store) {
				if err := s.DeleteAccount(context.Background(), "acc-1"); err != nil {
					t.Fatalf("delete account: %v", err)
				}
			},
			wantStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, b []byte) {
				if !strings.Contains(string(b), "User not found") {
					t.Fatalf("unexpected body: %s", b)
				}
			},
		},
		{
			name: "StoreError",
			body: map[string]any{"status": "Developer", "skills": "Go"},
			prepare: func(t *testing.T, s *mock.Store) {
				s.SaveErr = errors.New("write failed")
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mock.NewStore()
			seedAccount(t, store, "acc-1", "alice@example.com", "hunter22")
			if tt.prepare != nil {
				tt.prepare(t, store)
			}

			w := do(t, newRouter(store, nil), http.MethodPost, "/api/profile", tt.body, tokenFor(t, "acc-1"))
			if w.Code != tt.wantStatus {
				t.Fatalf("%s: expected status %d got %d body=%s", tt.name, tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.checkBody != nil {
				tt.checkBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestProfileList(t *testing.T) {
	store := mock.NewStore()
	router := newRouter(store, nil)

	w := do(t, router, http.MethodGet, "/api/profile", nil, "")
	if w.Code != http.StatusOK || w.Body.String() != "[]\n" {
		t.Fatalf("expected empty list, got %d %q", w.Code, w.Body.String())
	}

	base := time.Now()
	seedAccount(t, store, "old", "old@example.com", "hunter22")
	seedAccount(t, store, "new", "new@example.com", "hunter22")
	seedProfile(t, store, "old", base.Add(-time.Hour))
	seedProfile(t, store, "new", base)

	w = do(t, router, http.MethodGet, "/api/profile", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var list []profileBody
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list) != 2 || list[0].User == nil || list[0].User.ID != "new" || list[1].User.ID != "old" {
		t.Fatalf("expected newest first, got %s", w.Body.String())
	}
}

func TestProfileByUser(t *testing.T) {
	store := mock.NewStore()
	id := uuid.NewString()
	seedAccount(t, store, id, "alice@example.com", "hunter22")
	seedProfile(t, store, id, time.Now())
	router := newRouter(store, nil)

	cases := map[string]struct {
		path       string
		wantStatus int
	}{
		"Found":     {path: "/api/profile/user/" + id, wantStatus: http.StatusOK},
		"Unknown":   {path: "/api/profile/user/" + uuid.NewString(), wantStatus: http.StatusBadRequest},
		"Malformed": {path: "/api/profile/user/not-an-id", wantStatus: http.StatusBadRequest},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := do(t, router, http.MethodGet, tc.path, nil, "")
			if w.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d %s", tc.wantStatus, w.Code, w.Body.String())
			}
			if tc.wantStatus == http.StatusBadRequest && decodeMsg(t, w) != "Profile not found" {
				t.Fatalf("unexpected body %s", w.Body.String())
			}
			if tc.wantStatus == http.StatusOK && decodeProfile(t, w.Body.Bytes()).User.ID != id {
				t.Fatalf("unexpected profile %s", w.Body.String())
			}
		})
	}
}

func TestProfileDelete(t *testing.T) {
	store := mock.NewStore()
	seedAccount(t, store, "acc-1", "alice@example.com", "hunter22")
	seedAccount(t, store, "acc-2", "bob@example.com", "hunter22")
	seedProfile(t, store, "acc-1", time.Now())
	seedProfile(t, store, "acc-2", time.Now())
	router := newRouter(store, nil)

	w := do(t, router, http.MethodDelete, "/api/profile", nil, tokenFor(t, "acc-1"))
	if w.Code != http.StatusOK || decodeMsg(t, w) != "User deleted" {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}

	ctx := context.Background()
	if a, _ := store.GetAccountByID(ctx, "acc-1"); a != nil {
		t.Fatalf("account must be deleted")
	}
	if p, _ := store.GetProfileByAccount(ctx, "acc-1"); p != nil {
		t.Fatalf("profile must be deleted")
	}
	if p, _ := store.GetProfileByAccount(ctx, "acc-2"); p == nil {
		t.Fatalf("other profiles must survive")
	}

	// the token still verifies but the account is gone
	w = do(t, router, http.MethodGet, "/api/auth", nil, tokenFor(t, "acc-1"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for deleted account, got %d", w.Code)
	}

	store.DeleteErr = errors.New("locked")
	if w := do(t, router, http.MethodDelete, "/api/profile", nil, tokenFor(t, "acc-2")); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on store error, got %d", w.Code)
	}
}

func TestProfileExperience(t *testing.T) {
	store := mock.NewStore()
	seedAccount(t, store, "acc-1", "alice@example.com", "hunter22")
	router := newRouter(store, nil)
	tok := tokenFor(t, "acc-1")

	// missing fields
	w := do(t, router, http.MethodPut, "/api/profile/experience", map[string]any{"location": "Berlin"}, tok)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	body := decodeErrors(t, w)
	if len(body.Errors) != 3 ||
		!hasMsg(body, "title", "Title is required") ||
		!hasMsg(body, "company", "Company is required") ||
		!hasMsg(body, "from", "From date is required") {
		t.Fatalf("unexpected errors: %s", w.Body.String())
	}

	first := map[string]any{"title": "Engineer", "company": "Acme", "from": "2018-01-01", "to": "2020-06-30"}
	second := map[string]any{"title": "Lead", "company": "Globex", "from": "2020-07-01T00:00:00Z", "current": true}

	// no profile yet
	w = do(t, router, http.MethodPut, "/api/profile/experience", first, tok)
	if w.Code != http.StatusBadRequest || decodeMsg(t, w) != "There is no profile for this user" {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}

	seedProfile(t, store, "acc-1", time.Now().Add(-time.Hour))

	if w := do(t, router, http.MethodPut, "/api/profile/experience", first, tok); w.Code != http.StatusOK {
		t.Fatalf("add first: %d %s", w.Code, w.Body.String())
	}
	w = do(t, router, http.MethodPut, "/api/profile/experience", second, tok)
	if w.Code != http.StatusOK {
		t.Fatalf("add second: %d %s", w.Code, w.Body.String())
	}
	p := decodeProfile(t, w.Body.Bytes())
	if len(p.Experience) != 2 || p.Experience[0].Title != "Lead" || p.Experience[1].Title != "Engineer" {
		t.Fatalf("entries must be prepended: %s", w.Body.String())
	}
	if p.Experience[0].ID == "" || p.Experience[0].ID == p.Experience[1].ID {
		t.Fatalf("entries need distinct ids: %s", w.Body.String())
	}
	if p.Experience[1].From != "2018-01-01T00:00:00Z" || p.Experience[1].To == nil || p.Experience[0].To != nil {
		t.Fatalf("unexpected dates: %s", w.Body.String())
	}
	if !p.Experience[0].Current {
		t.Fatalf("expected current entry: %s", w.Body.String())
	}

	// unknown id leaves the list unchanged
	w = do(t, router, http.MethodDelete, "/api/profile/experience/"+uuid.NewString(), nil, tok)
	if w.Code != http.StatusOK || len(decodeProfile(t, w.Body.Bytes()).Experience) != 2 {
		t.Fatalf("unknown id must not remove anything: %d %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodDelete, "/api/profile/experience/"+p.Experience[1].ID, nil, tok)
	if w.Code != http.StatusOK {
		t.Fatalf("remove: %d %s", w.Code, w.Body.String())
	}
	after := decodeProfile(t, w.Body.Bytes())
	if len(after.Experience) != 1 || after.Experience[0].ID != p.Experience[0].ID {
		t.Fatalf("expected only the first entry to remain: %s", w.Body.String())
	}

	stored, _ := store.GetProfileByAccount(context.Background(), "acc-1")
	if len(stored.Experience) != 1 {
		t.Fatalf("removal must be persisted, got %d entries", len(stored.Experience))
	}
}

func TestProfileEducation(t *testing.T) {
	store := mock.NewStore()
	seedAccount(t, store, "acc-1", "alice@example.com", "hunter22")
	seedProfile(t, store, "acc-1", time.Now().Add(-time.Hour))
	router := newRouter(store, nil)
	tok := tokenFor(t, "acc-1")

	w := do(t, router, http.MethodPut, "/api/profile/education", map[string]any{"school": "MIT", "degree": "BSc", "fieldofstudy": "CS", "from": "2010-09-01"}, tok)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	body := decodeErrors(t, w)
	if len(body.Errors) != 1 || !hasMsg(body, "current", "Current is required") {
		t.Fatalf("unexpected errors: %s", w.Body.String())
	}

	w = do(t, router, http.MethodPut, "/api/profile/education", map[string]any{}, tok)
	body = decodeErrors(t, w)
	for param, msg := range map[string]string{
		"school":       "School is required",
		"degree":       "Degree is required",
		"fieldofstudy": "Field of study is required",
		"from":         "From date is required",
		"current":      "Current is required",
	} {
		if !hasMsg(body, param, msg) {
			t.Fatalf("missing %s error in %s", param, w.Body.String())
		}
	}

	entry := map[string]any{"school": "MIT", "degree": "BSc", "fieldofstudy": "CS", "from": "2010-09-01", "current": false}
	w = do(t, router, http.MethodPut, "/api/profile/education", entry, tok)
	if w.Code != http.StatusOK {
		t.Fatalf("add: %d %s", w.Code, w.Body.String())
	}
	p := decodeProfile(t, w.Body.Bytes())
	if len(p.Education) != 1 || p.Education[0].School != "MIT" || p.Education[0].FieldOfStudy != "CS" || p.Education[0].ID == "" {
		t.Fatalf("unexpected education: %s", w.Body.String())
	}

	w = do(t, router, http.MethodDelete, "/api/profile/education/unknown", nil, tok)
	if w.Code != http.StatusOK || len(decodeProfile(t, w.Body.Bytes()).Education) != 1 {
		t.Fatalf("unknown id must not remove anything: %d %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodDelete, "/api/profile/education/"+p.Education[0].ID, nil, tok)
	if w.Code != http.StatusOK || len(decodeProfile(t, w.Body.Bytes()).Education) != 0 {
		t.Fatalf("remove: %d %s", w.Code, w.Body.String())
	}
}
