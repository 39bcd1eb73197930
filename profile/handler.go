package profile

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/modfin/henry/slicez"

	"profilebook/httpresponse"
	"profilebook/store"
)

// Store is the part of the profile store the handlers need
type Store interface {
	Insert(ctx context.Context, p store.Profile) (int64, error)
	ListAll(ctx context.Context) ([]store.Profile, error)
}

// profileResult is a stored profile as returned to the client
type profileResult struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

// CreateProfileResponse is the new profile plus every stored profile, so the
// client can redraw its list straight away.
type CreateProfileResponse struct {
	Result   profileResult   `json:"result"`
	Profiles []profileResult `json:"profiles"`
}

// ListProfilesResponse is returned when listing the stored profiles
type ListProfilesResponse struct {
	Profiles []profileResult `json:"profiles"`
}

// GendersResponse lists the options for the gender dropdown
type GendersResponse struct {
	Genders []string `json:"genders"`
}

type HandlerDeps struct {
	// store to save profiles to and read them from
	Store Store

	// builds the form for the random endpoint, defaults to Random
	// mainly for testing
	RandomForm func() (Form, error)
}

func (d *HandlerDeps) randomForm() (Form, error) {
	if d.RandomForm == nil {
		return Random()
	}
	return d.RandomForm()
}

// RegisterRoutes mounts the profile endpoints on mux
func RegisterRoutes(mux *http.ServeMux, deps HandlerDeps) {
	mux.HandleFunc("POST /profiles", CreateProfileHandler(deps))
	mux.HandleFunc("GET /profiles", ListProfilesHandler(deps))
	mux.HandleFunc("POST /profiles/random", CreateRandomProfileHandler(deps))
	mux.HandleFunc("GET /profiles/genders", GendersHandler())
}

// Validates the submitted form and stores it as a new profile
func CreateProfileHandler(deps HandlerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var form Form
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(httpresponse.ErrorResponse{Error: "Invalid request payload"})
			return
		}

		createProfile(w, r, deps, form)
	}
}

// Creates a random profile
func CreateRandomProfileHandler(deps HandlerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		form, err := deps.randomForm()
		if err != nil {
			slog.Error("failed to generate random profile", slog.Any("error", err))
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(httpresponse.ErrorResponse{Error: "failed to create profile"})
			return
		}

		createProfile(w, r, deps, form)
	}
}

// Returns every stored profile in insertion order
func ListProfilesHandler(deps HandlerDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		profiles, err := deps.Store.ListAll(r.Context())
		if err != nil {
			slog.Error("failed to list profiles", slog.Any("error", err))
			writeStoreError(w, err, "failed to list profiles")
			return
		}

		json.NewEncoder(w).Encode(ListProfilesResponse{Profiles: toResults(profiles)})
	}
}

func GendersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(GendersResponse{Genders: GenderOptions})
	}
}

func createProfile(w http.ResponseWriter, r *http.Request, deps HandlerDeps, form Form) {
	p, err := form.Validate()
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(httpresponse.ErrorResponse{Error: "Please complete all fields", Fields: validationErr.Fields})
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(httpresponse.ErrorResponse{Error: "Invalid profile"})
		return
	}

	id, err := deps.Store.Insert(r.Context(), p)
	if err != nil {
		slog.Error("failed to create profile", slog.Any("error", err))
		writeStoreError(w, err, "failed to create profile")
		return
	}
	p.ID = id

	profiles, err := deps.Store.ListAll(r.Context())
	if err != nil {
		slog.Error("failed to list profiles after insert", slog.Int64("id", id), slog.Any("error", err))
		writeStoreError(w, err, "failed to list profiles")
		return
	}

	response := CreateProfileResponse{Result: toResult(p), Profiles: toResults(profiles)}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// a closed store is reported as unavailable, everything else as a server error
func writeStoreError(w http.ResponseWriter, err error, msg string) {
	status := http.StatusInternalServerError
	if errors.Is(err, store.ErrNotOpen) || errors.Is(err, store.ErrStorageUnavailable) {
		status = http.StatusServiceUnavailable
	}
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(httpresponse.ErrorResponse{Error: msg})
}

func toResult(p store.Profile) profileResult {
	return profileResult{
		ID:       p.ID,
		Name:     p.Name,
		LastName: p.LastName,
		Age:      p.Age,
		Gender:   p.Gender,
		Phone:    p.Phone,
		Email:    p.Email,
	}
}

func toResults(profiles []store.Profile) []profileResult {
	results := slicez.Map(profiles, toResult)
	if results == nil {
		// encode as [] rather than null
		results = []profileResult{}
	}
	return results
}
