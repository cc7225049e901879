package http

import (
	"log/slog"
	"net/http"

	"kharcha/internal/core"
)

type profilePage struct {
	Profile core.UserProfile
}

// handleProfileShow loads the owner's profile, creating the default row on
// first visit.
func (s *Server) handleProfileShow(w http.ResponseWriter, r *http.Request) {
	profile, err := s.repo.GetOrCreateProfile(r.Context(), s.ownerID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Profile load failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.render(w, r, "profile.html", profilePage{Profile: profile})
}

func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form data").Write(w)
		return
	}

	existing, err := s.repo.GetOrCreateProfile(r.Context(), s.ownerID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Profile load failed", "error", err)
		InternalServerError("Something went wrong").Write(w)
		return
	}

	profile, err := parseProfileForm(r.PostForm, existing)
	if err != nil {
		UnprocessableEntityError(errorMessage(err)).Write(w)
		return
	}

	if err := s.repo.UpdateProfile(r.Context(), profile); err != nil {
		s.writeMutationError(w, r, "Profile update failed", err)
		return
	}

	NewHTMXResponse().
		TriggerChanged("profile").
		TriggerSuccessNotification("Profile saved").
		Write(w)
}
