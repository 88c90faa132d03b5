package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sql_arena/internal/app/service"
	"sql_arena/internal/common"
	"sql_arena/internal/domain/model"
	"sql_arena/internal/platform/config"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

const (
	stateCookieName = "oauth_state"
	stateCookieTTL  = 10 * time.Minute

	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	githubUserURL     = "https://api.github.com/user"
	githubEmailsURL   = "https://api.github.com/user/emails"
)

// OAuthHandler drives the provider redirect flows. A provider without
// configured credentials is left nil and its routes answer 404.
type OAuthHandler struct {
	authService *service.AuthService
	google      *oauth2.Config
	github      *oauth2.Config
	frontendURL string
}

func NewOAuthHandler(authService *service.AuthService) *OAuthHandler {
	cfg := config.AppConfig
	h := &OAuthHandler{authService: authService, frontendURL: cfg.FrontendURL}

	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		h.google = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.OAuthCallbackBase + "/api/auth/google/callback",
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		}
	}
	if cfg.GithubClientID != "" && cfg.GithubClientSecret != "" {
		h.github = &oauth2.Config{
			ClientID:     cfg.GithubClientID,
			ClientSecret: cfg.GithubClientSecret,
			RedirectURL:  cfg.OAuthCallbackBase + "/api/auth/github/callback",
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		}
	}
	return h
}

func (h *OAuthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/google", h.begin(func() *oauth2.Config { return h.google }))
	r.Get("/google/callback", h.callback(model.ProviderGoogle, func() *oauth2.Config { return h.google }))
	r.Get("/github", h.begin(func() *oauth2.Config { return h.github }))
	r.Get("/github/callback", h.callback(model.ProviderGithub, func() *oauth2.Config { return h.github }))
}

func (h *OAuthHandler) begin(conf func() *oauth2.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		oc := conf()
		if oc == nil {
			common.RespondWithError(w, http.StatusNotFound, "OAuth provider not configured")
			return
		}

		state := uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     stateCookieName,
			Value:    state,
			Path:     "/",
			MaxAge:   int(stateCookieTTL.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, oc.AuthCodeURL(state), http.StatusFound)
	}
}

func (h *OAuthHandler) callback(provider string, conf func() *oauth2.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		oc := conf()
		if oc == nil {
			common.RespondWithError(w, http.StatusNotFound, "OAuth provider not configured")
			return
		}

		cookie, err := r.Cookie(stateCookieName)
		if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
			common.RespondWithError(w, http.StatusUnauthorized, "OAuth state mismatch")
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			// Provider denied or user cancelled; back to the landing page.
			http.Redirect(w, r, h.frontendURL+"/", http.StatusFound)
			return
		}

		token, err := oc.Exchange(r.Context(), code)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "OAuth code exchange failed")
			return
		}

		client := oc.Client(r.Context(), token)
		var profile service.FederatedProfile
		if provider == model.ProviderGithub {
			profile, err = fetchGithubProfile(r.Context(), client)
		} else {
			profile, err = fetchGoogleProfile(r.Context(), client)
		}
		if err != nil {
			common.RespondWithError(w, http.StatusBadGateway, "Failed to fetch provider profile")
			return
		}

		result, err := h.authService.FederatedLogin(r.Context(), profile)
		if err != nil {
			common.RespondWithError(w, common.HTTPStatusFromError(err), "Federated login failed")
			return
		}
		http.Redirect(w, r, fmt.Sprintf("%s/?token=%s", h.frontendURL, result.Token), http.StatusFound)
	}
}

type googleUserInfo struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

func fetchGoogleProfile(ctx context.Context, client *http.Client) (service.FederatedProfile, error) {
	var info googleUserInfo
	if err := fetchJSON(ctx, client, googleUserInfoURL, &info); err != nil {
		return service.FederatedProfile{}, err
	}
	return service.FederatedProfile{
		Provider:    model.ProviderGoogle,
		ExternalID:  info.ID,
		Email:       info.Email,
		DisplayName: info.Name,
		FirstName:   info.GivenName,
		LastName:    info.FamilyName,
		AvatarURL:   info.Picture,
	}, nil
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func fetchGithubProfile(ctx context.Context, client *http.Client) (service.FederatedProfile, error) {
	var user githubUser
	if err := fetchJSON(ctx, client, githubUserURL, &user); err != nil {
		return service.FederatedProfile{}, err
	}

	email := user.Email
	if email == "" {
		// The public profile email is often hidden; the emails endpoint needs
		// the user:email scope we requested.
		var emails []githubEmail
		if err := fetchJSON(ctx, client, githubEmailsURL, &emails); err == nil {
			for _, e := range emails {
				if e.Primary && e.Verified {
					email = e.Email
					break
				}
			}
		}
	}

	display := user.Name
	if display == "" {
		display = user.Login
	}
	first, last := splitName(user.Name)

	return service.FederatedProfile{
		Provider:    model.ProviderGithub,
		ExternalID:  fmt.Sprintf("%d", user.ID),
		Email:       email,
		DisplayName: display,
		FirstName:   first,
		LastName:    last,
		AvatarURL:   user.AvatarURL,
	}, nil
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func fetchJSON(ctx context.Context, client *http.Client, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
