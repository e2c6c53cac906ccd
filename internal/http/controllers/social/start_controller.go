package social

import (
	"errors"
	"net/http"
	"strings"

	dto "github.com/dropDatabas3/socialgate/internal/http/dto/social"
	httperrors "github.com/dropDatabas3/socialgate/internal/http/errors"
	"github.com/dropDatabas3/socialgate/internal/http/helpers"
	svc "github.com/dropDatabas3/socialgate/internal/http/services/social"
	"github.com/dropDatabas3/socialgate/internal/observability/logger"
)

// StartController handles GET /v1/auth/social/{provider}/start.
type StartController struct {
	service svc.StartService
}

// NewStartController creates a new social start controller.
func NewStartController(service svc.StartService) *StartController {
	return &StartController{service: service}
}

// Start redirects the browser to the provider's consent screen. With
// ?json=1 it answers with the authorize URL instead of redirecting, for
// clients that open the screen themselves.
func (c *StartController) Start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("StartController.Start"))

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	providerName := pathProvider(r, "/start")
	result, err := c.service.Start(ctx, svc.StartRequest{
		Provider:    providerName,
		RedirectURI: strings.TrimSpace(q.Get("redirect_uri")),
	})
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrStartProviderMissing):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("provider is required"))
		case errors.Is(err, svc.ErrStartProviderUnknown):
			httperrors.WriteError(w, httperrors.ErrProviderNotFound)
		case errors.Is(err, svc.ErrStartProviderDisabled):
			httperrors.WriteError(w, httperrors.ErrProviderDisabled)
		case errors.Is(err, svc.ErrStartRedirectNotAllowed):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("redirect_uri is not allowed"))
		case errors.Is(err, svc.ErrStartProviderUnavailable):
			httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithDetail("provider is not usable"))
		default:
			log.Error("start error", logger.Provider(providerName), logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")

	if q.Get("json") == "1" {
		helpers.WriteJSON(w, http.StatusOK, dto.StartResponse{
			Provider:     result.Provider,
			AuthorizeURL: result.AuthorizeURL,
		})
		return
	}

	http.Redirect(w, r, result.AuthorizeURL, http.StatusFound)
}

// pathProvider extracts the provider segment from the request path.
func pathProvider(r *http.Request, suffix string) string {
	if p := r.PathValue("provider"); p != "" {
		return p
	}
	// Fallback: parse from the URL path manually.
	// Path expected: /v1/auth/social/{provider}/start or .../callback
	rest := strings.TrimPrefix(r.URL.Path, "/v1/auth/social/")
	rest = strings.TrimSuffix(rest, suffix)
	return strings.Trim(rest, "/")
}
