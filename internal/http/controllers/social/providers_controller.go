package social

import (
	"net/http"

	httperrors "github.com/dropDatabas3/socialgate/internal/http/errors"
	"github.com/dropDatabas3/socialgate/internal/http/helpers"
	svc "github.com/dropDatabas3/socialgate/internal/http/services/social"
)

// ProvidersController handles GET /v1/auth/social/providers.
type ProvidersController struct {
	service svc.ProvidersService
}

// NewProvidersController creates a new providers listing controller.
func NewProvidersController(service svc.ProvidersService) *ProvidersController {
	return &ProvidersController{service: service}
}

// List returns the known providers and whether each is enabled.
func (c *ProvidersController) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, c.service.List(r.Context()))
}
