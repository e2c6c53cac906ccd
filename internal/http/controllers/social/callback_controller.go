package social

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/socialgate/internal/http/dto/social"
	httperrors "github.com/dropDatabas3/socialgate/internal/http/errors"
	"github.com/dropDatabas3/socialgate/internal/http/helpers"
	svc "github.com/dropDatabas3/socialgate/internal/http/services/social"
	"github.com/dropDatabas3/socialgate/internal/observability/logger"
	"github.com/dropDatabas3/socialgate/internal/provider"
)

// CallbackController handles GET /v1/auth/social/{provider}/callback.
type CallbackController struct {
	service svc.CallbackService
}

// NewCallbackController creates a new CallbackController.
func NewCallbackController(service svc.CallbackService) *CallbackController {
	return &CallbackController{service: service}
}

// Callback forwards every query parameter to the service untouched. The
// provider layer decides what they mean; in particular, provider error
// reports are a normal outcome that still earns a login code, not a
// request we reject here.
func (c *CallbackController) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("CallbackController.Callback"))

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	providerName := pathProvider(r, "/callback")
	result, err := c.service.Callback(ctx, svc.CallbackRequest{
		Provider: providerName,
		Params:   provider.FromValues(r.URL.Query()),
	})
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrCallbackProviderMissing):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("provider is required"))
		case errors.Is(err, svc.ErrCallbackProviderUnknown):
			httperrors.WriteError(w, httperrors.ErrProviderNotFound)
		case errors.Is(err, svc.ErrCallbackProviderDisabled):
			httperrors.WriteError(w, httperrors.ErrProviderDisabled)
		case errors.Is(err, svc.ErrCallbackProviderUnavailable):
			httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithDetail("provider is not usable"))
		case errors.Is(err, svc.ErrCallbackStateMissing):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("state is required"))
		case errors.Is(err, svc.ErrCallbackStateExpired):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("state is expired, restart the flow"))
		case errors.Is(err, svc.ErrCallbackStateInvalid):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("state is invalid"))
		case errors.Is(err, svc.ErrCallbackStateMismatch):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("state was issued for another provider"))
		case errors.Is(err, svc.ErrCallbackNotApplicable):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("callback carries no provider response"))
		default:
			log.Error("callback error", logger.Provider(providerName), logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")

	if result.RedirectURL != "" {
		http.Redirect(w, r, result.RedirectURL, http.StatusFound)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.CallbackResponse{
		Provider: result.Provider,
		Code:     result.Code,
	})
}
