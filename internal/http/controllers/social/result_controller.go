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

// ResultController handles GET /v1/auth/social/result.
type ResultController struct {
	service   svc.ResultService
	debugPeek bool
}

// NewResultController creates a new social result controller. debugPeek
// decides whether clients may use ?peek=1.
func NewResultController(service svc.ResultService, debugPeek bool) *ResultController {
	return &ResultController{service: service, debugPeek: debugPeek}
}

// GetResult exchanges a login code for the stored authentication outcome.
// The code is consumed on success. ?peek=1 reads without consuming, but
// only when debug peek is enabled; otherwise it is ignored and the code
// is spent as usual.
func (c *ResultController) GetResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ResultController.GetResult"))

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	req := dto.ResultRequest{
		Code: strings.TrimSpace(q.Get("code")),
		Peek: c.debugPeek && q.Get("peek") == "1",
	}

	result, err := c.service.GetResult(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrResultCodeMissing):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("code is required"))
		case errors.Is(err, svc.ErrResultCodeNotFound):
			httperrors.WriteError(w, httperrors.ErrLoginCodeNotFound)
		default:
			log.Error("get result error", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	if result.Peek {
		w.Header().Set("X-Debug-Note", "peek=1 (code not consumed)")
	}

	helpers.WriteJSON(w, http.StatusOK, result)
}

// ResultMetadata reports whether a code exists without consuming it.
// Mounted as HEAD on the result route.
func (c *ResultController) ResultMetadata(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ResultController.ResultMetadata"))

	if r.Method != http.MethodHead {
		w.Header().Set("Allow", "HEAD")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// Peek mode checks existence without spending the code.
	_, err := c.service.GetResult(ctx, dto.ResultRequest{Code: code, Peek: true})
	if err != nil {
		if errors.Is(err, svc.ErrResultCodeNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		log.Error("metadata error", logger.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
}
