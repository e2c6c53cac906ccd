package social

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dropDatabas3/socialgate/internal/audit"
	dto "github.com/dropDatabas3/socialgate/internal/http/dto/social"
	"github.com/dropDatabas3/socialgate/internal/http/middlewares"
	"github.com/dropDatabas3/socialgate/internal/observability/logger"
	"github.com/dropDatabas3/socialgate/internal/observability/metrics"
	"github.com/dropDatabas3/socialgate/internal/provider"
	"github.com/dropDatabas3/socialgate/internal/security/token"
	"github.com/dropDatabas3/socialgate/internal/util"
)

// Callback errors.
var (
	ErrCallbackProviderMissing     = errors.New("social callback: provider is required")
	ErrCallbackProviderUnknown     = errors.New("social callback: unknown provider")
	ErrCallbackProviderDisabled    = errors.New("social callback: provider is disabled")
	ErrCallbackProviderUnavailable = errors.New("social callback: provider is not usable")
	ErrCallbackStateMissing        = errors.New("social callback: state is required")
	ErrCallbackStateInvalid        = errors.New("social callback: state is invalid")
	ErrCallbackStateExpired        = errors.New("social callback: state is expired")
	ErrCallbackStateMismatch       = errors.New("social callback: state was issued for another provider")
	ErrCallbackNotApplicable       = errors.New("social callback: request carries nothing for this provider")
	ErrCallbackStore               = errors.New("social callback: cannot store result")
)

// CallbackRequest carries the provider name from the path and every query
// parameter the provider redirect delivered. Params go through untouched;
// the provider decides what they mean, including its own error reports.
type CallbackRequest struct {
	Provider string
	Params   provider.Params
}

// CallbackResult is a stored authentication outcome addressed by a one-time
// login code. RedirectURL is empty when the state carried no redirect_uri
// and no finish URL is configured; the controller then answers with JSON
// instead of redirecting.
type CallbackResult struct {
	Provider    string
	Code        string
	RedirectURL string
	OK          bool
}

// CallbackService completes the provider flow and parks the outcome under a
// login code.
type CallbackService interface {
	Callback(ctx context.Context, req CallbackRequest) (CallbackResult, error)
}

// CallbackDeps wires the callback service.
type CallbackDeps struct {
	Registry  *provider.Registry
	Providers map[string]ProviderEntry
	Signer    StateSigner
	Store     *CodeStore
	Audit     audit.Recorder
	FinishURL string
}

type callbackService struct {
	deps CallbackDeps
}

// NewCallbackService builds the callback service.
func NewCallbackService(deps CallbackDeps) CallbackService {
	return &callbackService{deps: deps}
}

func (s *callbackService) Callback(ctx context.Context, req CallbackRequest) (CallbackResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("social.Callback"))

	if req.Provider == "" {
		return CallbackResult{}, ErrCallbackProviderMissing
	}

	entry, ok := s.deps.Providers[req.Provider]
	if !ok {
		return CallbackResult{}, ErrCallbackProviderUnknown
	}
	if !entry.Enabled {
		return CallbackResult{}, ErrCallbackProviderDisabled
	}

	p, err := s.deps.Registry.Get(req.Provider, entry.Config)
	if err != nil {
		if errors.Is(err, provider.ErrUnknownProvider) {
			return CallbackResult{}, ErrCallbackProviderUnknown
		}
		log.Error("provider build failed", logger.Provider(req.Provider), logger.Err(err))
		return CallbackResult{}, fmt.Errorf("%w: %v", ErrCallbackProviderUnavailable, err)
	}

	// The relay only proceeds on a state it minted itself. The provider
	// then re-checks the same raw value against the callback params, so a
	// tampered state still surfaces as a CSRF failure result.
	if !req.Params.Has("state") {
		return CallbackResult{}, ErrCallbackStateMissing
	}
	rawState := req.Params.Get("state")
	claims, err := s.deps.Signer.ParseState(rawState)
	if err != nil {
		switch {
		case errors.Is(err, ErrStateExpired):
			return CallbackResult{}, ErrCallbackStateExpired
		default:
			log.Warn("state rejected", logger.Provider(req.Provider), logger.Err(err))
			return CallbackResult{}, fmt.Errorf("%w: %v", ErrCallbackStateInvalid, err)
		}
	}
	if claims.Provider != req.Provider {
		return CallbackResult{}, ErrCallbackStateMismatch
	}

	auth := p.AuthenticateClient(ctx, req.Params, rawState)
	if auth == nil {
		metrics.RecordSocialAuthentication(req.Provider, metrics.OutcomeNotApplicable)
		return CallbackResult{}, ErrCallbackNotApplicable
	}

	now := s.deps.Store.now()
	payload := dto.FromAuthenticatedClient(auth, now)
	code, err := s.deps.Store.Put(ctx, payload)
	if err != nil {
		log.Error("login code store failed", logger.Provider(req.Provider), logger.Err(err))
		return CallbackResult{}, fmt.Errorf("%w: %v", ErrCallbackStore, err)
	}

	outcome := metrics.OutcomeSuccess
	subject := ""
	detail := ""
	if auth.Succeeded() {
		subject = strconv.FormatInt(auth.User.ID, 10)
	} else {
		outcome = metrics.OutcomeError
		detail = auth.Error.Message
	}
	metrics.RecordSocialAuthentication(req.Provider, outcome)
	metrics.RecordLoginCode(metrics.CodeEventIssued)

	if s.deps.Audit != nil {
		requestID := middlewares.GetRequestID(ctx)
		s.deps.Audit.Record(ctx, audit.Event{
			Time:      now,
			Kind:      audit.KindAuthentication,
			Provider:  req.Provider,
			Outcome:   outcome,
			Subject:   subject,
			Detail:    detail,
			RequestID: requestID,
		})
		s.deps.Audit.Record(ctx, audit.Event{
			Time:      now,
			Kind:      audit.KindCodeIssued,
			Provider:  req.Provider,
			Outcome:   outcome,
			CodeHash:  token.SHA256Hex(code),
			RequestID: requestID,
		})
	}

	log.Info("callback handled",
		logger.Provider(req.Provider),
		logger.Outcome(outcome),
		logger.String("code", util.MaskToken(code)),
	)

	return CallbackResult{
		Provider:    req.Provider,
		Code:        code,
		RedirectURL: s.finishRedirect(claims.RedirectURI, req.Provider, code),
		OK:          auth.Succeeded(),
	}, nil
}

// finishRedirect builds the front-channel URL that hands the login code back
// to the caller application. The state's redirect_uri wins over the
// configured finish URL; with neither the caller gets JSON.
func (s *callbackService) finishRedirect(target, providerName, code string) string {
	if target == "" {
		target = s.deps.FinishURL
	}
	if target == "" {
		return ""
	}
	sep := "?"
	if u, err := url.Parse(target); err == nil && u.RawQuery != "" {
		sep = "&"
	}
	return target + sep +
		"code=" + url.QueryEscape(code) +
		"&provider=" + url.QueryEscape(providerName)
}
