package social

import (
	"context"
	"errors"
	"strings"

	"github.com/dropDatabas3/socialgate/internal/audit"
	dto "github.com/dropDatabas3/socialgate/internal/http/dto/social"
	"github.com/dropDatabas3/socialgate/internal/http/middlewares"
	"github.com/dropDatabas3/socialgate/internal/observability/logger"
	"github.com/dropDatabas3/socialgate/internal/observability/metrics"
	"github.com/dropDatabas3/socialgate/internal/security/token"
	"github.com/dropDatabas3/socialgate/internal/util"
)

// Result errors.
var (
	ErrResultCodeMissing    = errors.New("social result: code is required")
	ErrResultCodeNotFound   = errors.New("social result: code not found")
	ErrResultPayloadInvalid = errors.New("social result: stored payload is invalid")
)

// ResultService exchanges a login code for the parked authentication
// outcome. A plain request consumes the code; peek leaves it in place.
type ResultService interface {
	GetResult(ctx context.Context, req dto.ResultRequest) (dto.ResultResponse, error)
}

// ResultDeps wires the result service.
type ResultDeps struct {
	Store *CodeStore
	Audit audit.Recorder
}

type resultService struct {
	deps ResultDeps
}

// NewResultService builds the result service.
func NewResultService(deps ResultDeps) ResultService {
	return &resultService{deps: deps}
}

func (s *resultService) GetResult(ctx context.Context, req dto.ResultRequest) (dto.ResultResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("social.GetResult"))

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return dto.ResultResponse{}, ErrResultCodeMissing
	}

	var (
		payload dto.ResultPayload
		err     error
	)
	if req.Peek {
		payload, err = s.deps.Store.Peek(ctx, code)
	} else {
		payload, err = s.deps.Store.Claim(ctx, code)
	}
	if err != nil {
		switch {
		case errors.Is(err, ErrCodeNotFound):
			return dto.ResultResponse{}, ErrResultCodeNotFound
		case errors.Is(err, ErrCodePayload):
			log.Error("stored payload rejected", logger.Err(err))
			return dto.ResultResponse{}, ErrResultPayloadInvalid
		default:
			log.Error("login code lookup failed", logger.Err(err))
			return dto.ResultResponse{}, err
		}
	}

	if !req.Peek {
		metrics.RecordLoginCode(metrics.CodeEventClaimed)
		if s.deps.Audit != nil {
			s.deps.Audit.Record(ctx, audit.Event{
				Time:      s.deps.Store.now(),
				Kind:      audit.KindCodeClaimed,
				Provider:  payload.Provider,
				Outcome:   metrics.OutcomeSuccess,
				CodeHash:  token.SHA256Hex(code),
				RequestID: middlewares.GetRequestID(ctx),
			})
		}
	}

	log.Debug("result returned",
		logger.Provider(payload.Provider),
		logger.String("code", util.MaskToken(code)),
		logger.Bool("peek", req.Peek),
	)
	return dto.ResultResponse{Code: code, Payload: payload, Peek: req.Peek}, nil
}
