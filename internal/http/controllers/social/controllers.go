package social

import (
	svc "github.com/dropDatabas3/socialgate/internal/http/services/social"
)

// Controllers bundles the social flow controllers for routing.
type Controllers struct {
	Providers *ProvidersController
	Start     *StartController
	Callback  *CallbackController
	Result    *ResultController
}

// NewControllers builds all social controllers from the service set.
// debugPeek enables the result endpoint's non-consuming peek mode.
func NewControllers(services *svc.Services, debugPeek bool) *Controllers {
	return &Controllers{
		Providers: NewProvidersController(services.Providers),
		Start:     NewStartController(services.Start),
		Callback:  NewCallbackController(services.Callback),
		Result:    NewResultController(services.Result, debugPeek),
	}
}
