// Package metrics holds the social flow counters. It is a leaf package so
// services and controllers can record events without importing the HTTP
// server that registers them.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for social_authentications_total.
const (
	OutcomeSuccess       = "success"
	OutcomeError         = "error"
	OutcomeNotApplicable = "not_applicable"
)

// Event labels for social_login_codes_total.
const (
	CodeEventIssued  = "issued"
	CodeEventClaimed = "claimed"
)

var (
	once sync.Once
	err  error

	socialAuthenticationsTotal *prometheus.CounterVec
	socialLoginCodesTotal      *prometheus.CounterVec
)

// Register creates the counters and registers them on reg. Registration runs
// once per process; duplicate registrations are ignored so tests can call it
// repeatedly.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	once.Do(func() {
		socialAuthenticationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "social_authentications_total",
			Help: "Social callback authentications by provider and outcome",
		}, []string{"provider", "outcome"}) // outcome: success|error|not_applicable

		socialLoginCodesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "social_login_codes_total",
			Help: "One-time login codes by lifecycle event",
		}, []string{"event"}) // event: issued|claimed

		for _, c := range []prometheus.Collector{socialAuthenticationsTotal, socialLoginCodesTotal} {
			if rerr := reg.Register(c); rerr != nil {
				if _, ok := rerr.(prometheus.AlreadyRegisteredError); ok {
					continue
				}
				err = rerr
				return
			}
		}
	})
	return err
}

// RecordSocialAuthentication counts one finished callback flow. Safe to call
// before Register; the event is simply dropped.
func RecordSocialAuthentication(provider, outcome string) {
	if socialAuthenticationsTotal != nil {
		socialAuthenticationsTotal.WithLabelValues(provider, outcome).Inc()
	}
}

// RecordLoginCode counts a login-code lifecycle event.
func RecordLoginCode(event string) {
	if socialLoginCodesTotal != nil {
		socialLoginCodesTotal.WithLabelValues(event).Inc()
	}
}
