package quota

import (
	"context"

	"github.com/ECdison6227/flashcraft/internal/config"
	"github.com/sirupsen/logrus"
)

// Grant is a selector outcome. On success Model is the granted model; on
// denial it is the last model whose quota was attempted (empty when nothing
// was attempted). RPD and RPM are the limits that applied to that model.
// SiteLimited is set when the site-wide aggregate cap was among the budgets
// that caused the denial.
type Grant struct {
	Decision
	Model       string
	RPD         int
	RPM         int
	SiteLimited bool
}

// Selector realizes the model fallback strategy: several upstream models,
// each with its own small budget, tried in preference order so that an
// exhausted model transparently spills over to the next.
type Selector struct {
	gate      *Gate
	allowed   map[string]bool
	overrides map[string]config.ModelLimits
	site      ScopeLimits
	log       *logrus.Entry
}

func NewSelector(logger *logrus.Logger, gate *Gate, cfg *config.Config) *Selector {
	allowed := make(map[string]bool, len(cfg.AllowedModels))
	for _, m := range cfg.AllowedModels {
		allowed[m] = true
	}
	return &Selector{
		gate:      gate,
		allowed:   allowed,
		overrides: cfg.ModelLimits,
		site:      ScopeLimits{Scope: SiteScope, RPD: cfg.SiteTotalRPD, RPM: cfg.SiteTotalRPM},
		log:       logger.WithField("component", "model_selector"),
	}
}

// Consume checks quota for one specific model, paired with the site-wide
// aggregate scope when that cap is enabled.
func (s *Selector) Consume(ctx context.Context, model string) (Grant, error) {
	rpd, rpm := s.limitsFor(model)
	scope := ScopeFor(model)

	var dec Decision
	var err error
	if s.siteEnabled() {
		dec, err = s.gate.TryConsumePair(ctx, s.site, ScopeLimits{Scope: scope, RPD: rpd, RPM: rpm})
	} else {
		dec, err = s.gate.TryConsume(ctx, scope, rpd, rpm)
	}
	if err != nil {
		return Grant{}, err
	}
	grant := Grant{Decision: dec, Model: model, RPD: rpd, RPM: rpm}
	for _, scope := range dec.Exhausted {
		if scope == SiteScope {
			grant.SiteLimited = true
		}
	}
	return grant, nil
}

// Pick walks the preference list, skipping models outside the allow-set, and
// returns the first one granted quota. When every candidate is denied the
// returned grant carries the retry hint of the last attempted candidate.
func (s *Selector) Pick(ctx context.Context, preferred []string) (Grant, error) {
	last := Grant{Decision: Decision{RetryAfter: 60}}
	for _, model := range preferred {
		if !s.allowed[model] {
			continue
		}
		grant, err := s.Consume(ctx, model)
		if err != nil {
			return Grant{}, err
		}
		if grant.OK {
			s.log.WithField("model", model).Debug("Model granted quota")
			return grant, nil
		}
		last = grant
	}
	if last.RetryAfter <= 0 {
		last.RetryAfter = 60
	}
	s.log.WithFields(logrus.Fields{
		"last_model":  last.Model,
		"retry_after": last.RetryAfter,
	}).Info("No model has remaining quota")
	return last, nil
}

func (s *Selector) siteEnabled() bool {
	return s.site.RPD > 0 || s.site.RPM > 0
}

func (s *Selector) limitsFor(model string) (int, int) {
	if l, ok := s.overrides[model]; ok {
		return l.RPD, l.RPM
	}
	return defaultLimits(model)
}
