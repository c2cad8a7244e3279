package port

import "quoteengine/internal/service/quote/domain"

// RuleEngine evaluates a promo code's rule expression against a fact.
type RuleEngine interface {
	Evaluate(rule string, fact domain.PromoFact) (bool, error)
}
