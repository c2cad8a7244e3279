package application

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"quoteengine/internal/pkg/logger"
	"quoteengine/internal/service/quote/domain"
)

type outcomeKind int

const (
	outcomeSkipped outcomeKind = iota
	outcomePriced
	outcomeFailed
)

// degrade reasons, also used as metric labels
const (
	reasonStoreDisabled = "store_disabled"
	reasonAnonymous     = "anonymous"
	reasonTimeout       = "timeout"
	reasonStoreError    = "store_error"
	reasonPanic         = "panic"
)

// enrichedOutcome 是 enriched 路径的结果，由 Quote 分情况处理。
type enrichedOutcome struct {
	kind   outcomeKind
	result domain.QuoteResult
	reason string
	err    error
}

// enrichedInputs 是从存储并发读取到的原始数据
type enrichedInputs struct {
	rate      *domain.Rate
	surge     float64
	promo     *domain.PromoCode
	promoErr  error
	used      bool
	firstTime bool
}

func (s *QuoteService) tryEnriched(ctx context.Context, req CanonicalQuoteRequest) (out enrichedOutcome) {
	if s.store == nil {
		return enrichedOutcome{kind: outcomeSkipped, reason: reasonStoreDisabled}
	}
	if req.UserID == "" || req.BookingSource != "app" {
		return enrichedOutcome{kind: outcomeSkipped, reason: reasonAnonymous}
	}

	defer func() {
		if r := recover(); r != nil {
			out = enrichedOutcome{kind: outcomeFailed, reason: reasonPanic, err: fmt.Errorf("enriched pricing panicked: %v", r)}
		}
	}()

	in, err := s.fetchEnrichedInputs(ctx, req)
	if err == nil {
		// 存储调用都返回了，但调用方可能已经放弃
		err = ctx.Err()
	}
	if err != nil {
		reason := reasonStoreError
		switch {
		case errors.Is(err, errBranchPanic):
			reason = reasonPanic
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
			reason = reasonTimeout
		}
		return enrichedOutcome{kind: outcomeFailed, reason: reason, err: err}
	}

	return enrichedOutcome{kind: outcomePriced, result: s.priceEnriched(ctx, req, in)}
}

// fetchEnrichedInputs 并发读取费率、倍率和优惠码，任何一支失败都会取消其他分支。
func (s *QuoteService) fetchEnrichedInputs(ctx context.Context, req CanonicalQuoteRequest) (*enrichedInputs, error) {
	in := &enrichedInputs{surge: 1}
	g, gctx := errgroup.WithContext(ctx)

	if req.Tier.Known() {
		g.Go(guard(func() error {
			rate, err := s.store.FindRate(gctx, req.ServiceType, req.Tier)
			if errors.Is(err, domain.ErrRateNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			in.rate = rate
			return nil
		}))
	}

	g.Go(guard(func() error {
		m, err := s.store.CurrentSurgeMultiplier(gctx)
		if err != nil {
			return err
		}
		in.surge = m
		return nil
	}))

	if req.PromoCode != "" {
		g.Go(guard(func() error {
			promo, err := s.store.FindPromoCode(gctx, req.PromoCode)
			if errors.Is(err, domain.ErrPromoNotFound) {
				in.promoErr = err
				return nil
			}
			if err != nil {
				return err
			}
			in.promo = promo

			if in.used, err = s.store.HasRedeemedPromo(gctx, promo.ID, req.UserID); err != nil {
				return err
			}
			if promo.FirstTimeOnly || promo.Rule != "" {
				if in.firstTime, err = s.store.IsFirstTimeCustomer(gctx, req.UserID); err != nil {
					return err
				}
			}
			return nil
		}))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

// guard 把分支里的 panic 变成 error，否则会直接打挂进程。
func guard(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", errBranchPanic, r)
			}
		}()
		return fn()
	}
}

var errBranchPanic = errors.New("enriched branch panicked")

// priceEnriched 是纯计算，不再有 I/O。
func (s *QuoteService) priceEnriched(ctx context.Context, req CanonicalQuoteRequest, in *enrichedInputs) domain.QuoteResult {
	log := logger.Ctx(ctx)

	var base float64
	switch {
	case in.rate != nil && in.rate.BaseRate > 0:
		base = in.rate.BaseRate
	case req.Tier.Known():
		base, _ = domain.StaticTierPrice(req.Tier)
	default:
		base = s.pricing.DefaultTierPrice
		s.warnUnknownTier(ctx, req)
	}

	catalogIn := domain.CatalogInput{BasePrice: base, SurgeMultiplier: in.surge}
	for _, name := range req.AddOns {
		price, ok := domain.AddOnPrice(name)
		if !ok {
			log.Warn().Str("add_on", name).Str("service_type", string(req.ServiceType)).Msg("ignoring unknown add-on")
			continue
		}
		catalogIn.AddOns = append(catalogIn.AddOns, domain.PricedAddOn{Name: name, Price: price})
	}

	if req.ServiceType.Disposal() {
		if point, ok := s.area.Resolve(req.ZipCode); ok {
			trip := s.facilities.Nearest(point)
			if trip.FacilityName != "" {
				catalogIn.Disposal = &trip
			}
		}
	}

	result := s.catalog.Price(catalogIn)

	if req.PromoCode == "" {
		return result
	}
	if in.promo == nil {
		s.rejectPromo(ctx, req, in.promoErr)
		return result
	}

	fact := domain.PromoFact{
		UserID:        req.UserID,
		ServiceType:   string(req.ServiceType),
		Tier:          string(req.Tier),
		ZipCode:       req.ZipCode,
		BookingSource: req.BookingSource,
		OrderAmount:   result.TotalPrice,
		FirstTime:     in.firstTime,
		AlreadyUsed:   in.used,
		Now:           s.now(),
	}
	if err := s.checkPromo(in.promo, fact); err != nil {
		s.rejectPromo(ctx, req, err)
		return result
	}

	return s.catalog.ApplyPromo(result, in.promo.Code, in.promo.Discount(result.TotalPrice))
}

func (s *QuoteService) checkPromo(promo *domain.PromoCode, fact domain.PromoFact) error {
	if err := promo.CanApply(fact); err != nil {
		return err
	}
	if promo.Rule == "" || s.rules == nil {
		return nil
	}
	ok, err := s.rules.Evaluate(promo.Rule, fact)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPromoRuleRejected, err)
	}
	if !ok {
		return domain.ErrPromoRuleRejected
	}
	return nil
}

// rejectPromo 优惠码无效不算失败，照常报价，只是不打折。
func (s *QuoteService) rejectPromo(ctx context.Context, req CanonicalQuoteRequest, err error) {
	s.metrics.promoRejection(promoRejectReason(err))
	logger.Ctx(ctx).Info().
		Err(err).
		Str("promo_code", req.PromoCode).
		Str("user_id", req.UserID).
		Msg("promo code not applied")
}

func promoRejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrPromoNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrPromoInactive):
		return "inactive"
	case errors.Is(err, domain.ErrPromoAppOnly):
		return "app_only"
	case errors.Is(err, domain.ErrPromoNotYetValid):
		return "not_yet_valid"
	case errors.Is(err, domain.ErrPromoExpired):
		return "expired"
	case errors.Is(err, domain.ErrPromoExhausted):
		return "exhausted"
	case errors.Is(err, domain.ErrPromoMinimumOrder):
		return "minimum_order"
	case errors.Is(err, domain.ErrPromoAlreadyUsed):
		return "already_used"
	case errors.Is(err, domain.ErrPromoFirstTimeOnly):
		return "first_time_only"
	case errors.Is(err, domain.ErrPromoRuleRejected):
		return "rule"
	}
	return "other"
}
