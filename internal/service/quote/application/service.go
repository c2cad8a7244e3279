package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"quoteengine/internal/pkg/logger"
	"quoteengine/internal/service/quote/domain"
	"quoteengine/internal/service/quote/port"
)

// Dependencies 汇总 QuoteService 的协作者。
// Store 为 nil 时 enriched 路径关闭，所有目录报价都走静态价目表。
type Dependencies struct {
	Pricing    domain.PricingConfig
	Area       domain.ServiceArea
	Facilities domain.FacilityRegistry
	Store      port.PricingStore
	Rules      port.RuleEngine
	Publisher  port.QuotePublisher
	Metrics    *Metrics
	Tracer     trace.Tracer
	Now        func() time.Time
}

// QuoteService 定义了报价引擎提供的所有用例
type QuoteService struct {
	pricing    domain.PricingConfig
	area       domain.ServiceArea
	facilities *domain.FacilityResolver
	moves      *domain.MoveCalculator
	catalog    *domain.CatalogCalculator
	store      port.PricingStore
	rules      port.RuleEngine
	publisher  port.QuotePublisher
	metrics    *Metrics
	tracer     trace.Tracer
	now        func() time.Time
}

// NewQuoteService 创建一个新的报价服务实例
func NewQuoteService(deps Dependencies) *QuoteService {
	cfg := deps.Pricing.WithDefaults()
	s := &QuoteService{
		pricing:    cfg,
		area:       deps.Area,
		facilities: domain.NewFacilityResolver(deps.Facilities, cfg),
		moves:      domain.NewMoveCalculator(cfg),
		catalog:    domain.NewCatalogCalculator(cfg),
		store:      deps.Store,
		rules:      deps.Rules,
		publisher:  deps.Publisher,
		metrics:    deps.Metrics,
		tracer:     deps.Tracer,
		now:        deps.Now,
	}
	if s.area == nil {
		s.area = domain.OrlandoServiceArea()
	}
	if deps.Facilities == nil {
		s.facilities = domain.NewFacilityResolver(domain.OrlandoFacilities(), cfg)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("quote-service")
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// DefaultMoveBasePrice 供请求解析填充默认值
func (s *QuoteService) DefaultMoveBasePrice() float64 {
	return s.pricing.DefaultMoveBasePrice
}

// Quote 计算目录报价。请求已经过 ParseQuoteRequest 校验，这里不会失败：
// enriched 路径的任何故障都会降级到静态价目表。
func (s *QuoteService) Quote(ctx context.Context, req CanonicalQuoteRequest) domain.QuoteResult {
	started := time.Now()
	ctx, span := s.tracer.Start(ctx, "service.Quote")
	defer span.End()

	span.SetAttributes(
		attribute.String("quote.service_type", string(req.ServiceType)),
		attribute.String("quote.tier", string(req.Tier)),
		attribute.String("user.id", req.UserID),
	)

	out := s.tryEnriched(ctx, req)

	var (
		result domain.QuoteResult
		reason string
	)
	switch out.kind {
	case outcomePriced:
		result = out.result
		span.AddEvent("enriched quote computed")
	case outcomeFailed:
		reason = out.reason
		logger.Ctx(ctx).Error().
			Err(out.err).
			Str("user_id", req.UserID).
			Str("service_type", string(req.ServiceType)).
			Str("tier", string(req.Tier)).
			Str("degrade_reason", reason).
			Msg("enriched pricing failed, serving static tier price")
		span.RecordError(out.err)
		result = s.degrade(ctx, req, reason)
	default:
		reason = out.reason
		result = s.degrade(ctx, req, reason)
	}

	result.QuoteID = uuid.NewString()
	span.SetAttributes(
		attribute.Bool("quote.degraded", result.Degraded),
		attribute.Float64("quote.total", result.TotalPrice),
	)

	path := "enriched"
	if result.Degraded {
		path = "degraded"
	}
	s.metrics.observeQuote(domain.QuoteKindCatalog, path, started)

	s.publish(ctx, &domain.QuoteIssued{
		QuoteID:          result.QuoteID,
		Kind:             domain.QuoteKindCatalog,
		ServiceType:      string(req.ServiceType),
		Tier:             string(req.Tier),
		ZipCode:          req.ZipCode,
		UserID:           req.UserID,
		TotalPrice:       result.TotalPrice,
		Breakdown:        result.Breakdown,
		SurgeMultiplier:  result.SurgeMultiplier,
		PromoDiscount:    result.PromoDiscount,
		PromoCodeApplied: derefString(result.PromoCodeApplied),
		Degraded:         result.Degraded,
		DegradeReason:    reason,
		IssuedAt:         s.now(),
	})
	return result
}

// degrade 只读内存中的价目表，不做任何 I/O。
func (s *QuoteService) degrade(ctx context.Context, req CanonicalQuoteRequest, reason string) domain.QuoteResult {
	s.metrics.degrade(reason)

	result, known := s.catalog.Fallback(req.Tier)
	if !known {
		s.warnUnknownTier(ctx, req)
	}
	return result
}

func (s *QuoteService) warnUnknownTier(ctx context.Context, req CanonicalQuoteRequest) {
	s.metrics.unknownTier(string(req.ServiceType))
	logger.Ctx(ctx).Warn().
		Str("service_type", string(req.ServiceType)).
		Str("load_size", req.RawLoadSize).
		Float64("default_price", s.pricing.DefaultTierPrice).
		Msg("unrecognized load size, using default tier price")
}

// MoveQuote 计算两地搬运报价。两个 zip 都不在服务区域时两个都会列出。
func (s *QuoteService) MoveQuote(ctx context.Context, req CanonicalMoveQuoteRequest) (*MoveQuoteResponse, error) {
	started := time.Now()
	ctx, span := s.tracer.Start(ctx, "service.MoveQuote")
	defer span.End()

	span.SetAttributes(
		attribute.String("move.pickup_zip", req.PickupZip),
		attribute.String("move.destination_zip", req.DestinationZip),
		attribute.String("move.service_mode", string(req.ServiceMode)),
	)

	var areaErr domain.ServiceAreaError
	pickup, ok := s.area.Resolve(req.PickupZip)
	if !ok {
		areaErr.Unsupported = append(areaErr.Unsupported, domain.UnsupportedZip{Side: domain.SidePickup, Zip: req.PickupZip})
	}
	dest, ok := s.area.Resolve(req.DestinationZip)
	if !ok {
		areaErr.Unsupported = append(areaErr.Unsupported, domain.UnsupportedZip{Side: domain.SideDestination, Zip: req.DestinationZip})
	}
	if len(areaErr.Unsupported) > 0 {
		logger.Ctx(ctx).Info().Strs("unsupported", areaErr.Zips()).Msg("move quote outside service area")
		return nil, &areaErr
	}

	miles := domain.Distance(pickup, dest)
	quote := s.moves.Price(miles, req.PickupStairs, req.DestinationStairs, req.ServiceMode, req.BasePrice)
	quote.QuoteID = uuid.NewString()

	span.SetAttributes(attribute.Float64("move.distance_miles", miles), attribute.Float64("quote.total", quote.TotalPrice))
	s.metrics.observeQuote(domain.QuoteKindMove, "static", started)

	s.publish(ctx, &domain.QuoteIssued{
		QuoteID:         quote.QuoteID,
		Kind:            domain.QuoteKindMove,
		PickupZip:       req.PickupZip,
		DestinationZip:  req.DestinationZip,
		TotalPrice:      quote.TotalPrice,
		Breakdown:       quote.Breakdown,
		SurgeMultiplier: quote.SurgeMultiplier,
		IssuedAt:        s.now(),
	})

	return &MoveQuoteResponse{
		DistanceMiles:     miles,
		PickupCoords:      pickup,
		DestinationCoords: dest,
		MoveQuote:         quote,
	}, nil
}

// DumpDistance 返回离 zip 最近的处理站。zip 不在服务区域时不做任何计算。
func (s *QuoteService) DumpDistance(ctx context.Context, zip string) (*DumpDistanceResponse, error) {
	_, span := s.tracer.Start(ctx, "service.DumpDistance")
	defer span.End()

	point, ok := s.area.Resolve(zip)
	if !ok {
		return nil, &domain.ServiceAreaError{Unsupported: []domain.UnsupportedZip{{Side: domain.SideJob, Zip: zip}}}
	}

	nearest := s.facilities.Nearest(point)
	span.SetAttributes(attribute.String("facility.name", nearest.FacilityName))

	return &DumpDistanceResponse{
		Zip:                   zip,
		NearestDump:           nearest.FacilityName,
		DistanceMiles:         nearest.DistanceMiles,
		EstimatedDriveMinutes: nearest.EstimatedDriveMinutes,
		DistanceFee:           nearest.DistanceFee,
	}, nil
}

// SupportedZips 列出服务区域内的所有 zip
func (s *QuoteService) SupportedZips() SupportedZipsResponse {
	return SupportedZipsResponse{
		SupportedZips: s.area.Zips(),
		ServiceArea:   s.area.Label(),
	}
}

// publish 失败只记日志，审计事件不影响报价。
func (s *QuoteService) publish(ctx context.Context, event *domain.QuoteIssued) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishQuoteIssued(ctx, event); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("quote_id", event.QuoteID).Msg("failed to publish quote issued event")
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
