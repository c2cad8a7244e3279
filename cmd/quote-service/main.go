package main

import (
	"context"

	zlog "github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"quoteengine/internal/pkg/bootstrap"
	"quoteengine/internal/pkg/logger"
	"quoteengine/internal/pkg/mq"
	"quoteengine/internal/service/quote/application"
	"quoteengine/internal/service/quote/domain"
	"quoteengine/internal/service/quote/infrastructure"
	"quoteengine/internal/service/quote/infrastructure/rule"
	"quoteengine/internal/service/quote/interfaces"
	"quoteengine/internal/service/quote/port"
)

const (
	serviceName = "quote-service"
)

func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()
	logger.Init(serviceName, cfg.Log.Level)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8080,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			svc := application.NewQuoteService(application.Dependencies{
				Pricing:    appCtx.Config.Pricing,
				Area:       domain.OrlandoServiceArea(),
				Facilities: domain.OrlandoFacilities(),
				Store:      buildStore(appCtx),
				Rules:      buildRuleEngine(),
				Publisher:  buildPublisher(appCtx),
				Metrics:    application.NewMetrics(appCtx.Registry),
				Tracer:     otel.Tracer(serviceName),
			})
			interfaces.NewQuoteHandler(svc).RegisterRoutes(appCtx.Mux)
		},
	})
}

// buildStore 没有启用 mysql 时返回 nil，报价全部走静态价目表。
func buildStore(appCtx bootstrap.AppCtx) port.PricingStore {
	m := appCtx.Config.Infra.MySQL
	if !m.Enabled {
		zlog.Warn().Msg("mysql disabled, catalog quotes use the static tier table only")
		return nil
	}

	db, err := infrastructure.OpenMySQL(infrastructure.MySQLOptions{
		Addr:         m.Addr,
		User:         m.User,
		Password:     m.Password,
		Database:     m.Database,
		MaxOpenConns: m.MaxOpenConns,
		MaxIdleConns: m.MaxIdleConns,
		AutoMigrate:  m.AutoMigrate,
	})
	if err != nil {
		// 存储不可用不影响启动，报价会降级
		zlog.Error().Err(err).Msg("failed to open mysql, catalog quotes will degrade")
		return nil
	}
	appCtx.OnShutdown("mysql", func(context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	var store port.PricingStore = infrastructure.NewGormPricingStore(db, m.StoreTimeout)

	r := appCtx.Config.Infra.Redis
	if r.Enabled {
		client := infrastructure.NewRedisClient(r.Addrs, r.Password, r.DB)
		appCtx.OnShutdown("redis", func(context.Context) error { return client.Close() })
		store = infrastructure.NewCachedPricingStore(store, infrastructure.NewRedisRateCache(client, r.RateTTL))
	}
	return store
}

func buildRuleEngine() port.RuleEngine {
	engine, err := rule.NewCELRuleEngine()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to create promo rule engine")
	}
	return engine
}

func buildPublisher(appCtx bootstrap.AppCtx) port.QuotePublisher {
	k := appCtx.Config.Infra.Kafka
	if !k.Enabled {
		return infrastructure.NopQuotePublisher{}
	}

	writer := mq.NewKafkaWriter(k.Brokers, k.Topic, func(messages []kafka.Message, err error) {
		if err != nil {
			zlog.Warn().Err(err).Int("messages", len(messages)).Msg("quote issued events not delivered")
		}
	})
	publisher := infrastructure.NewKafkaQuotePublisher(writer)
	appCtx.OnShutdown("kafka-writer", func(context.Context) error { return publisher.Close() })
	return publisher
}
