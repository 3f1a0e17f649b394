package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/niksmo/cloudshop/config"
	"github.com/niksmo/cloudshop/internal/adapter"
	"github.com/niksmo/cloudshop/internal/adapter/cache"
	"github.com/niksmo/cloudshop/internal/adapter/cli"
	"github.com/niksmo/cloudshop/internal/adapter/kafka"
	"github.com/niksmo/cloudshop/internal/adapter/session"
	"github.com/niksmo/cloudshop/internal/adapter/shopapi"
	"github.com/niksmo/cloudshop/internal/core/port"
	"github.com/niksmo/cloudshop/internal/core/service"
	"github.com/niksmo/cloudshop/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sr"
)

const dialTimeout = 3 * time.Second

type outbound struct {
	api      shopapi.Client
	sessions session.FileStore
	cache    port.ProductCache
	events   port.EventsPublisher
}

type App struct {
	ctx      context.Context
	cfg      config.Config
	outbound outbound
	service  service.Storefront
	closers  []func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	if err := app.initOutboundAdapters(); err != nil {
		app.Close()
		return nil, err
	}
	app.initCoreService()

	return app, nil
}

// NewShop is the [cli.Factory] of the shop command.
func NewShop(ctx context.Context, cfg config.Config) (cli.Shop, func(), error) {
	app, err := New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return app.service, app.Close, nil
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initOutboundAdapters() error {
	const op = "App.initOutboundAdapters"

	api, err := shopapi.New(
		app.cfg.API.BaseURL,
		shopapi.TimeoutOpt(app.cfg.API.Timeout),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	app.outbound.api = api
	app.outbound.sessions = session.NewFileStore(app.cfg.Session.File)
	app.outbound.cache = app.initCache()
	app.outbound.events = app.initEvents()
	return nil
}

// initCache returns nil when the cache is disabled or unreachable, products
// are then always fetched from the API.
func (app *App) initCache() port.ProductCache {
	const op = "App.initCache"

	if !app.cfg.CacheEnabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(app.ctx, dialTimeout)
	defer cancel()

	c, err := cache.NewRedisProductCache(ctx, cache.RedisConfig{
		Addr:     app.cfg.Cache.RedisAddr,
		Password: app.cfg.Cache.RedisPassword,
		TTL:      app.cfg.Cache.TTL,
	})
	if err != nil {
		slog.Warn("product cache disabled", "op", op, "err", err)
		return nil
	}
	app.closers = append(app.closers, c.Close)
	return c
}

// initEvents falls back to discarding events, they must never block the
// storefront.
func (app *App) initEvents() port.EventsPublisher {
	const op = "App.initEvents"
	log := slog.With("op", op)

	if !app.cfg.EventsEnabled() {
		return kafka.Discard{}
	}

	ctx, cancel := context.WithTimeout(app.ctx, dialTimeout)
	defer cancel()

	srOpts := []sr.ClientOpt{sr.URLs(app.cfg.Events.SchemaRegistryURLs...)}
	var kgoOpts []kgo.Opt
	if tlsCfg := app.cfg.Events.TLS; tlsCfg.Enabled {
		c, err := adapter.MakeTLSConfig(tlsCfg.CAFile, tlsCfg.CertFile, tlsCfg.KeyFile)
		if err != nil {
			log.Warn("client events disabled", "err", err)
			return kafka.Discard{}
		}
		srOpts = append(srOpts, sr.DialTLSConfig(c))
		kgoOpts = append(kgoOpts, kgo.DialTLSConfig(c))
	}

	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		log.Warn("client events disabled", "err", err)
		return kafka.Discard{}
	}

	topic := app.cfg.Events.Topic
	serde, err := schema.NewSerdeClientEventV1(
		ctx,
		schema.SubjectOpt(topic+"-value"),
		schema.SchemaIdentifierOpt(schema.NewSchemaCreater(srClient)),
	)
	if err != nil {
		log.Warn("client events disabled", "err", err)
		return kafka.Discard{}
	}

	producer, err := kafka.NewEventsProducer(
		kafka.ProducerClientOpt(ctx, app.cfg.Events.SeedBrokers, topic, kgoOpts...),
		kafka.ProducerEncoderOpt(serde),
	)
	if err != nil {
		log.Warn("client events disabled", "err", err)
		return kafka.Discard{}
	}
	app.closers = append(app.closers, producer.Close)
	return producer
}

func (app *App) initCoreService() {
	app.service = service.New(service.Deps{
		Catalog:          app.outbound.api,
		Categories:       app.outbound.api,
		Users:            app.outbound.api,
		Carts:            app.outbound.api,
		Sessions:         app.outbound.sessions,
		Cache:            app.outbound.cache,
		Events:           app.outbound.events,
		PlaceholderImage: app.cfg.API.PlaceholderImage,
	})
}

func (app *App) Storefront() service.Storefront {
	return app.service
}

func (app *App) Close() {
	slog.Debug("application is closing...")
	for i := len(app.closers) - 1; i >= 0; i-- {
		app.closers[i]()
	}
	app.closers = nil
	slog.Debug("application is closed")
}
