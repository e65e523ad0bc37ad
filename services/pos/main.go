package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/aquamarinepk/aqm/middleware"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/appetiteclub/cafepos/pkg"
	"github.com/appetiteclub/cafepos/pkg/enums/station"
	"github.com/appetiteclub/cafepos/pkg/tracer"
	"github.com/appetiteclub/cafepos/services/pos/internal/api"
	"github.com/appetiteclub/cafepos/services/pos/internal/mongo"
	"github.com/appetiteclub/cafepos/services/pos/internal/pos"
	"github.com/appetiteclub/cafepos/services/pos/internal/redis"
)

const (
	appNamespace = "POS"
	appName      = "pos"
	appVersion   = "0.1.0"
)

func main() {
	// A missing .env is fine, the environment and flags still apply.
	_ = godotenv.Load()

	config, err := aqm.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("Cannot setup %s(%s): %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := aqm.NewLogger(logLevel)

	opts, err := pos.OptionsFromConfig(config)
	if err != nil {
		log.Fatalf("Cannot setup %s(%s): %v", appName, appVersion, err)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	if opts.TracingEndpoint != "" {
		tp, err := tracer.Init(ctx, appName, opts.StationID, opts.TracingEndpoint)
		if err != nil {
			log.Fatalf("Cannot setup tracing: %v", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logger.Error("cannot flush traces", "error", err)
			}
		}()
	}

	var lifecycles []interface{}

	var tokens api.TokenStore = api.NewMemoryTokenStore()
	var notifications pos.NotificationStore = pos.NewMemoryNotificationStore()
	if opts.RedisAddr != "" {
		redisClient := redis.NewClient(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, logger)
		tokens = redis.NewTokenStore(redisClient, opts.StationID)
		notifications = redis.NewNotificationStore(redisClient, station.Stations.Waiter.Name)
		lifecycles = append(lifecycles, redisClient)
	}

	var outbox pos.OccupancyOutbox = pos.NewMemoryOutbox()
	if opts.MongoURL != "" {
		outboxRepo := mongo.NewOutboxRepo(mongo.NewBaseRepo(opts.MongoURL, opts.MongoName, logger))
		outbox = outboxRepo
		lifecycles = append(lifecycles, outboxRepo)
	}

	// Each process is its own event source so a station ignores its own
	// announcements but not those of a peer running the same role.
	source := opts.StationID + "-" + uuid.NewString()

	var publisher events.Publisher
	var subscriber events.Subscriber
	if opts.NATSURL != "" {
		natsPublisher, err := pkg.NewNATSPublisher(opts.NATSURL, source)
		if err != nil {
			log.Fatalf("Cannot connect to NATS publisher: %v", err)
		}
		defer natsPublisher.Close()

		natsSubscriber, err := pkg.NewNATSSubscriber(opts.NATSURL, source, logger)
		if err != nil {
			log.Fatalf("Cannot connect to NATS subscriber: %v", err)
		}
		defer natsSubscriber.Close()

		publisher = natsPublisher
		subscriber = natsSubscriber
	}
	stationEvents := pos.NewStationEvents(publisher, source, logger)

	client := api.NewClient(opts.APIURL, opts.APITimeout, tokens, logger)
	auth := api.NewAuthDataAccess(client)
	orders := api.NewOrderDataAccess(client)
	catalog := pos.NewCatalog(client)

	store := pos.NewStore()
	confirmations := pos.NewConfirmations(pos.DefaultConfirmationTTL)

	tables := pos.NewTableController(pos.TableControllerDeps{
		Store:  store,
		Tables: api.NewTableDataAccess(client),
		Areas:  api.NewAreaDataAccess(client),
		Outbox: outbox,
		Events: stationEvents,
	}, logger)
	tablePoller := pos.NewPoller("tables", opts.Poll, tables.Sync, logger)

	checkout := pos.NewOrderController(pos.OrderControllerDeps{
		Store:  store,
		Orders: orders,
		Tables: tables,
		Users:  auth,
		Events: stationEvents,
	}, pos.CheckoutOptions{DeselectTableOnCash: opts.DeselectTableOnCash}, logger)

	var views []*pos.StationView
	pollers := []*pos.Poller{tablePoller}
	for _, st := range station.All {
		view := pos.NewStationView(st, pos.StationViewDeps{
			Store:         store,
			Orders:        orders,
			Products:      catalog,
			Notifications: notifications,
			Confirmations: confirmations,
			Events:        stationEvents,
		}, opts.Poll, logger)
		views = append(views, view)
		pollers = append(pollers, view.Poller())
		lifecycles = append(lifecycles, view)
	}
	lifecycles = append(lifecycles, tablePoller)

	templates := pos.DefaultShiftTemplates()
	if opts.TemplatesFile != "" {
		templates, err = pos.LoadShiftTemplates(opts.TemplatesFile)
		if err != nil {
			log.Fatalf("Cannot load shift templates: %v", err)
		}
	}
	schedule := pos.NewScheduleController(
		api.NewShiftDataAccess(client),
		api.NewEmployeeDataAccess(client),
		templates,
		opts.Location,
		logger,
	)

	handler, err := pos.NewHandler(pos.HandlerDeps{
		Auth:          auth,
		Products:      catalog,
		Catalog:       catalog,
		Files:         api.NewFileDataAccess(client),
		Checkout:      checkout,
		Tables:        tables,
		Stations:      views,
		Schedule:      schedule,
		Confirmations: confirmations,
		Rate:          opts.HTTPRate,
	}, logger)
	if err != nil {
		log.Fatalf("Cannot setup handler: %v", err)
	}

	health := pos.NewHealthReporter(pollers, logger)
	lifecycles = append(lifecycles, health)

	if subscriber != nil {
		orderRefreshers := make([]pos.Refresher, 0, len(views))
		for _, v := range views {
			orderRefreshers = append(orderRefreshers, v)
		}
		eventSubscriber := pos.NewStationEventSubscriber(subscriber, source, orderRefreshers, []pos.Refresher{tablePoller}, logger)
		lifecycles = append(lifecycles, eventSubscriber)
	}

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: true,
	})

	options := []aqm.Option{
		aqm.WithConfig(config),
		aqm.WithLogger(logger),
		aqm.WithHTTPMiddleware(stack...),
		aqm.WithHTTPServerModules("web.port", handler),
		aqm.WithGRPCServerModules("grpc.port", health),
		aqm.WithLifecycle(lifecycles...),
		aqm.WithHealthChecks(appName),
	}

	ms := aqm.NewMicro(options...)
	logger.Infof("Starting %s(%s) as %s station", appName, appVersion, opts.StationID)

	if err := ms.Run(ctx); err != nil {
		log.Fatalf("%s(%s) stopped with error: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}
