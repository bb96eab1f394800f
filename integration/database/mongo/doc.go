// Package mongo provides MongoDB client initialization and health checking.
//
// This package wraps the official MongoDB Go driver with application-level
// retry logic for managed deployments, where cluster cold starts of several
// seconds and brief network interruptions would otherwise fail application
// startup. Both New and NewWithDatabase verify connectivity with a ping
// before returning.
//
// # Configuration
//
// Configuration is handled through environment variables via the Config
// struct. The defaults are tuned for managed deployments:
//
//	MONGODB_URL                 (required)
//	MONGODB_CONNECT_TIMEOUT     (default: 10s)
//	MONGODB_MAX_POOL_SIZE       (default: 100)
//	MONGODB_MIN_POOL_SIZE       (default: 1)
//	MONGODB_MAX_CONN_IDLE_TIME  (default: 300s)
//	MONGODB_RETRY_WRITES        (default: true)
//	MONGODB_RETRY_READS         (default: true)
//	MONGODB_RETRY_ATTEMPTS      (default: 3)
//	MONGODB_RETRY_INTERVAL      (default: 5s)
//
// # Usage
//
// The connected database plugs straight into the session store:
//
//	ctx := context.Background()
//
//	var cfg mongo.Config
//	if err := env.Parse(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	db, err := mongo.NewWithDatabase(ctx, cfg, "myapp")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer db.Client().Disconnect(ctx)
//
//	store := mongostore.New[SessionData](db)
//	if err := store.EnsureIndexes(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// New returns the bare client when database selection happens elsewhere.
//
// # Health Checking
//
// Healthcheck returns a probe function for readiness endpoints:
//
//	router.Get("/health/ready", health.Readiness[*router.Context](
//		logger,
//		mongo.Healthcheck(client),
//	))
//
// # Error Handling
//
// The package defines stable errors checked with errors.Is:
//
//   - ErrFailedToConnectToMongo: all retry attempts were exhausted
//   - ErrEmptyConnectionURL: no connection URL was provided
//   - ErrHealthcheckFailed: the health check ping failed
//
// Each wraps the underlying driver error, so both the stable value and the
// driver detail stay inspectable.
package mongo
