// Package pg provides PostgreSQL connection management with migrations and
// health checking.
//
// This package wraps the pgx driver with application-level retry logic,
// connection pool tuning, and goose-based schema migrations. It backs the
// Postgres session store but carries no session-specific logic; any
// repository can build on it.
//
// # Configuration
//
// All configuration is handled through the Config struct with environment
// variable mapping:
//
//	type Config struct {
//		ConnectionString  string        `env:"PG_CONN_URL,required"`
//		MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
//		MaxIdleConns      int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
//		HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
//		MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
//		MaxConnLifetime   time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`
//		RetryAttempts     int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval     time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`
//		MigrationsPath    string        `env:"PG_MIGRATIONS_PATH" envDefault:"internal/db/migrations"`
//		MigrationsTable   string        `env:"PG_MIGRATIONS_TABLE" envDefault:"schema_migrations"`
//	}
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//
//	var cfg pg.Config
//	if err := env.Parse(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, logger); err != nil {
//		log.Fatal(err)
//	}
//
//	store := postgres.New[SessionData](pool)
//
// Migrate adapts the pool through pgx's database/sql driver because goose
// does not speak pgx natively. The session store ships its own embedded
// migrations; pg.Migrate covers application-owned schemas configured via
// MigrationsPath.
//
// # Transaction Propagation
//
// WithTx and TxFromContext pass a pgx.Tx through the context so
// repositories join the same database transaction. A handler that rotates
// a session while recording an audit row keeps both writes atomic:
//
//	tx, err := pool.Begin(ctx)
//	if err != nil {
//		return err
//	}
//	defer tx.Rollback(ctx) // Safe even after commit.
//
//	txCtx := pg.WithTx(ctx, tx)
//
//	if _, err := tx.Exec(txCtx,
//		"INSERT INTO audit_log (user_id, event) VALUES ($1, $2)",
//		sess.UserID, "login"); err != nil {
//		return err
//	}
//	if err := store.Save(txCtx, sess); err != nil {
//		return err
//	}
//
//	return tx.Commit(ctx)
//
// Repositories receiving txCtx route statements through the transaction;
// the same call without a transaction in the context uses the pool.
//
// # Health Checking
//
// Healthcheck returns a probe function for readiness endpoints:
//
//	router.Get("/health/ready", health.Readiness[*router.Context](
//		logger,
//		pg.Healthcheck(pool),
//	))
//
// # Error Handling
//
// Stable errors are checked with errors.Is; classification helpers cover
// the common driver error patterns:
//
//	if pg.IsNotFoundError(err) { ... }            // pgx.ErrNoRows
//	if pg.IsDuplicateKeyError(err) { ... }        // unique violation (23505)
//	if pg.IsForeignKeyViolationError(err) { ... } // referential integrity (23503)
//	if pg.IsTxClosedError(err) { ... }            // finished transaction reused
package pg
