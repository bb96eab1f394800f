// Package config provides type-safe environment variable loading with
// per-type caching. It parses `env` struct tags via caarlos0/env and
// autoloads a .env file (godotenv) on first use.
//
// Every tunable in the toolkit (token lifetime, accepted delivery
// surfaces, session TTL, cookie secrets, store connection strings) is an
// explicit env-tagged Config struct loaded through this package, never a
// process-wide mutable toggle.
//
//	type AppConfig struct {
//		Server  server.Config
//		Session session.Config
//		Cookie  cookie.Config
//		CSRF    csrf.Config
//		Redis   redis.Config
//	}
//
//	var cfg AppConfig
//	config.MustLoad(&cfg)
//
// Each configuration type is loaded once per process and cached, so
// separately constructed components observe identical settings:
//
//	var a, b session.Config
//	config.MustLoad(&a)
//	config.MustLoad(&b) // cached, a == b
package config
