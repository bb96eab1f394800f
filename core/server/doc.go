// Package server provides an HTTP server with graceful shutdown,
// production-ready timeouts, and functional options. It wraps the standard
// http.Server so applications embedding the CSRF toolkit get a reliable
// serving loop without re-implementing lifecycle plumbing.
//
// # Basic Usage
//
// Create and run a server with defaults:
//
//	func main() {
//		r := router.New[*router.Context]()
//		// register routes, attach the CSRF middleware...
//
//		if err := server.Run(context.Background(), ":8080", r); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// # Configuration
//
// Settings load from the environment and can be overridden with options:
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//
//	srv, err := server.NewFromConfig(cfg,
//		server.WithLogger(log),
//		server.WithShutdownTimeout(10*time.Second),
//	)
//
// # Graceful Shutdown
//
// Start blocks until its context is canceled; Stop drains in-flight
// requests. The Run method adapts both to errgroup:
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, r))
//	if err := g.Wait(); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// # TLS
//
// Setting SERVER_TLS_CERT_FILE and SERVER_TLS_KEY_FILE enables HTTPS on top
// of the hardened defaults from DefaultTLSConfig. WithTLS accepts a custom
// configuration built by NewTLSConfig:
//
//	srv := server.New(":8443",
//		server.WithTLS(server.NewTLSConfig(
//			server.WithTLSCertificate("cert.pem", "key.pem"),
//			server.WithTLSMinVersion(tls.VersionTLS13),
//		)),
//	)
package server
