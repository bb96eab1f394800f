package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// loadEnvOnce guards the one-time .env autoload.
	loadEnvOnce sync.Once

	// cache holds loaded configurations keyed by their concrete type.
	cacheMu sync.RWMutex
	cache   = make(map[reflect.Type]any)
)

// Load populates cfg from environment variables using `env` struct tags.
// On first use it loads a .env file from the working directory if one
// exists (missing files are not an error). Each configuration type is
// parsed once per process; later calls for the same type return the
// cached value, so every component sees identical settings.
//
// cfg must be a non-nil pointer to a struct.
func Load(cfg any) error {
	rv := reflect.ValueOf(cfg)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("config: expected non-nil struct pointer, got %T", cfg)
	}
	elem := rv.Elem()
	if elem.Kind() != reflect.Struct {
		return fmt.Errorf("config: expected struct pointer, got %T", cfg)
	}

	loadEnvOnce.Do(func() {
		// Missing .env is the normal production case.
		_ = godotenv.Load()
	})

	typ := elem.Type()

	cacheMu.RLock()
	cached, ok := cache[typ]
	cacheMu.RUnlock()
	if ok {
		elem.Set(reflect.ValueOf(cached))
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: failed to parse %s: %w", typ, err)
	}

	cacheMu.Lock()
	cache[typ] = elem.Interface()
	cacheMu.Unlock()

	return nil
}

// MustLoad is Load that panics on failure. Intended for application startup
// where a missing required variable should stop the process immediately.
func MustLoad(cfg any) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
