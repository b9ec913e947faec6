package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/caseguard/caseguard/internal/http"
	"github.com/caseguard/caseguard/internal/notification"
	"github.com/caseguard/caseguard/internal/ratelimit"
)

const (
	apiLimiterPrefix   = "caseguard:ratelimit:api:"
	loginLimiterPrefix = "caseguard:ratelimit:login:"
)

// RedisClient returns the Redis client shared by the session store and the limiters.
func (c *Container) RedisClient() (*redis.Client, error) {
	var err error
	c.redisClientInit.Do(func() {
		c.redisClient, err = c.initRedisClient()
		if err != nil {
			c.initErrors["redisClient"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["redisClient"]; exists {
		return nil, storedErr
	}
	return c.redisClient, nil
}

// Limiters returns the per-actor API limiter and the per-IP login limiter. A nil limiter
// means that limit is disabled.
func (c *Container) Limiters() (api ratelimit.Limiter, login ratelimit.Limiter, err error) {
	c.limitersInit.Do(func() {
		c.apiLimiter, c.loginLimiter, err = c.initLimiters()
		if err != nil {
			c.initErrors["limiters"] = err
		}
	})
	if err != nil {
		return nil, nil, err
	}
	if storedErr, exists := c.initErrors["limiters"]; exists {
		return nil, nil, storedErr
	}
	return c.apiLimiter, c.loginLimiter, nil
}

// Notifier returns the credential notifier selected by NOTIFIER.
func (c *Container) Notifier() (notification.Notifier, error) {
	var err error
	c.notifierInit.Do(func() {
		c.notifier, err = c.initNotifier()
		if err != nil {
			c.initErrors["notifier"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["notifier"]; exists {
		return nil, storedErr
	}
	return c.notifier, nil
}

// HTTPServer returns the API server.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

func (c *Container) initRedisClient() (*redis.Client, error) {
	opts, err := redis.ParseURL(c.config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// initLimiters builds the limiters on the session store backend so that several instances
// behind a load balancer share one budget per key.
func (c *Container) initLimiters() (ratelimit.Limiter, ratelimit.Limiter, error) {
	newLimiter := func(enabled bool, cfg ratelimit.Config, prefix string) (ratelimit.Limiter, error) {
		if !enabled {
			return nil, nil
		}
		if c.config.SessionStore == "redis" {
			client, err := c.RedisClient()
			if err != nil {
				return nil, fmt.Errorf("failed to get redis client for rate limiter: %w", err)
			}
			return ratelimit.NewRedisLimiter(client, cfg, prefix), nil
		}
		return ratelimit.NewMemoryLimiter(cfg), nil
	}

	api, err := newLimiter(c.config.RateLimitEnabled, ratelimit.Config{
		RequestsPerSec: c.config.RateLimitRequestsPerSec,
		Burst:          c.config.RateLimitBurst,
	}, apiLimiterPrefix)
	if err != nil {
		return nil, nil, err
	}

	login, err := newLimiter(c.config.RateLimitTokenEnabled, ratelimit.Config{
		RequestsPerSec: c.config.RateLimitTokenRequestsPerSec,
		Burst:          c.config.RateLimitTokenBurst,
	}, loginLimiterPrefix)
	if err != nil {
		return nil, nil, err
	}

	return api, login, nil
}

func (c *Container) initNotifier() (notification.Notifier, error) {
	switch c.config.Notifier {
	case "smtp":
		notifier, err := notification.NewSMTPNotifier(notification.SMTPConfig{
			Host:     c.config.SMTPHost,
			Port:     c.config.SMTPPort,
			Username: c.config.SMTPUsername,
			Password: c.config.SMTPPassword,
			From:     c.config.SMTPFrom,
			BaseURL:  c.config.PublicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create smtp notifier: %w", err)
		}
		return notifier, nil
	case "log", "":
		return notification.NewLogNotifier(c.Logger()), nil
	default:
		return nil, fmt.Errorf("unsupported notifier: %s", c.config.Notifier)
	}
}

// initHTTPServer creates the API server with every handler and middleware dependency.
func (c *Container) initHTTPServer() (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}
	vaultDB, err := c.VaultDB()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault database for http server: %w", err)
	}

	routes := http.Routes{TokenService: c.TokenService()}

	if routes.TokenHandler, err = c.TokenHandler(); err != nil {
		return nil, fmt.Errorf("failed to get token handler for http server: %w", err)
	}
	if routes.ActorHandler, err = c.ActorHandler(); err != nil {
		return nil, fmt.Errorf("failed to get actor handler for http server: %w", err)
	}
	if routes.AttributeHandler, err = c.AttributeHandler(); err != nil {
		return nil, fmt.Errorf("failed to get attribute handler for http server: %w", err)
	}
	if routes.PolicyHandler, err = c.PolicyHandler(); err != nil {
		return nil, fmt.Errorf("failed to get policy handler for http server: %w", err)
	}
	if routes.GrantHandler, err = c.GrantHandler(); err != nil {
		return nil, fmt.Errorf("failed to get grant handler for http server: %w", err)
	}
	if routes.EvaluateHandler, err = c.EvaluateHandler(); err != nil {
		return nil, fmt.Errorf("failed to get evaluate handler for http server: %w", err)
	}
	if routes.CaseHandler, err = c.CaseHandler(); err != nil {
		return nil, fmt.Errorf("failed to get case handler for http server: %w", err)
	}
	if routes.AssignmentHandler, err = c.AssignmentHandler(); err != nil {
		return nil, fmt.Errorf("failed to get assignment handler for http server: %w", err)
	}
	if routes.VaultHandler, err = c.VaultHandler(); err != nil {
		return nil, fmt.Errorf("failed to get vault handler for http server: %w", err)
	}
	if routes.CaseSessionHandler, err = c.CaseSessionHandler(); err != nil {
		return nil, fmt.Errorf("failed to get case session handler for http server: %w", err)
	}
	if routes.Authorizer, err = c.Evaluator(); err != nil {
		return nil, fmt.Errorf("failed to get evaluator for http server: %w", err)
	}
	if routes.TokenUseCase, err = c.TokenUseCase(); err != nil {
		return nil, fmt.Errorf("failed to get token use case for http server: %w", err)
	}
	if routes.APILimiter, routes.LoginLimiter, err = c.Limiters(); err != nil {
		return nil, fmt.Errorf("failed to get rate limiters for http server: %w", err)
	}
	if routes.MetricsProvider, err = c.MetricsProvider(); err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(db, vaultDB, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(c.config, routes)

	return server, nil
}

func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}
	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
