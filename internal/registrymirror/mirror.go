// Package registrymirror implements the optional distributed registry
// mirror behind registry.Mirror (§6a), grounded on itsneelabh-gomind's
// RedisRegistry (core/redis_registry.go): one Redis set per capability,
// SAdd on register, SRem on unregister, all under a namespaced key prefix.
// Unlike RedisRegistry, this mirror never itself influences dispatch and
// carries no TTL/heartbeat machinery — it exists purely so an external
// process can observe which agent names advertise which capabilities.
package registrymirror

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/nsalvacao/Autogen-Orchestrator/internal/domain"
)

// Mirror is a registry.Mirror backed by Redis sets keyed
// "<namespace>:capabilities:<capability>" -> set of agent names.
type Mirror struct {
	client    *redis.Client
	namespace string
	logger    *slog.Logger
}

// New parses redisURL, verifies connectivity, and returns a ready Mirror
// namespaced under "orchestrator".
func New(ctx context.Context, redisURL string, logger *slog.Logger) (*Mirror, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("registrymirror: invalid redis url: %w", err)
	}
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 5 * time.Second
	opt.WriteTimeout = 5 * time.Second

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("registrymirror: ping redis: %w", err)
	}

	return &Mirror{client: client, namespace: "orchestrator", logger: logger}, nil
}

// Close releases the Redis client.
func (m *Mirror) Close() error {
	return m.client.Close()
}

func (m *Mirror) capKey(cap domain.Capability) string {
	return fmt.Sprintf("%s:capabilities:%s", m.namespace, cap)
}

// Register implements registry.Mirror: adds name to every capability set it
// advertises. Errors are logged, not returned, matching the no-op-on-failure
// contract the caller (registry.Registry.Register) relies on.
func (m *Mirror) Register(name string, capabilities []domain.Capability) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pipe := m.client.TxPipeline()
	for _, cap := range capabilities {
		pipe.SAdd(ctx, m.capKey(cap), name)
	}
	if _, err := pipe.Exec(ctx); err != nil && m.logger != nil {
		m.logger.Warn("registrymirror: register failed", "agent", name, "error", err)
	}
}

// Unregister removes name from every capability set known to Redis. Since
// the mirror does not track which capabilities an agent held, it scans the
// namespace's capability keys rather than needing the caller to pass them
// again.
func (m *Mirror) Unregister(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	keys, err := m.client.Keys(ctx, fmt.Sprintf("%s:capabilities:*", m.namespace)).Result()
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("registrymirror: unregister scan failed", "agent", name, "error", err)
		}
		return
	}

	pipe := m.client.TxPipeline()
	for _, key := range keys {
		pipe.SRem(ctx, key, name)
	}
	if _, err := pipe.Exec(ctx); err != nil && m.logger != nil {
		m.logger.Warn("registrymirror: unregister failed", "agent", name, "error", err)
	}
}

// Members returns every agent name mirrored under a capability, for
// diagnostics/tests.
func (m *Mirror) Members(ctx context.Context, cap domain.Capability) ([]string, error) {
	names, err := m.client.SMembers(ctx, m.capKey(cap)).Result()
	if err != nil {
		return nil, fmt.Errorf("registrymirror: smembers: %w", err)
	}
	return names, nil
}
