package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"myregistry/adapters/myredis"
	"myregistry/domain"
	"myregistry/service"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Env variable names.
const (
	envHTTPPort   = "SERVICE_PORT_HTTP"
	envGRPCPort   = "SERVICE_PORT_GRPC"
	envNodeID     = "NODE_ID"
	envConfigPath = "CONFIG_PATH"
	envRedisAddr  = "REDIS_ADDR"
	envPeers      = "PEERS"
)

// Defaults of the YAML settings.
const (
	defaultLease              = 90 * time.Second
	defaultMinLease           = time.Second
	defaultMaxLease           = time.Hour
	defaultThreshold          = 0.85
	defaultEvictionCap        = 0.15
	defaultStabilization      = time.Minute
	defaultSmoothing          = 0.25
	defaultQueueSize          = 10000
	defaultBatchSize          = 100
	defaultMaxAttempts        = 5
	defaultInitialBackoff     = 100 * time.Millisecond
	defaultMaxBackoff         = 5 * time.Second
	defaultReplicationRate    = 50
	defaultReplicationTimeout = 5 * time.Second
	defaultDeltaRetention     = 3 * time.Minute
	defaultBootstrapTimeout   = 10 * time.Second
	defaultRedisTimeout       = 2 * time.Second
)

// Config is the node configuration: ports and identity from the environment, peers and
// policy from the optional YAML file at CONFIG_PATH.
type Config struct {
	HTTPPort int
	GRPCPort int
	NodeID   string
	Peers    []domain.PeerNode
	// Redis.Addr is empty when the mirror is disabled.
	Redis            myredis.RedisConfig
	Registry         service.RegistryConfig
	SweepInterval    time.Duration
	Replication      service.ReplicationConfig
	BootstrapTimeout time.Duration
}

type yamlConfig struct {
	NodeID           string               `yaml:"node_id"`
	Peers            []yamlPeer           `yaml:"peers"`
	Lease            yamlLease            `yaml:"lease"`
	Eviction         yamlEviction         `yaml:"eviction"`
	SelfPreservation yamlSelfPreservation `yaml:"self_preservation"`
	Replication      yamlReplication      `yaml:"replication"`
	Delta            yamlDelta            `yaml:"delta"`
	Bootstrap        yamlBootstrap        `yaml:"bootstrap"`
}

type yamlPeer struct {
	ID      string `yaml:"id"`
	Address string `yaml:"address"`
}

type yamlLease struct {
	DefaultDurationMs int64 `yaml:"default_duration_ms"`
	MinDurationMs     int64 `yaml:"min_duration_ms"`
	MaxDurationMs     int64 `yaml:"max_duration_ms"`
}

type yamlEviction struct {
	SweepIntervalMs int64 `yaml:"sweep_interval_ms"`
}

// Pointers tell an explicit zero or false from an absent key.
type yamlSelfPreservation struct {
	Enabled               *bool    `yaml:"enabled"`
	Threshold             *float64 `yaml:"threshold"`
	EvictionCap           *float64 `yaml:"eviction_cap"`
	StabilizationWindowMs int64    `yaml:"stabilization_window_ms"`
	ExpectedRateSmoothing *float64 `yaml:"expected_rate_smoothing"`
}

type yamlReplication struct {
	QueueSize        int      `yaml:"queue_size"`
	BatchSize        int      `yaml:"batch_size"`
	MaxAttempts      int      `yaml:"max_attempts"`
	InitialBackoffMs int64    `yaml:"initial_backoff_ms"`
	MaxBackoffMs     int64    `yaml:"max_backoff_ms"`
	RatePerSecond    *float64 `yaml:"rate_per_second"`
	TimeoutMs        int64    `yaml:"timeout_ms"`
}

type yamlDelta struct {
	RetentionMs int64 `yaml:"retention_ms"`
}

type yamlBootstrap struct {
	TimeoutMs int64 `yaml:"timeout_ms"`
}

func loadYAMLConfig(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out yamlConfig
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoadConfig builds the node configuration. SERVICE_PORT_HTTP and SERVICE_PORT_GRPC are
// required; CONFIG_PATH, NODE_ID, REDIS_ADDR and PEERS are optional. NODE_ID overrides the
// YAML node_id, and a random UUID is used when neither is set. PEERS ("id=host:port,...")
// replaces the YAML peer list.
func LoadConfig() (*Config, error) {
	httpPort, err := portFromEnv(envHTTPPort)
	if err != nil {
		return nil, err
	}
	grpcPort, err := portFromEnv(envGRPCPort)
	if err != nil {
		return nil, err
	}

	raw := &yamlConfig{}
	if configPath := strings.TrimSpace(os.Getenv(envConfigPath)); configPath != "" {
		if !filepath.IsAbs(configPath) {
			abs, absErr := filepath.Abs(configPath)
			if absErr != nil {
				return nil, absErr
			}
			configPath = abs
		}
		raw, err = loadYAMLConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", configPath, err)
		}
	}

	nodeID := strings.TrimSpace(os.Getenv(envNodeID))
	if nodeID == "" {
		nodeID = strings.TrimSpace(raw.NodeID)
	}
	if nodeID == "" {
		nodeID = uuid.NewString()
	}

	peers := make([]domain.PeerNode, 0, len(raw.Peers))
	for _, p := range raw.Peers {
		peers = append(peers, domain.PeerNode{ID: strings.TrimSpace(p.ID), Address: strings.TrimSpace(p.Address)})
	}
	if env := strings.TrimSpace(os.Getenv(envPeers)); env != "" {
		peers, err = parsePeers(env)
		if err != nil {
			return nil, err
		}
	}
	if err := validatePeers(nodeID, peers); err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPPort: httpPort,
		GRPCPort: grpcPort,
		NodeID:   nodeID,
		Peers:    peers,
		Redis:    myredis.RedisConfig{Addr: strings.TrimSpace(os.Getenv(envRedisAddr))},
		Registry: service.RegistryConfig{
			NodeID:         nodeID,
			DefaultLease:   msOr(raw.Lease.DefaultDurationMs, defaultLease),
			MinLease:       msOr(raw.Lease.MinDurationMs, defaultMinLease),
			MaxLease:       msOr(raw.Lease.MaxDurationMs, defaultMaxLease),
			DeltaRetention: msOr(raw.Delta.RetentionMs, defaultDeltaRetention),
			SelfPreservation: service.SelfPreservationConfig{
				Enabled:               valueOr(raw.SelfPreservation.Enabled, true),
				Threshold:             valueOr(raw.SelfPreservation.Threshold, defaultThreshold),
				EvictionCap:           valueOr(raw.SelfPreservation.EvictionCap, defaultEvictionCap),
				StabilizationWindow:   msOr(raw.SelfPreservation.StabilizationWindowMs, defaultStabilization),
				ExpectedRateSmoothing: valueOr(raw.SelfPreservation.ExpectedRateSmoothing, defaultSmoothing),
			},
		},
		Replication: service.ReplicationConfig{
			QueueSize:      intOr(raw.Replication.QueueSize, defaultQueueSize),
			BatchSize:      intOr(raw.Replication.BatchSize, defaultBatchSize),
			MaxAttempts:    intOr(raw.Replication.MaxAttempts, defaultMaxAttempts),
			InitialBackoff: msOr(raw.Replication.InitialBackoffMs, defaultInitialBackoff),
			MaxBackoff:     msOr(raw.Replication.MaxBackoffMs, defaultMaxBackoff),
			RatePerSecond:  valueOr(raw.Replication.RatePerSecond, defaultReplicationRate),
			Timeout:        msOr(raw.Replication.TimeoutMs, defaultReplicationTimeout),
		},
		BootstrapTimeout: msOr(raw.Bootstrap.TimeoutMs, defaultBootstrapTimeout),
	}
	cfg.SweepInterval = msOr(raw.Eviction.SweepIntervalMs, cfg.Registry.DefaultLease/3)

	if err := validate(cfg, raw); err != nil {
		return nil, err
	}
	return cfg, nil
}

func portFromEnv(name string) (int, error) {
	s := strings.TrimSpace(os.Getenv(name))
	if s == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	port, err := strconv.Atoi(s)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("%s must be a valid port (1-65535), got %q", name, s)
	}
	return port, nil
}

// parsePeers parses "id=host:port,id2=host2:port2".
func parsePeers(s string) ([]domain.PeerNode, error) {
	var peers []domain.PeerNode
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		id, addr, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("%s: %q must be id=host:port", envPeers, item)
		}
		peers = append(peers, domain.PeerNode{ID: strings.TrimSpace(id), Address: strings.TrimSpace(addr)})
	}
	return peers, nil
}

func validatePeers(nodeID string, peers []domain.PeerNode) error {
	seen := make(map[string]struct{}, len(peers))
	for i, p := range peers {
		if p.ID == "" || p.Address == "" {
			return fmt.Errorf("peer %d: id and address are required", i)
		}
		if p.ID == nodeID {
			return fmt.Errorf("peer %q has this node's id", p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("peer %q is listed twice", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

func validate(cfg *Config, raw *yamlConfig) error {
	reg := cfg.Registry
	if reg.MinLease > reg.DefaultLease || reg.DefaultLease > reg.MaxLease {
		return fmt.Errorf("lease: need min_duration_ms <= default_duration_ms <= max_duration_ms, got %v/%v/%v", reg.MinLease, reg.DefaultLease, reg.MaxLease)
	}
	sp := reg.SelfPreservation
	if sp.Threshold <= 0 || sp.Threshold > 1 {
		return fmt.Errorf("self_preservation.threshold must be in (0,1], got %v", sp.Threshold)
	}
	if sp.EvictionCap < 0 || sp.EvictionCap > 1 {
		return fmt.Errorf("self_preservation.eviction_cap must be in [0,1], got %v", sp.EvictionCap)
	}
	if sp.ExpectedRateSmoothing <= 0 || sp.ExpectedRateSmoothing > 1 {
		return fmt.Errorf("self_preservation.expected_rate_smoothing must be in (0,1], got %v", sp.ExpectedRateSmoothing)
	}

	positive := map[string]int64{
		"lease.default_duration_ms":                 raw.Lease.DefaultDurationMs,
		"lease.min_duration_ms":                     raw.Lease.MinDurationMs,
		"lease.max_duration_ms":                     raw.Lease.MaxDurationMs,
		"eviction.sweep_interval_ms":                raw.Eviction.SweepIntervalMs,
		"self_preservation.stabilization_window_ms": raw.SelfPreservation.StabilizationWindowMs,
		"replication.queue_size":                    int64(raw.Replication.QueueSize),
		"replication.batch_size":                    int64(raw.Replication.BatchSize),
		"replication.max_attempts":                  int64(raw.Replication.MaxAttempts),
		"replication.initial_backoff_ms":            raw.Replication.InitialBackoffMs,
		"replication.max_backoff_ms":                raw.Replication.MaxBackoffMs,
		"replication.timeout_ms":                    raw.Replication.TimeoutMs,
		"delta.retention_ms":                        raw.Delta.RetentionMs,
		"bootstrap.timeout_ms":                      raw.Bootstrap.TimeoutMs,
	}
	for name, v := range positive {
		if v < 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}
	if cfg.Replication.InitialBackoff > cfg.Replication.MaxBackoff {
		return fmt.Errorf("replication: initial_backoff_ms must not exceed max_backoff_ms")
	}
	return nil
}

func msOr(ms int64, def time.Duration) time.Duration {
	if ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func intOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func valueOr[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}
