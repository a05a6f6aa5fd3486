// Package config loads spyglass configuration from defaults, an optional
// project-level spyglass.toml, and environment variables (highest wins).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// projectConfigFile is the optional per-project config file, resolved
// relative to the project root.
const projectConfigFile = "spyglass.toml"

// Config holds all configuration for spyglass
type Config struct {
	Server  ServerConfig
	Node    NodeConfig
	Project ProjectConfig
	Logging LoggingConfig
	Metrics MetricsConfig
	Links   LinksConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port          int
	Host          string
	ReadTimeout   int // seconds
	WriteTimeout  int // seconds
	IdleTimeout   int // seconds
	MaxBodySizeMB int // request body cap on the RPC proxy path
}

// NodeConfig holds the upstream development node settings
type NodeConfig struct {
	RPCURL  string
	ChainID uint64 // 0 means auto-detect from the node
}

// ProjectConfig holds the host project's directory layout. All directories
// except Root are resolved relative to Root unless absolute.
type ProjectConfig struct {
	Root           string
	ArtifactsDir   string // compiled artifacts
	DeploymentsDir string // structured deployment records
	ContractsDir   string // contract sources, for enrichment
	WebappDir      string // explorer bundle override; empty = embedded
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string
	Format string // "text" or "json"
}

// MetricsConfig holds Prometheus settings
type MetricsConfig struct {
	Enabled bool
}

// LinksConfig holds console hyperlink settings
type LinksConfig struct {
	Enabled bool
}

// fileConfig mirrors the spyglass.toml layout. Only fields present in the
// file override the defaults; the environment overrides both.
type fileConfig struct {
	Port           *int    `toml:"port"`
	Host           *string `toml:"host"`
	NodeRPCURL     *string `toml:"node_rpc_url"`
	ChainID        *uint64 `toml:"chain_id"`
	ArtifactsDir   *string `toml:"artifacts_dir"`
	DeploymentsDir *string `toml:"deployments_dir"`
	ContractsDir   *string `toml:"contracts_dir"`
	WebappDir      *string `toml:"webapp_dir"`
	LogLevel       *string `toml:"log_level"`
	LogFormat      *string `toml:"log_format"`
	MetricsEnabled *bool   `toml:"metrics_enabled"`
	LinksEnabled   *bool   `toml:"links_enabled"`
}

// Load loads configuration from defaults, spyglass.toml, and environment
// variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:          9545,
			Host:          "127.0.0.1",
			ReadTimeout:   30,
			WriteTimeout:  60,
			IdleTimeout:   120,
			MaxBodySizeMB: 10,
		},
		Node: NodeConfig{
			RPCURL:  "http://127.0.0.1:8545",
			ChainID: 0,
		},
		Project: ProjectConfig{
			Root:           ".",
			ArtifactsDir:   "artifacts",
			DeploymentsDir: "deployments",
			ContractsDir:   "contracts",
			WebappDir:      "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Links: LinksConfig{
			Enabled: true,
		},
	}

	// The project root must come from the environment before the config
	// file can be found.
	cfg.Project.Root = getEnv("PROJECT_ROOT", cfg.Project.Root)

	if err := applyFile(cfg, filepath.Join(cfg.Project.Root, projectConfigFile)); err != nil {
		return nil, err
	}
	applyEnv(cfg)

	// Project subdirectories resolve under the root unless absolute.
	cfg.Project.ArtifactsDir = resolveDir(cfg.Project.Root, cfg.Project.ArtifactsDir)
	cfg.Project.DeploymentsDir = resolveDir(cfg.Project.Root, cfg.Project.DeploymentsDir)
	cfg.Project.ContractsDir = resolveDir(cfg.Project.Root, cfg.Project.ContractsDir)
	if cfg.Project.WebappDir != "" {
		cfg.Project.WebappDir = resolveDir(cfg.Project.Root, cfg.Project.WebappDir)
	}

	return cfg, nil
}

// BaseURL returns the address the explorer is reachable at.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Server.Host, c.Server.Port)
}

// applyFile overlays values from a spyglass.toml onto cfg. A missing file is
// not an error; a malformed one is, since the user wrote it deliberately.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	setIf(&cfg.Server.Port, fc.Port)
	setIf(&cfg.Server.Host, fc.Host)
	setIf(&cfg.Node.RPCURL, fc.NodeRPCURL)
	setIf(&cfg.Node.ChainID, fc.ChainID)
	setIf(&cfg.Project.ArtifactsDir, fc.ArtifactsDir)
	setIf(&cfg.Project.DeploymentsDir, fc.DeploymentsDir)
	setIf(&cfg.Project.ContractsDir, fc.ContractsDir)
	setIf(&cfg.Project.WebappDir, fc.WebappDir)
	setIf(&cfg.Logging.Level, fc.LogLevel)
	setIf(&cfg.Logging.Format, fc.LogFormat)
	setIf(&cfg.Metrics.Enabled, fc.MetricsEnabled)
	setIf(&cfg.Links.Enabled, fc.LinksEnabled)

	return nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnvInt("PORT", cfg.Server.Port)
	cfg.Server.Host = getEnv("HOST", cfg.Server.Host)
	cfg.Server.ReadTimeout = getEnvInt("SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getEnvInt("SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = getEnvInt("SERVER_IDLE_TIMEOUT", cfg.Server.IdleTimeout)
	cfg.Server.MaxBodySizeMB = getEnvInt("MAX_BODY_SIZE_MB", cfg.Server.MaxBodySizeMB)
	cfg.Node.RPCURL = getEnv("NODE_RPC_URL", cfg.Node.RPCURL)
	cfg.Node.ChainID = getEnvUint64("CHAIN_ID", cfg.Node.ChainID)
	cfg.Project.ArtifactsDir = getEnv("ARTIFACTS_DIR", cfg.Project.ArtifactsDir)
	cfg.Project.DeploymentsDir = getEnv("DEPLOYMENTS_DIR", cfg.Project.DeploymentsDir)
	cfg.Project.ContractsDir = getEnv("CONTRACTS_DIR", cfg.Project.ContractsDir)
	cfg.Project.WebappDir = getEnv("WEBAPP_DIR", cfg.Project.WebappDir)
	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOG_FORMAT", cfg.Logging.Format)
	cfg.Metrics.Enabled = getEnvBool("METRICS_ENABLED", cfg.Metrics.Enabled)
	cfg.Links.Enabled = getEnvBool("LINKS_ENABLED", cfg.Links.Enabled)
}

func resolveDir(root, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseUint(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}
