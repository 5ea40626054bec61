package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/querylens/topicforge/internal/domain"
)

// Config holds the topicforge API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Cache     CacheConfig     `yaml:"cache"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Labeling  LabelingConfig  `yaml:"labeling"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Auth      AuthConfig      `yaml:"auth"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CacheConfig holds the optional Redis/Valkey cache settings. An empty addrs
// list disables caching and budget persistence, the pipeline itself does not
// need the store.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	EmbeddingTTLHrs  int      `yaml:"embedding_ttl_hours"`
}

// Enabled reports whether a cache store is configured.
func (c *CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// EmbeddingConfig holds embedding settings.
type EmbeddingConfig struct {
	Default     string                      `yaml:"default"` // vectorizer name
	Providers   map[string]ProviderConfig   `yaml:"providers"`
	Vectorizers map[string]VectorizerConfig `yaml:"vectorizers"`
}

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// ProviderConfig holds embedding provider settings.
type ProviderConfig struct {
	APIKey  string       `yaml:"api_key"`
	BaseURL string       `yaml:"base_url"`
	Budget  BudgetConfig `yaml:"budget"`
}

// VectorizerConfig holds vectorizer settings.
type VectorizerConfig struct {
	Provider         string `yaml:"provider"`
	Model            string `yaml:"model"`
	Dimensions       int    `yaml:"dimensions"`
	QueryInstruction string `yaml:"query_instruction"`
}

// LabelingConfig holds topic labeling settings. Empty model disables the
// external labeler, topics then get extractive labels.
type LabelingConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

// Enabled reports whether external labeling is configured.
func (l *LabelingConfig) Enabled() bool { return l.Model != "" }

// PipelineConfig holds clustering and ranking knobs.
type PipelineConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	ClusterCap          int     `yaml:"cluster_cap"`
	CentroidAcceptance  float64 `yaml:"centroid_acceptance"`
	BrandFloor          float64 `yaml:"brand_floor"`
	TopQueriesPerTopic  int     `yaml:"top_queries_per_topic"`
	TopicScoreMembers   int     `yaml:"topic_score_members"`
	MaxTopics           int     `yaml:"max_topics"`
}

// Params converts the pipeline section into domain parameters with defaults
// applied.
func (p *PipelineConfig) Params() domain.Params {
	params := domain.Params{
		SimilarityThreshold: p.SimilarityThreshold,
		ClusterCap:          p.ClusterCap,
		CentroidAcceptance:  p.CentroidAcceptance,
		BrandFloor:          p.BrandFloor,
		TopQueriesPerTopic:  p.TopQueriesPerTopic,
		TopicScoreMembers:   p.TopicScoreMembers,
		MaxTopics:           p.MaxTopics,
	}
	params.ApplyDefaults()
	return params
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Cache.EmbeddingTTLHrs <= 0 {
		c.Cache.EmbeddingTTLHrs = 24 * 30
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "topicforge:"
	}
	vecDef := domain.DefaultVectorConfig()
	for name, v := range c.Embedding.Vectorizers {
		if v.Model == "" {
			v.Model = vecDef.Model
		}
		if v.Dimensions <= 0 {
			v.Dimensions = vecDef.Dimensions
		}
		c.Embedding.Vectorizers[name] = v
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Embedding.Default != "" {
		if _, ok := c.Embedding.Vectorizers[c.Embedding.Default]; !ok {
			return fmt.Errorf("embedding.default references unknown vectorizer %q", c.Embedding.Default)
		}
	}
	for name, v := range c.Embedding.Vectorizers {
		if _, ok := c.Embedding.Providers[v.Provider]; !ok {
			return fmt.Errorf("embedding.vectorizers.%s.provider references unknown provider %q", name, v.Provider)
		}
	}
	for name, p := range c.Embedding.Providers {
		switch p.Budget.Action {
		case "", "warn", "reject":
			// ok
		default:
			return fmt.Errorf(
				"embedding.providers.%s.budget.action must be \"warn\" or \"reject\", got %q",
				name, p.Budget.Action,
			)
		}
	}
	if c.Labeling.Enabled() {
		if _, ok := c.Embedding.Providers[c.Labeling.Provider]; !ok {
			return fmt.Errorf("labeling.provider references unknown provider %q", c.Labeling.Provider)
		}
	}
	params := c.Pipeline.Params()
	if err := params.Validate(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
