// Package config provides configuration management for the reachability and
// parity-game-solving tools, grounded on
// junjiewwang-perf-analysis/pkg/config/config.go's viper-backed,
// mapstructure-tagged nested-struct style.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds every option named in spec.md §6's CLI surface.
type Config struct {
	Rewrite    RewriteConfig    `mapstructure:"rewrite"`
	DD         DDConfig         `mapstructure:"dd"`
	Exploration ExplorationConfig `mapstructure:"exploration"`
	PartialSolve PartialSolveConfig `mapstructure:"partial_solve"`
	Preprocess PreprocessConfig `mapstructure:"preprocess"`
	Explicit   ExplicitConfig   `mapstructure:"explicit"`
	Log        LogConfig        `mapstructure:"log"`
}

// RewriteConfig selects the rewrite strategy (spec.md §6, "rewrite-strategy
// selection"). The strategy's internals are out of scope (spec.md §1); this
// only threads the selector through to pkg/rewrite.
type RewriteConfig struct {
	Strategy string `mapstructure:"strategy"` // e.g. "jitty", "jittyc" (names only; behaviourally identical here)
}

// DDConfig mirrors spec.md §6's decision-diagram sizing knobs.
type DDConfig struct {
	MinTableSize  int `mapstructure:"min_table_size"`
	MaxTableSize  int `mapstructure:"max_table_size"`
	MinCacheSize  int `mapstructure:"min_cache_size"`
	MaxCacheSize  int `mapstructure:"max_cache_size"`
	MemoryLimitMB int `mapstructure:"memory_limit_mb"`
	LaceWorkers   int `mapstructure:"lace_workers"`
	LaceDQSize    int `mapstructure:"lace_dqsize"`
	LaceStackSize int `mapstructure:"lace_stacksize"`
}

// ExplorationConfig mirrors spec.md §6's exploration knobs (spec.md §4.3).
type ExplorationConfig struct {
	Cached        bool   `mapstructure:"cached"`
	GlobalCache   bool   `mapstructure:"global_cache"`
	Chaining      bool   `mapstructure:"chaining"`
	Saturation    bool   `mapstructure:"saturation"`
	Groups        string `mapstructure:"groups"` // "none", "used", "simple", or an explicit list "0;1 3 4;2 5"
	Reorder       string `mapstructure:"reorder"` // "none", "random", "user"
	UserOrder     []int  `mapstructure:"user_order"`
	NoDiscard     bool   `mapstructure:"no_discard"`
	NoDiscardRead bool   `mapstructure:"no_discard_read"`
	NoDiscardWrite bool  `mapstructure:"no_discard_write"`
	NoRelprod     bool   `mapstructure:"no_relprod"`
	MaxIterations int    `mapstructure:"max_iterations"` // 0 = unbounded
}

// PartialSolveConfig selects one of spec.md §4.5's seven partial-solve
// strategies (0 = none).
type PartialSolveConfig struct {
	Strategy int `mapstructure:"strategy"`
}

// PreprocessConfig mirrors spec.md §6's pre-processing flags (spec.md §4.2
// step 1).
type PreprocessConfig struct {
	OnePointRuleRewrite       bool   `mapstructure:"one_point_rule_rewrite"`
	ReplaceConstantsByVars    bool   `mapstructure:"replace_constants_by_variables"`
	ResolveNameClashes        bool   `mapstructure:"resolve_summand_variable_name_clashes"`
	Total                     bool   `mapstructure:"total"`
	SplitConditions           int    `mapstructure:"split_conditions"` // 0..3
	UnaryEncoding             bool   `mapstructure:"unary_encoding"`
	Granularity               string `mapstructure:"granularity"` // "pbes", "equation", "summand"
}

// ExplicitConfig mirrors spec.md §6's explicit-engine extras (spec.md §4.6).
type ExplicitConfig struct {
	SearchStrategy    string `mapstructure:"search_strategy"` // "breadth", "depth", "highway"
	TodoMax           int    `mapstructure:"todo_max"`
	ConfluenceAction  string `mapstructure:"confluence_action"`
	Workers           int    `mapstructure:"workers"`
	HighwayN          int    `mapstructure:"highway_n"` // reservoir size; 0 = unusable (spec.md §9)
}

// LogConfig controls pkg/logging's default logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from configPath (or the standard search path
// when empty), lets environment variables override it, and validates it.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("symparity")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/symparity")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// fall through on defaults
		} else if os.IsNotExist(err) {
			// fall through on defaults
		} else {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshalling: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadFromReader loads configuration from in-memory content, for tests.
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("config: reading config: %w", err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshalling: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("rewrite.strategy", "jitty")

	v.SetDefault("dd.min_table_size", 1<<16)
	v.SetDefault("dd.max_table_size", 1<<24)
	v.SetDefault("dd.min_cache_size", 1<<16)
	v.SetDefault("dd.max_cache_size", 1<<24)
	v.SetDefault("dd.lace_workers", 1)

	v.SetDefault("exploration.cached", true)
	v.SetDefault("exploration.groups", "none")
	v.SetDefault("exploration.reorder", "none")

	v.SetDefault("partial_solve.strategy", 0)

	v.SetDefault("preprocess.granularity", "pbes")

	v.SetDefault("explicit.search_strategy", "breadth")
	v.SetDefault("explicit.workers", 1)
	v.SetDefault("explicit.highway_n", 0)

	v.SetDefault("log.level", "info")
}

// Validate enforces the input-shape invariants that configuration alone can
// check (spec.md §7.1); data-dependent checks (bijective permutations,
// partition completeness) happen once the specification is loaded, in
// pkg/groups.
func (c *Config) Validate() error {
	if c.Preprocess.SplitConditions < 0 || c.Preprocess.SplitConditions > 3 {
		return fmt.Errorf("preprocess.split_conditions must be in 0..3, got %d", c.Preprocess.SplitConditions)
	}
	if c.PartialSolve.Strategy < 0 || c.PartialSolve.Strategy > 7 {
		return fmt.Errorf("partial_solve.strategy must be in 0..7, got %d", c.PartialSolve.Strategy)
	}
	switch c.Exploration.Groups {
	case "none", "used", "simple", "":
	default:
		// an explicit partition string such as "0;1 3 4;2 5" is also legal;
		// pkg/groups validates it once the parameter count is known.
	}
	switch c.Explicit.SearchStrategy {
	case "breadth", "depth", "highway":
	default:
		return fmt.Errorf("explicit.search_strategy must be breadth, depth, or highway, got %q", c.Explicit.SearchStrategy)
	}
	if c.Explicit.SearchStrategy == "highway" && c.Explicit.HighwayN <= 0 {
		return fmt.Errorf("explicit.highway_n must be set explicitly (>0) when search_strategy=highway; default 0 is unusable")
	}
	return nil
}
