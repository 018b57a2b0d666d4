package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is used for the default state directory.
	AppName = "opsinstall"

	defaultProductDir    = "/home/sdss5/software"
	defaultDescriptorExt = "lua"
	lcoInitScript        = "/home/sdss5/config/bash/00_lmod.sh"
)

// envBindings maps each config key to the environment variables consulted for it,
// in order of preference.
var envBindings = map[string][]string{
	"product_dir":        {"OPSINSTALL_PRODUCT_DIR"},
	"modules_root":       {"OPSINSTALL_MODULES_ROOT"},
	"descriptor_ext":     {"OPSINSTALL_DESCRIPTOR_EXT"},
	"observatory":        {"OBSERVATORY"},
	"environment_prefix": {"OPSINSTALL_ENV_PREFIX"},
	"base_python":        {"OPSINSTALL_BASE_PYTHON"},
	"state_file":         {"OPSINSTALL_STATE_FILE"},
}

// DefaultConfig returns the built-in configuration. The modules root defaults
// to the first entry of MODULEPATH.
func DefaultConfig() Config {
	return Config{
		ProductDir:    defaultProductDir,
		ModulesRoot:   firstPathEntry(os.Getenv("MODULEPATH")),
		DescriptorExt: defaultDescriptorExt,
		SiteInit:      map[string]string{"LCO": lcoInitScript},
		StateFile:     defaultStateFile(),
	}
}

// LoadConfig resolves the configuration. configFile may be empty, in which case
// only defaults and the environment are used.
func LoadConfig(configFile string) (Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("product_dir", defaults.ProductDir)
	v.SetDefault("modules_root", defaults.ModulesRoot)
	v.SetDefault("descriptor_ext", defaults.DescriptorExt)
	v.SetDefault("observatory", defaults.Observatory)
	v.SetDefault("site_init", defaults.SiteInit)
	v.SetDefault("environment_prefix", defaults.EnvironmentPrefix)
	v.SetDefault("base_python", defaults.BasePython)
	v.SetDefault("state_file", defaults.StateFile)

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return Config{}, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if configFile != "" {
		raw, err := os.ReadFile(configFile)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
		var fromFile map[string]any
		if err := yaml.Unmarshal(raw, &fromFile); err != nil {
			return Config{}, fmt.Errorf("failed to unmarshal config %s: %w", configFile, err)
		}
		if err := v.MergeConfigMap(fromFile); err != nil {
			return Config{}, fmt.Errorf("failed to merge config %s: %w", configFile, err)
		}
	}

	cfg := Config{
		ProductDir:        v.GetString("product_dir"),
		ModulesRoot:       firstPathEntry(v.GetString("modules_root")),
		DescriptorExt:     strings.TrimPrefix(v.GetString("descriptor_ext"), "."),
		Observatory:       v.GetString("observatory"),
		SiteInit:          v.GetStringMapString("site_init"),
		EnvironmentPrefix: v.GetString("environment_prefix"),
		BasePython:        v.GetString("base_python"),
		StateFile:         v.GetString("state_file"),
	}

	// viper lower-cases map keys; observatory names are matched case-insensitively.
	cfg.SiteInit = upperKeys(cfg.SiteInit)
	cfg.Observatory = strings.ToUpper(cfg.Observatory)

	return cfg, nil
}

// firstPathEntry returns the first non-empty entry of a colon-separated search path
// such as MODULEPATH.
func firstPathEntry(path string) string {
	for _, entry := range filepath.SplitList(path) {
		if entry != "" {
			return entry
		}
	}
	return ""
}

func upperKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToUpper(k)] = v
	}
	return out
}

func defaultStateFile() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), AppName, "state.json")
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, AppName, "state.json")
}
