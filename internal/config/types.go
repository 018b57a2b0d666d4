package config

// Config is the resolved configuration for an opsinstall invocation.
// Values come from defaults, an optional YAML file and the environment,
// in increasing order of precedence. CLI flags override them afterwards.
type Config struct {
	// ProductDir is the root directory where products are cloned or extracted.
	ProductDir string `yaml:"product_dir"`
	// ModulesRoot is the root of the modulefile tree (<root>/<name>/<version>.<ext>).
	ModulesRoot string `yaml:"modules_root"`
	// DescriptorExt is the modulefile extension, without the dot.
	DescriptorExt string `yaml:"descriptor_ext"`
	// Observatory selects a site whose init script is sourced before every external command.
	Observatory string `yaml:"observatory"`
	// SiteInit maps an observatory name to the shell script sourced for it.
	SiteInit map[string]string `yaml:"site_init"`
	// EnvironmentPrefix is prepended to generated environment names.
	EnvironmentPrefix string `yaml:"environment_prefix"`
	// BasePython is the pyenv version new environments derive from. Empty means `pyenv global`.
	BasePython string `yaml:"base_python"`
	// StateFile is the path of the JSON install ledger.
	StateFile string `yaml:"state_file"`
}

// SiteInitScript returns the init script for the configured observatory, or "".
func (c Config) SiteInitScript() string {
	if c.Observatory == "" {
		return ""
	}
	return c.SiteInit[c.Observatory]
}
