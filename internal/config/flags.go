package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagSeed      = flag.Int64("seed", -1, "Generation seed (-1 for random)")
	flagOut       = flag.String("out", "", "Output directory")
	flagTemplates = flag.String("templates", "", "Template directory")
	flagTextures  = flag.String("textures", "", "Texture directory")
	flagLevelName = flag.String("level-name", "", "Name of the generated level")
	flagLogLevel  = flag.String("log-level", "", "Log level (debug, info, warn, error)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSeed != -1 {
		cfg.Generation.Seed = *flagSeed
	}
	if *flagOut != "" {
		cfg.Paths.Output = *flagOut
	}
	if *flagTemplates != "" {
		cfg.Paths.TemplateDir = *flagTemplates
	}
	if *flagTextures != "" {
		cfg.Paths.TextureDir = *flagTextures
	}
	if *flagLevelName != "" {
		cfg.Generation.LevelName = *flagLevelName
	}
	if *flagLogLevel != "" {
		cfg.Logging.Level = *flagLogLevel
	}
}
