// Package config handles map generation configuration loading and management.
package config

// Config holds all generation settings.
type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	Paths      PathsConfig      `yaml:"paths"`
	Terrain    TerrainConfig    `yaml:"terrain"`
	Zones      ZonesConfig      `yaml:"zones"`
	Include    IncludeConfig    `yaml:"include"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GenerationConfig holds run-level settings.
type GenerationConfig struct {
	Seed      int64  `yaml:"seed"` // -1 picks a seed from the clock
	LevelName string `yaml:"level_name"`
}

// PathsConfig holds input and output locations.
type PathsConfig struct {
	Output      string `yaml:"output"`
	TemplateDir string `yaml:"template_dir"`
	TextureDir  string `yaml:"texture_dir"`
}

// TerrainConfig holds terrain shaping tunables.
type TerrainConfig struct {
	NoiseCutoff     float64 `yaml:"noise_cutoff"`      // noise below this is zeroed before island shaping
	WaterCutoff     float64 `yaml:"water_cutoff"`      // height separating land from water
	CoastRadiusFrac float64 `yaml:"coast_radius_frac"` // coast band width as a fraction of map width
}

// ZonesConfig holds zone placement settings. Counts of -1 are rolled
// randomly during the run.
type ZonesConfig struct {
	NumScrapZones    int `yaml:"num_scrap_zones"`
	NumExtraBases    int `yaml:"num_extra_bases"`
	SeparationMargin int `yaml:"separation_margin"`
}

// IncludeConfig forces specific construction unlocks into the level on
// top of the random draw.
type IncludeConfig struct {
	Vehicles     []string `yaml:"vehicles"`
	Soulcatchers []string `yaml:"soulcatchers"`
	Weapons      []string `yaml:"weapons"`
	Addons       []string `yaml:"addons"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Generation: GenerationConfig{
			Seed:      -1,
			LevelName: "HWAE_Level",
		},
		Paths: PathsConfig{
			Output:      ".",
			TemplateDir: "assets/templates",
			TextureDir:  "assets/textures",
		},
		Terrain: TerrainConfig{
			NoiseCutoff:     0.3,
			WaterCutoff:     0,
			CoastRadiusFrac: 0.1,
		},
		Zones: ZonesConfig{
			NumScrapZones:    -1,
			NumExtraBases:    -1,
			SeparationMargin: 10,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
