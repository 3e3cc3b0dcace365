package ui

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const configFile = ".scanselector.json"

// defaultPresetSource is the conventional share the installer points the
// tool at; overridable through the config file.
const defaultPresetSource = `\\storage\Instal\printers\presets.ini`

func defaultConfig() *Config {
	return &Config{
		WindowWidth:  500.0,
		WindowHeight: 340.0,
		PresetSource: defaultPresetSource,
		AutoRefresh:  true,
		LogLevel:     "INFO",
	}
}

func LoadConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "resolving home dir")
	}
	return loadConfigFile(filepath.Join(home, configFile))
}

func loadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "opening config file")
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(cfg); err != nil {
		if err.Error() == "EOF" {
			return defaultConfig(), nil
		}
		return nil, errors.Wrap(err, "decoding config file")
	}
	return cfg, nil
}

func SaveConfig(config *Config) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return errors.Wrap(err, "resolving home dir")
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshalling config")
	}
	return errors.Wrap(os.WriteFile(filepath.Join(home, configFile), data, 0644), "writing config file")
}

func (ui *UI) saveState() {
	ui.cfg.WindowWidth = ui.fyneWindow.Canvas().Size().Width
	ui.cfg.WindowHeight = ui.fyneWindow.Canvas().Size().Height
	ui.cfg.AutoRefresh = ui.autoCheck.Checked

	if err := SaveConfig(ui.cfg); err != nil {
		log.Printf("Failed to save config: %v", err)
	}
}

// cachePath is where the last successful network fetch is mirrored so the
// tool keeps working offline.
func cachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "scanselector", "presets.cache.ini")
}
