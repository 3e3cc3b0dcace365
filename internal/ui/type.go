package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"scanselector/internal/driverconfig"
	"scanselector/internal/preset"
)

type UI struct {
	fyneWindow fyne.Window
	cfg        *Config
	log        *slog.Logger
	store      *preset.Store
	driver     *driverconfig.File

	ipEntry      *widget.Entry
	presetSelect *widget.Select
	statusLabel  *widget.Label
	autoCheck    *widget.Check
}

type Config struct {
	WindowWidth  float32 `json:"window_width"`
	WindowHeight float32 `json:"window_height"`
	PresetSource string  `json:"preset_source"`
	DriverFile   string  `json:"driver_file,omitempty"`
	AutoRefresh  bool    `json:"auto_refresh"`
	LogFile      string  `json:"log_file,omitempty"`
	LogLevel     string  `json:"log_level"`
}
