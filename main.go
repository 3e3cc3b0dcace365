package main

import (
	"context"
	"log"

	"scanselector/internal/logger"
	"scanselector/internal/ui"

	"fyne.io/fyne/v2/app"
)

func main() {
	scanselector := app.New()
	fyneWindow := scanselector.NewWindow("Kyocera Scanner Presets")

	cfg, err := ui.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slogger, closeLog, err := logger.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ui.SetupWindow(ctx, fyneWindow, cfg, slogger)
	fyneWindow.ShowAndRun()
}
