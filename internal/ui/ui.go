package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"scanselector/internal/driverconfig"
	"scanselector/internal/netshare"
	"scanselector/internal/pinger"
	"scanselector/internal/preset"
)

const refreshInterval = 30 * time.Second

func SetupWindow(ctx context.Context, fyneWindow fyne.Window, cfg *Config, log *slog.Logger) {
	driver, err := driverconfig.Resolve(cfg.DriverFile)
	if err != nil {
		dialog.ShowError(err, fyneWindow)
		fyneWindow.Close()
		return
	}

	src, err := netshare.ParseSource(cfg.PresetSource)
	if err != nil {
		dialog.ShowError(err, fyneWindow)
		fyneWindow.Close()
		return
	}

	store := preset.NewStore(src, cachePath(), log)
	store.SetAutoRefresh(cfg.AutoRefresh)

	ui := &UI{
		fyneWindow:   fyneWindow,
		cfg:          cfg,
		log:          log,
		store:        store,
		driver:       driver,
		ipEntry:      widget.NewEntry(),
		presetSelect: widget.NewSelect(nil, nil),
		statusLabel:  widget.NewLabel("Loading presets..."),
	}

	if ip, err := driver.CurrentIP(); err == nil {
		ui.ipEntry.SetText(ip)
	} else {
		log.Warn("reading current scanner address failed", "error", err)
	}
	ui.ipEntry.SetPlaceHolder("scanner IP address")

	ui.presetSelect.PlaceHolder = "lineup of available presets"

	ui.autoCheck = widget.NewCheck("Refresh presets every 30 seconds", func(on bool) {
		ui.store.SetAutoRefresh(on)
	})
	ui.autoCheck.SetChecked(cfg.AutoRefresh)

	saveButton := widget.NewButton("Save", ui.saveIP)
	applyButton := widget.NewButton("Apply preset", ui.applyPreset)
	testButton := widget.NewButton("Test", ui.testIP)

	content := container.NewVBox(
		widget.NewLabel("INI file: "+driver.Path),
		container.NewBorder(nil, nil, widget.NewLabel("Current IP"), container.NewHBox(saveButton, testButton), ui.ipEntry),
		widget.NewLabel("Presets (network / cache): "+src.Location()),
		container.NewBorder(nil, nil, nil, applyButton, ui.presetSelect),
		ui.statusLabel,
		ui.autoCheck,
	)

	fyneWindow.Resize(fyne.NewSize(cfg.WindowWidth, cfg.WindowHeight))
	fyneWindow.CenterOnScreen()
	fyneWindow.SetContent(content)

	store.OnUpdate = func(set preset.Set, err error) {
		ui.applyUpdate(set, err)
	}

	go func() {
		set, err := store.Load(ctx)
		ui.applyUpdate(set, err)
	}()
	go store.Run(ctx, refreshInterval)

	fyneWindow.SetOnClosed(func() {
		ui.saveState()
	})
}

// applyUpdate repaints the preset list and status line after a refresh.
func (ui *UI) applyUpdate(set preset.Set, err error) {
	if err != nil {
		ui.log.Warn("loading presets failed", "error", err)
		if len(set.Presets) == 0 {
			ui.presetSelect.Options = nil
			ui.presetSelect.Refresh()
			ui.setStatus("No access to network or cache")
			return
		}
	}

	selected := ui.presetSelect.Selected
	ui.presetSelect.Options = set.Names()
	if _, ok := set.Lookup(selected); !ok {
		ui.presetSelect.Selected = ""
		if len(set.Presets) > 0 {
			ui.presetSelect.Selected = set.Presets[0].Name
		}
	}
	ui.presetSelect.Refresh()
	ui.setStatus(fmt.Sprintf("Loaded %d presets (%s)", len(set.Presets), set.Origin))
}

func (ui *UI) saveIP() {
	ip := strings.TrimSpace(ui.ipEntry.Text)
	if !driverconfig.ValidIP(ip) {
		ui.notifyError("Invalid IP address")
		ui.setStatus("Invalid IP address")
		return
	}
	if err := ui.driver.WriteIP(ip); err != nil {
		ui.log.Error("writing scanner address failed", "ip", ip, "error", err)
		ui.notifyError(fmt.Sprintf("Failed to save: %v", err))
		ui.setStatus("Save failed")
		return
	}
	ui.log.Info("scanner address updated", "ip", ip)
	ui.notifySuccess("Scanner address set to " + ip)
	ui.setStatus("Saved: " + ip)
}

func (ui *UI) applyPreset() {
	name := strings.TrimSpace(ui.presetSelect.Selected)
	set, ok := ui.store.Snapshot()
	if !ok || name == "" {
		ui.notifyError("Select a preset from the list")
		return
	}
	p, ok := set.Lookup(name)
	if !ok {
		ui.notifyError("Select a preset from the list")
		return
	}
	ui.ipEntry.SetText(p.IP)
	ui.saveIP()
}

func (ui *UI) testIP() {
	ip := strings.TrimSpace(ui.ipEntry.Text)
	if !driverconfig.ValidIP(ip) {
		ui.notifyError("Invalid IP address")
		return
	}
	ui.setStatus("Pinging " + ip + "...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		reachable, err := pinger.Probe(ctx, ip)
		switch {
		case err != nil:
			ui.log.Warn("ping failed", "ip", ip, "error", err)
			ui.setStatus("Ping failed: " + err.Error())
		case reachable:
			ui.setStatus("Scanner at " + ip + " is reachable")
		default:
			ui.setStatus("No reply from " + ip)
		}
	}()
}

func (ui *UI) setStatus(msg string) {
	ui.statusLabel.SetText(msg)
}
