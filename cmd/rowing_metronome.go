package main

import (
	"io"
	"log"

	"github.com/rivo/tview"
	"github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lowaak/rowing-metronome/internal/config"
	"github.com/lowaak/rowing-metronome/internal/metronome"
)

func main() {
	configPath := pflag.String("config", "", "path to a YAML config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	must("load configuration", err)

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	}
	defer fileWriter.Close()

	// The same logger feeds the rotating file and the UI log pane.
	uiLogChan := make(chan string, 100)
	logger := log.New(
		io.MultiWriter(fileWriter, metronome.NewLogChannelWriter(uiLogChan)),
		"", log.LstdFlags)
	logger.Printf("Starting rowing metronome")

	paceModel := metronome.NewPaceModel(logger)
	uiModel := metronome.NewUIModel(logger, uiLogChan)
	scheduler := metronome.NewCycleScheduler(uiModel, cfg.CountdownDuration, cfg.HighlightDuration, logger)
	controller := metronome.NewUIController(uiModel, paceModel, scheduler, logger)

	app := tview.NewApplication()
	cursesView := metronome.NewCursesUIView(logger, app, uiModel, cfg.RefreshInterval)
	baseView := metronome.NewBaseUIView(metronome.NewBaseUIViewArg{
		UIViewImpl:   cursesView,
		UIModel:      uiModel,
		UIController: controller,
		Logger:       logger,
	})

	runErr := baseView.Run()

	baseView.Shutdown()
	controller.Shutdown()
	uiModel.Shutdown()
	logger.Printf("Rowing metronome stopped")

	must("run UI", runErr)
}

func must(action string, err error) {
	if err != nil {
		panic("failed to " + action + ": " + err.Error())
	}
}
