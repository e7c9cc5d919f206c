package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voxlate/voxlate/internal/api"
	"github.com/voxlate/voxlate/internal/capture"
	"github.com/voxlate/voxlate/internal/config"
	"github.com/voxlate/voxlate/internal/playback"
	"github.com/voxlate/voxlate/internal/runtime"
	"github.com/voxlate/voxlate/internal/session"
	"github.com/voxlate/voxlate/internal/stt"
	"github.com/voxlate/voxlate/internal/translate"
	"github.com/voxlate/voxlate/internal/tts"
)

var version = "0.1.0-dev"

func main() {
	var (
		configPath  string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "voxlate.yaml", "Path to configuration file")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	pipeline, uploads, delegated, err := buildPipeline(cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}
	pipeline.Reset()

	handler := api.NewHandler(pipeline, uploads, delegated, logger)
	rt := runtime.New(cfg, handler, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rt.Start(ctx); err != nil {
		logger.Error("runtime exited with error", slog.String("error", err.Error()))
		time.Sleep(1 * time.Second)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

// buildPipeline assembles the capture, recognition, translation, synthesis,
// and playback strategies selected by the configuration.
func buildPipeline(cfg config.Config, logger *slog.Logger) (*session.Pipeline, *capture.UploadSource, *playback.DelegatedPlayer, error) {
	var (
		source    capture.Source
		uploads   *capture.UploadSource
		delegated *playback.DelegatedPlayer
		player    playback.Player
	)

	switch cfg.Capture.Mode {
	case "upload":
		uploads = capture.NewUploadSource()
		source = uploads
	default:
		source = capture.NewMicSource(cfg.Capture, logger)
	}

	transcriber, err := buildTranscriber(cfg.STT)
	if err != nil {
		return nil, nil, nil, err
	}

	var translator translate.Translator
	switch cfg.Translate.Mode {
	case "http":
		translator = translate.NewHTTPTranslator(cfg.Translate)
	default:
		translator = translate.NewMockTranslator(nil, nil)
	}

	synth, err := buildSynthesizer(cfg.TTS)
	if err != nil {
		return nil, nil, nil, err
	}

	switch cfg.TTS.Playback {
	case "delegated":
		delegated = playback.NewDelegatedPlayer()
		player = delegated
	default:
		player = playback.NewPulsePlayer(logger)
	}

	pipeline := session.NewPipeline(source, transcriber, translator, synth, player, cfg.STT.Locale, logger)
	return pipeline, uploads, delegated, nil
}

func buildTranscriber(cfg config.STTConfig) (stt.Transcriber, error) {
	switch cfg.Mode {
	case "exec":
		return stt.NewExecTranscriber(cfg)
	case "http":
		return stt.NewHTTPTranscriber(cfg), nil
	default:
		return stt.NewMockTranscriber("", nil), nil
	}
}

func buildSynthesizer(cfg config.TTSConfig) (tts.Synthesizer, error) {
	switch cfg.Mode {
	case "exec":
		return tts.NewExecSynth(cfg)
	case "http":
		return tts.NewHTTPSynth(cfg), nil
	default:
		return tts.NewMockSynth(cfg.SampleRate, cfg.Channels, nil), nil
	}
}
