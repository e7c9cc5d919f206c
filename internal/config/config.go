package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type TelemetryConfig struct {
	LogLevel       string `yaml:"log_level"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	OTLPInsecure   bool   `yaml:"otlp_insecure"`
	PrometheusBind string `yaml:"prometheus_bind"`
}

type HTTPConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type Config struct {
	AppName     string          `yaml:"app_name"`
	Environment string          `yaml:"environment"`
	HTTP        HTTPConfig      `yaml:"http"`
	Telemetry   TelemetryConfig `yaml:"telemetry"`
	Capture     CaptureConfig   `yaml:"capture"`
	STT         STTConfig       `yaml:"stt"`
	Translate   TranslateConfig `yaml:"translate"`
	TTS         TTSConfig       `yaml:"tts"`
}

type CaptureConfig struct {
	Mode          string `yaml:"mode"` // mic, upload
	Device        string `yaml:"device"`
	SampleRate    int    `yaml:"sample_rate"`
	Channels      int    `yaml:"channels"`
	TimeoutMS     int    `yaml:"timeout_ms"`
	Calibrate     bool   `yaml:"calibrate"`
	CalibrateMS   int    `yaml:"calibrate_ms"`
	SilenceHoldMS int    `yaml:"silence_hold_ms"`
}

type STTConfig struct {
	Mode      string `yaml:"mode"` // mock, exec, http
	Command   string `yaml:"command"`
	ModelPath string `yaml:"model_path"`
	Endpoint  string `yaml:"endpoint"`
	APIKey    string `yaml:"api_key"`
	Locale    string `yaml:"locale"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

type TranslateConfig struct {
	Mode      string `yaml:"mode"` // mock, http
	Endpoint  string `yaml:"endpoint"`
	APIKey    string `yaml:"api_key"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

type TTSConfig struct {
	Mode       string `yaml:"mode"`     // mock, exec, http
	Playback   string `yaml:"playback"` // local, delegated
	Command    string `yaml:"command"`
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"api_key"`
	Voice      string `yaml:"voice"`
	SampleRate int    `yaml:"sample_rate"`
	Channels   int    `yaml:"channels"`
	TimeoutMS  int    `yaml:"timeout_ms"`
}

func Default() Config {
	return Config{
		AppName:     "voxlate",
		Environment: "development",
		HTTP: HTTPConfig{
			Bind: "0.0.0.0",
			Port: 8080,
		},
		Telemetry: TelemetryConfig{
			LogLevel:       "info",
			OTLPEndpoint:   "",
			OTLPInsecure:   true,
			PrometheusBind: ":9091",
		},
		Capture: CaptureConfig{
			Mode:          "mic",
			Device:        "default",
			SampleRate:    16000,
			Channels:      1,
			TimeoutMS:     5000,
			Calibrate:     true,
			CalibrateMS:   300,
			SilenceHoldMS: 700,
		},
		STT: STTConfig{
			Mode:      "mock",
			Locale:    "en-IN",
			TimeoutMS: 15000,
		},
		Translate: TranslateConfig{
			Mode:      "mock",
			TimeoutMS: 10000,
		},
		TTS: TTSConfig{
			Mode:       "mock",
			Playback:   "local",
			SampleRate: 22050,
			Channels:   1,
			TimeoutMS:  20000,
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.AppName, "VOXLATE_APP_NAME")
	overrideString(&cfg.Environment, "VOXLATE_ENVIRONMENT")
	overrideString(&cfg.HTTP.Bind, "VOXLATE_HTTP_BIND")
	overrideInt(&cfg.HTTP.Port, "VOXLATE_HTTP_PORT")
	overrideString(&cfg.Telemetry.LogLevel, "VOXLATE_TELEMETRY_LOG_LEVEL")
	overrideString(&cfg.Telemetry.OTLPEndpoint, "VOXLATE_TELEMETRY_OTLP_ENDPOINT")
	overrideBool(&cfg.Telemetry.OTLPInsecure, "VOXLATE_TELEMETRY_OTLP_INSECURE")
	overrideString(&cfg.Telemetry.PrometheusBind, "VOXLATE_TELEMETRY_PROMETHEUS_BIND")
	overrideString(&cfg.Capture.Mode, "VOXLATE_CAPTURE_MODE")
	overrideString(&cfg.Capture.Device, "VOXLATE_CAPTURE_DEVICE")
	overrideInt(&cfg.Capture.SampleRate, "VOXLATE_CAPTURE_SAMPLE_RATE")
	overrideInt(&cfg.Capture.Channels, "VOXLATE_CAPTURE_CHANNELS")
	overrideInt(&cfg.Capture.TimeoutMS, "VOXLATE_CAPTURE_TIMEOUT_MS")
	overrideBool(&cfg.Capture.Calibrate, "VOXLATE_CAPTURE_CALIBRATE")
	overrideInt(&cfg.Capture.CalibrateMS, "VOXLATE_CAPTURE_CALIBRATE_MS")
	overrideInt(&cfg.Capture.SilenceHoldMS, "VOXLATE_CAPTURE_SILENCE_HOLD_MS")
	overrideString(&cfg.STT.Mode, "VOXLATE_STT_MODE")
	overrideString(&cfg.STT.Command, "VOXLATE_STT_COMMAND")
	overrideString(&cfg.STT.ModelPath, "VOXLATE_STT_MODEL_PATH")
	overrideString(&cfg.STT.Endpoint, "VOXLATE_STT_ENDPOINT")
	overrideString(&cfg.STT.APIKey, "VOXLATE_STT_API_KEY")
	overrideString(&cfg.STT.Locale, "VOXLATE_STT_LOCALE")
	overrideInt(&cfg.STT.TimeoutMS, "VOXLATE_STT_TIMEOUT_MS")
	overrideString(&cfg.Translate.Mode, "VOXLATE_TRANSLATE_MODE")
	overrideString(&cfg.Translate.Endpoint, "VOXLATE_TRANSLATE_ENDPOINT")
	overrideString(&cfg.Translate.APIKey, "VOXLATE_TRANSLATE_API_KEY")
	overrideInt(&cfg.Translate.TimeoutMS, "VOXLATE_TRANSLATE_TIMEOUT_MS")
	overrideString(&cfg.TTS.Mode, "VOXLATE_TTS_MODE")
	overrideString(&cfg.TTS.Playback, "VOXLATE_TTS_PLAYBACK")
	overrideString(&cfg.TTS.Command, "VOXLATE_TTS_COMMAND")
	overrideString(&cfg.TTS.Endpoint, "VOXLATE_TTS_ENDPOINT")
	overrideString(&cfg.TTS.APIKey, "VOXLATE_TTS_API_KEY")
	overrideString(&cfg.TTS.Voice, "VOXLATE_TTS_VOICE")
	overrideInt(&cfg.TTS.SampleRate, "VOXLATE_TTS_SAMPLE_RATE")
	overrideInt(&cfg.TTS.Channels, "VOXLATE_TTS_CHANNELS")
	overrideInt(&cfg.TTS.TimeoutMS, "VOXLATE_TTS_TIMEOUT_MS")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func validate(cfg Config) error {
	if cfg.AppName == "" {
		return errors.New("app_name must not be empty")
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return errors.New("http.port must be between 1 and 65535")
	}
	if cfg.Telemetry.PrometheusBind == "" {
		return errors.New("telemetry.prometheus_bind must not be empty")
	}
	switch cfg.Capture.Mode {
	case "mic", "upload":
	default:
		return errors.New("capture.mode must be one of mic|upload")
	}
	if cfg.Capture.SampleRate <= 0 {
		return errors.New("capture.sample_rate must be positive")
	}
	if cfg.Capture.Channels <= 0 {
		return errors.New("capture.channels must be positive")
	}
	if cfg.Capture.Mode == "mic" && cfg.Capture.TimeoutMS <= 0 {
		return errors.New("capture.timeout_ms must be positive when mode=mic")
	}
	switch cfg.STT.Mode {
	case "mock", "exec", "http":
	default:
		return errors.New("stt.mode must be one of mock|exec|http")
	}
	if cfg.STT.Mode == "exec" && cfg.STT.Command == "" {
		return errors.New("stt.command must be set when mode=exec")
	}
	if cfg.STT.Mode == "http" && cfg.STT.Endpoint == "" {
		return errors.New("stt.endpoint must be set when mode=http")
	}
	if cfg.STT.Locale == "" {
		return errors.New("stt.locale must not be empty")
	}
	switch cfg.Translate.Mode {
	case "mock", "http":
	default:
		return errors.New("translate.mode must be one of mock|http")
	}
	if cfg.Translate.Mode == "http" && cfg.Translate.Endpoint == "" {
		return errors.New("translate.endpoint must be set when mode=http")
	}
	switch cfg.TTS.Mode {
	case "mock", "exec", "http":
	default:
		return errors.New("tts.mode must be one of mock|exec|http")
	}
	if cfg.TTS.Mode == "exec" && cfg.TTS.Command == "" {
		return errors.New("tts.command must be set when mode=exec")
	}
	if cfg.TTS.Mode == "http" && cfg.TTS.Endpoint == "" {
		return errors.New("tts.endpoint must be set when mode=http")
	}
	switch cfg.TTS.Playback {
	case "local", "delegated":
	default:
		return errors.New("tts.playback must be one of local|delegated")
	}
	if cfg.TTS.SampleRate <= 0 {
		return errors.New("tts.sample_rate must be positive")
	}
	if cfg.TTS.Channels <= 0 {
		return errors.New("tts.channels must be positive")
	}
	return nil
}
