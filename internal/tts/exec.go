package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os/exec"
	"sync"

	"github.com/mattn/go-shellwords"

	"github.com/voxlate/voxlate/internal/catalog"
	"github.com/voxlate/voxlate/internal/config"
)

type execSynth struct {
	cmd []string
	cfg config.TTSConfig
	mu  sync.Mutex
}

type execRequest struct {
	Text       string `json:"text"`
	Language   string `json:"language"`
	Voice      string `json:"voice"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
	Slow       bool   `json:"slow"`
}

type execResponse struct {
	PCMBase64 string `json:"pcm_base64"`
	Error     string `json:"error"`
}

// NewExecSynth wraps a local synthesizer command that reads a JSON request on
// stdin and writes a JSON response with base64 PCM on stdout.
func NewExecSynth(cfg config.TTSConfig) (Synthesizer, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(cfg.Command)
	if err != nil {
		return nil, fmt.Errorf("parse tts command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("tts command empty")
	}
	return &execSynth{cmd: args, cfg: cfg}, nil
}

func (e *execSynth) Synthesize(ctx context.Context, text string, lang catalog.Code) (*Audio, error) {
	if err := checkText(text); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	payload, err := json.Marshal(execRequest{
		Text:       text,
		Language:   string(lang),
		Voice:      e.cfg.Voice,
		SampleRate: e.cfg.SampleRate,
		Channels:   e.cfg.Channels,
		Slow:       false,
	})
	if err != nil {
		return nil, &SynthesisError{Detail: "encode request", Cause: err}
	}

	command := exec.CommandContext(ctx, e.cmd[0], e.cmd[1:]...)
	command.Stdin = bytes.NewReader(payload)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return nil, &SynthesisError{Detail: fmt.Sprintf("tts command failed: %s", stderr.String()), Cause: err}
	}

	var resp execResponse
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, &SynthesisError{Detail: "decode response", Cause: err}
	}
	if resp.Error != "" {
		return nil, &SynthesisError{Detail: resp.Error}
	}
	pcm, err := base64.StdEncoding.DecodeString(resp.PCMBase64)
	if err != nil {
		return nil, &SynthesisError{Detail: "decode pcm payload", Cause: err}
	}
	return &Audio{
		PCM:        pcm,
		SampleRate: e.cfg.SampleRate,
		Channels:   e.cfg.Channels,
		Lang:       lang,
	}, nil
}
