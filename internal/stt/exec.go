package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/mattn/go-shellwords"

	"github.com/voxlate/voxlate/internal/capture"
	"github.com/voxlate/voxlate/internal/config"
)

type execTranscriber struct {
	cmd []string
	cfg config.STTConfig
	mu  sync.Mutex
}

type execResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// NewExecTranscriber wraps a local recognizer command that accepts a WAV file
// and prints a JSON result on stdout.
func NewExecTranscriber(cfg config.STTConfig) (Transcriber, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(cfg.Command)
	if err != nil {
		return nil, fmt.Errorf("parse stt command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("stt command is empty")
	}
	return &execTranscriber{cmd: args, cfg: cfg}, nil
}

func (t *execTranscriber) Transcribe(ctx context.Context, clip *capture.Clip, locale string) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	wavData, err := capture.EncodeWAV(clip)
	if err != nil {
		return Result{Err: err}
	}

	file, err := os.CreateTemp(os.TempDir(), "voxlate_stt_*.wav")
	if err != nil {
		return Result{Err: fmt.Errorf("temp file: %w", err)}
	}
	defer os.Remove(file.Name())
	defer file.Close()

	if _, err := file.Write(wavData); err != nil {
		return Result{Err: fmt.Errorf("write temp wav: %w", err)}
	}

	cmdArgs := append([]string{}, t.cmd[1:]...)
	cmdArgs = append(cmdArgs, "--audio", file.Name())
	if t.cfg.ModelPath != "" {
		cmdArgs = append(cmdArgs, "--model", t.cfg.ModelPath)
	}
	if locale != "" {
		cmdArgs = append(cmdArgs, "--language", locale)
	}

	command := exec.CommandContext(ctx, t.cmd[0], cmdArgs...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return Result{Err: fmt.Errorf("stt command failed: %w: %s", err, stderr.String())}
	}

	var resp execResult
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return Result{Err: fmt.Errorf("decode stt response: %w", err)}
	}
	if strings.TrimSpace(resp.Text) == "" {
		return Result{Err: ErrUnintelligible}
	}
	return Result{Text: resp.Text, Confidence: resp.Confidence}
}
