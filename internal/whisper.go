package internal

import (
	"bufio"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

//go:embed whisper_worker.py
var whisperWorkerScript string

// lookPath and startWorker are replaced in tests
var (
	lookPath    = exec.LookPath
	startWorker = startWorkerProcess
)

// workerStopTimeout bounds how long Close waits for the worker to exit
const workerStopTimeout = 5 * time.Second

// LocalWhisper runs openai-whisper in a Python worker process. The worker
// loads the model once and then transcribes every file sent to it.
type LocalWhisper struct {
	runner  CommandRunner
	python  string
	model   string
	gpuID   int
	timeout time.Duration
	verbose bool
	ui      UIManager
}

// NewLocalWhisper creates the local engine from config
func NewLocalWhisper(runner CommandRunner, config *Config, ui UIManager) *LocalWhisper {
	return &LocalWhisper{
		runner:  runner,
		python:  config.WhisperPython,
		model:   config.WhisperModel,
		gpuID:   config.GPUID,
		timeout: config.WhisperTimeout,
		verbose: config.Verbose,
		ui:      ui,
	}
}

// Load picks the compute device, starts the worker and waits until the
// model is in memory
func (w *LocalWhisper) Load(ctx context.Context) (Model, error) {
	path, err := lookPath(w.python)
	if err != nil {
		return nil, fmt.Errorf("python interpreter %q not found: %w", w.python, err)
	}

	device := w.device(ctx)
	w.ui.Verbose("Loading whisper model %s on %s (%s)\n", w.model, device, path)

	m := &workerModel{engine: w, python: path, device: device}
	if err := m.start(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func (w *LocalWhisper) device(ctx context.Context) string {
	gpus, err := ListGPUs(ctx, w.runner)
	switch {
	case err != nil:
		w.ui.LogErrorf("Warning: no CUDA devices found (%v), using CPU", err)
	case !hasGPU(gpus, w.gpuID):
		w.ui.LogErrorf("Warning: GPU %d not found (%d available), using CPU", w.gpuID, len(gpus))
	default:
		return "cuda:" + strconv.Itoa(w.gpuID)
	}
	return "cpu"
}

func (w *LocalWhisper) stderr() io.Writer {
	if w.verbose {
		return os.Stderr
	}
	return io.Discard
}

// workerRequest and workerResponse are the line-delimited JSON protocol
// spoken with whisper_worker.py
type workerRequest struct {
	Audio    string `json:"audio"`
	Language string `json:"language,omitempty"`
}

type workerResponse struct {
	Ready bool   `json:"ready,omitempty"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// workerProcess is a running worker with its pipes
type workerProcess struct {
	stdin io.WriteCloser
	out   *bufio.Reader
	kill  func() error
	wait  func() error
}

func startWorkerProcess(name string, args []string, stderr io.Writer) (*workerProcess, error) {
	cmd := exec.Command(name, args...)
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &workerProcess{
		stdin: stdin,
		out:   bufio.NewReader(stdout),
		kill:  func() error { return cmd.Process.Kill() },
		wait:  cmd.Wait,
	}, nil
}

// workerModel is the loaded model: a worker process that answers one
// request at a time. Callers serialize access.
type workerModel struct {
	engine *LocalWhisper
	python string
	device string
	proc   *workerProcess
}

func (m *workerModel) start(ctx context.Context) error {
	args := []string{"-u", "-c", whisperWorkerScript, m.engine.model, m.device}
	proc, err := startWorker(m.python, args, m.engine.stderr())
	if err != nil {
		return fmt.Errorf("starting whisper worker: %w", err)
	}
	m.proc = proc

	resp, err := m.roundTrip(ctx, nil)
	if err != nil {
		return fmt.Errorf("loading whisper model %s: %w", m.engine.model, err)
	}
	if !resp.Ready {
		m.stop()
		return fmt.Errorf("loading whisper model %s: %s", m.engine.model, resp.Error)
	}
	return nil
}

// roundTrip sends req (nil only reads) and waits for one response line.
// A cancelled context kills the worker; the next Transcribe starts a new one.
func (m *workerModel) roundTrip(ctx context.Context, req *workerRequest) (*workerResponse, error) {
	type result struct {
		resp *workerResponse
		err  error
	}
	proc := m.proc
	done := make(chan result, 1)

	go func() {
		if req != nil {
			if err := json.NewEncoder(proc.stdin).Encode(req); err != nil {
				done <- result{err: fmt.Errorf("sending request to whisper worker: %w", err)}
				return
			}
		}
		line, err := proc.out.ReadBytes('\n')
		if err != nil {
			done <- result{err: fmt.Errorf("whisper worker exited: %w", err)}
			return
		}
		var resp workerResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			done <- result{err: fmt.Errorf("decoding whisper worker response: %w", err)}
			return
		}
		done <- result{resp: &resp}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			m.stop()
		}
		return r.resp, r.err
	case <-ctx.Done():
		m.stop()
		return nil, ctx.Err()
	}
}

func (m *workerModel) Transcribe(ctx context.Context, audioPath string, lang Language) (string, error) {
	if m.engine.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.engine.timeout)
		defer cancel()
	}

	if m.proc == nil {
		m.engine.ui.LogErrorf("Warning: whisper worker stopped, reloading model %s", m.engine.model)
		if err := m.start(ctx); err != nil {
			return "", err
		}
	}

	abs, err := filepath.Abs(audioPath)
	if err != nil {
		return "", fmt.Errorf("resolving audio path: %w", err)
	}

	req := &workerRequest{Audio: abs}
	if !lang.IsAuto() {
		req.Language = lang.Code
	}

	resp, err := m.roundTrip(ctx, req)
	if err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("whisper failed: %s", resp.Error)
	}
	return resp.Text, nil
}

// Close stops the worker, waiting briefly for it to exit on its own
func (m *workerModel) Close() error {
	if m.proc == nil {
		return nil
	}
	proc := m.proc
	m.proc = nil

	_ = proc.stdin.Close()
	exited := make(chan error, 1)
	go func() { exited <- proc.wait() }()

	select {
	case err := <-exited:
		return err
	case <-time.After(workerStopTimeout):
		_ = proc.kill()
		return errors.New("whisper worker did not exit, killed")
	}
}

func (m *workerModel) stop() {
	if m.proc == nil {
		return
	}
	_ = m.proc.stdin.Close()
	_ = m.proc.kill()
	_ = m.proc.wait()
	m.proc = nil
}
