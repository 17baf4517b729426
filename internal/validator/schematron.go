package validator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultSchematronImage runs the Peppol and UBL.BE rulesets
const DefaultSchematronImage = "ghcr.io/rezonia/ubl-schematron:latest"

// SchematronEngine runs the business rules inside a container through the
// docker CLI. The report is read from stdout as SVRL.
type SchematronEngine struct {
	dockerPath string
	image      string
	timeout    time.Duration
	logger     *slog.Logger
}

// SchematronOption configures a SchematronEngine
type SchematronOption func(*SchematronEngine)

// WithDockerPath sets the docker binary, a name looked up in PATH or an absolute path
func WithDockerPath(path string) SchematronOption {
	return func(e *SchematronEngine) {
		e.dockerPath = path
	}
}

// WithTimeout bounds a single container run
func WithTimeout(d time.Duration) SchematronOption {
	return func(e *SchematronEngine) {
		e.timeout = d
	}
}

// WithEngineLogger sets the logger
func WithEngineLogger(logger *slog.Logger) SchematronOption {
	return func(e *SchematronEngine) {
		e.logger = logger
	}
}

// NewSchematronEngine creates an engine running the given image
func NewSchematronEngine(image string, opts ...SchematronOption) *SchematronEngine {
	if image == "" {
		image = DefaultSchematronImage
	}
	e := &SchematronEngine{
		dockerPath: "docker",
		image:      image,
		timeout:    2 * time.Minute,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the engine name
func (e *SchematronEngine) Name() string {
	return "schematron"
}

// IsAvailable returns whether the docker binary can be found
func (e *SchematronEngine) IsAvailable() bool {
	_, err := exec.LookPath(e.dockerPath)
	return err == nil
}

// RunRuleset mounts the directory holding path read-only and runs the ruleset
// over it. On cancellation the container is force-removed by name.
func (e *SchematronEngine) RunRuleset(ctx context.Context, path string, rs Ruleset) ([]byte, error) {
	docker, err := exec.LookPath(e.dockerPath)
	if err != nil {
		return nil, NewEngineUnavailableError(e.Name(), "docker binary not found", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	name := "ubl-schematron-" + uuid.NewString()
	args := []string{
		"run", "--rm",
		"--name", name,
		"-v", filepath.Dir(path) + ":/data:ro",
		e.image,
		rs.Name(),
		"/data/" + filepath.Base(path),
	}

	e.logger.Debug("running schematron", "container", name, "ruleset", rs.Name())

	cmd := exec.CommandContext(ctx, docker, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	err = cmd.Run()

	if ctx.Err() != nil {
		e.forceRemove(docker, name)
		return nil, NewEngineError(e.Name(), "run interrupted", ctx.Err())
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, NewEngineUnavailableError(e.Name(), "failed to start docker", err)
		}

		if daemonFailure(exitErr.ExitCode(), stderr.String()) {
			return nil, NewEngineUnavailableError(e.Name(),
				fmt.Sprintf("docker exited with code %d: %s", exitErr.ExitCode(), strings.TrimSpace(stderr.String())), err)
		}

		// validators commonly exit non-zero when assertions fail
		if !hasSVRL(stdout.Bytes()) {
			engineErr := NewEngineError(e.Name(), fmt.Sprintf("exited with code %d without report", exitErr.ExitCode()), err)
			engineErr.Stderr = strings.TrimSpace(stderr.String())
			return nil, engineErr
		}
	}

	if !hasSVRL(stdout.Bytes()) {
		engineErr := NewEngineError(e.Name(), "no SVRL report on stdout", nil)
		engineErr.Stderr = strings.TrimSpace(stderr.String())
		return nil, engineErr
	}

	return stdout.Bytes(), nil
}

// ParseOutput parses the SVRL report
func (e *SchematronEngine) ParseOutput(out []byte) (*Result, error) {
	result, err := ParseSVRL(out)
	if err != nil {
		return nil, NewEngineError(e.Name(), "malformed report", err)
	}
	return result, nil
}

// forceRemove removes a container left behind by an interrupted run
func (e *SchematronEngine) forceRemove(docker, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if out, err := exec.CommandContext(ctx, docker, "rm", "-f", name).CombinedOutput(); err != nil {
		e.logger.Warn("failed to remove container", "container", name, "error", err, "output", string(out))
	}
}

// daemonFailure reports docker's own failures, as opposed to the validator's:
// 125 daemon error, 126 command not executable, 127 command not found.
func daemonFailure(code int, stderr string) bool {
	switch code {
	case 125, 126, 127:
		return true
	}
	return strings.Contains(stderr, "Cannot connect to the Docker daemon")
}

func hasSVRL(out []byte) bool {
	return bytes.Contains(out, []byte("schematron-output"))
}
