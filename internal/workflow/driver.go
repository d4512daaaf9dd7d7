// Package workflow declares the nf_nf_core_isoseq workflow and drives its two
// steps: storage provisioning and the Nextflow runtime.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/me/nfisoseq/internal/execution"
	"github.com/me/nfisoseq/internal/logstore"
	"github.com/me/nfisoseq/internal/nextflow"
	"github.com/me/nfisoseq/internal/params"
	"github.com/me/nfisoseq/internal/provision"
	"github.com/me/nfisoseq/internal/workdir"
	"github.com/me/nfisoseq/pkg/model"
)

// DefaultPipelineID namespaces uploaded logs.
const DefaultPipelineID = "nf_nf_core_isoseq"

// DefaultTemplateDir is copied into the shared volume before each run.
const DefaultTemplateDir = "/root"

// Config is the runtime profile of the driver.
type Config struct {
	Nextflow    nextflow.Config
	TemplateDir string
	Exclude     []string
	LogBase     string
	PipelineID  string
}

// DefaultConfig returns the cluster profile.
func DefaultConfig() Config {
	return Config{
		Nextflow:    nextflow.DefaultConfig(),
		TemplateDir: DefaultTemplateDir,
		Exclude:     append([]string(nil), workdir.DefaultExclude...),
		LogBase:     "file:///tmp/nf-logs",
		PipelineID:  DefaultPipelineID,
	}
}

// Transition is reported to the observer on every state change.
type Transition struct {
	From model.ExecutionState
	To   model.ExecutionState
	At   time.Time
	Err  error // set when To is FAILED
}

// UploadOutcome records what the cleanup phase did with the log.
type UploadOutcome struct {
	Attempted bool
	Remote    string
	Skipped   *execution.LogUploadSkipped
	Err       error
}

// Driver runs one execution. It is not safe for concurrent use; build a new
// Driver per execution.
type Driver struct {
	cfg         Config
	provisioner provision.Provisioner
	runner      nextflow.Runner
	store       logstore.Store
	names       execution.NameResolver
	logger      *slog.Logger
	observer    func(Transition)

	state  model.ExecutionState
	upload *UploadOutcome
}

// Option configures optional Driver behaviour.
type Option func(*Driver)

// WithObserver registers a callback for state transitions.
func WithObserver(fn func(Transition)) Option {
	return func(d *Driver) {
		d.observer = fn
	}
}

// WithNameResolver overrides how the execution name is determined.
func WithNameResolver(r execution.NameResolver) Option {
	return func(d *Driver) {
		d.names = r
	}
}

// New creates a Driver. The execution name defaults to the one carried by
// the execution.Context.
func New(cfg Config, prov provision.Provisioner, runner nextflow.Runner, store logstore.Store, logger *slog.Logger, opts ...Option) *Driver {
	d := &Driver{
		cfg:         cfg,
		provisioner: prov,
		runner:      runner,
		store:       store,
		names:       execution.StaticNameResolver{},
		logger:      logger.With("component", "workflow", "workflow", DefaultPipelineID),
		state:       model.ExecutionStatePending,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the current execution state.
func (d *Driver) State() model.ExecutionState {
	return d.state
}

// LastUpload returns the outcome of the most recent cleanup phase, or nil if
// the runtime step never ran.
func (d *Driver) LastUpload() *UploadOutcome {
	return d.upload
}

// Run executes both steps strictly in order. The runtime step is never
// entered when provisioning fails.
func (d *Driver) Run(ctx context.Context, ec execution.Context, vals params.Values) error {
	vol, err := d.Initialize(ctx, ec)
	if err != nil {
		return err
	}
	return d.Runtime(ctx, ec, vol, vals)
}

// Initialize provisions the shared volume. A missing execution identity
// fails before any request is made.
func (d *Driver) Initialize(ctx context.Context, ec execution.Context) (model.Volume, error) {
	if err := d.transition(model.ExecutionStateProvisioning, nil); err != nil {
		return model.Volume{}, err
	}
	if err := ec.Validate(); err != nil {
		return model.Volume{}, d.fail(err)
	}
	vol, err := d.provisioner.Provision(ctx, ec)
	if err != nil {
		return model.Volume{}, d.fail(&execution.ExecutionError{Phase: execution.PhaseInitialize, Err: err})
	}
	return vol, nil
}

// Runtime materializes the working directory, runs Nextflow and, on every
// exit path, uploads the Nextflow log before returning the step's outcome.
func (d *Driver) Runtime(ctx context.Context, ec execution.Context, vol model.Volume, vals params.Values) error {
	defer func() {
		// The upload must still happen after the host cancels the run.
		outcome := d.uploadLog(context.WithoutCancel(ctx), ec)
		d.upload = &outcome
	}()

	stats, err := workdir.Copy(d.cfg.TemplateDir, d.cfg.Nextflow.SharedDir, d.cfg.Exclude)
	if err != nil {
		return d.fail(&execution.ExecutionError{Phase: execution.PhaseWorkDir, Err: err})
	}
	d.logger.Info("working directory ready",
		"template", d.cfg.TemplateDir,
		"dir", d.cfg.Nextflow.SharedDir,
		"files", stats.Files,
		"excluded", stats.Excluded,
	)
	if err := d.transition(model.ExecutionStateWorkDirReady, nil); err != nil {
		return err
	}

	if vals.Registry() == nil {
		return d.fail(&execution.ExecutionError{Phase: execution.PhaseBuildCommand, Err: errors.New("parameters not bound")})
	}
	inv := nextflow.Build(d.cfg.Nextflow, vals, vol)

	if err := d.transition(model.ExecutionStateRunning, nil); err != nil {
		return err
	}
	if err := d.runner.Run(ctx, inv); err != nil {
		return d.fail(&execution.ExecutionError{Phase: execution.PhaseExecute, Err: err})
	}
	return d.transition(model.ExecutionStateSucceeded, nil)
}

// uploadLog is the cleanup phase. It never fails the step.
func (d *Driver) uploadLog(ctx context.Context, ec execution.Context) UploadOutcome {
	logPath := nextflow.LogPath(d.cfg.Nextflow)
	if _, err := os.Stat(logPath); err != nil {
		skipped := &execution.LogUploadSkipped{Reason: "no " + nextflow.LogFileName + " in " + d.cfg.Nextflow.SharedDir}
		d.logger.Warn(skipped.Error())
		return UploadOutcome{Skipped: skipped}
	}

	name, ok := d.names.ExecutionName(ctx, ec)
	if !ok {
		skipped := &execution.LogUploadSkipped{Reason: "failed to get execution name"}
		d.logger.Warn(skipped.Error())
		return UploadOutcome{Skipped: skipped}
	}

	remote, err := logstore.RemotePath(d.cfg.LogBase, d.cfg.PipelineID, name)
	if err != nil {
		skipped := &execution.LogUploadSkipped{Reason: err.Error()}
		d.logger.Warn(skipped.Error())
		return UploadOutcome{Skipped: skipped}
	}
	d.logger.Info("uploading "+nextflow.LogFileName, "remote", remote)
	if err := d.store.Upload(ctx, logPath, remote); err != nil {
		d.logger.Error("log upload failed", "remote", remote, "error", err)
		return UploadOutcome{Attempted: true, Remote: remote, Err: err}
	}
	return UploadOutcome{Attempted: true, Remote: remote}
}

// fail moves to FAILED and returns cause unchanged.
func (d *Driver) fail(cause error) error {
	if err := d.transition(model.ExecutionStateFailed, cause); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

func (d *Driver) transition(to model.ExecutionState, cause error) error {
	from := d.state
	if !from.CanTransitionTo(to) {
		return &model.InvalidTransitionError{From: from, To: to}
	}
	d.state = to
	if cause != nil {
		d.logger.Error("execution failed", "from", from, "error", cause)
	} else {
		d.logger.Debug("state transition", "from", from, "to", to)
	}
	if d.observer != nil {
		d.observer(Transition{From: from, To: to, At: time.Now(), Err: cause})
	}
	return nil
}
