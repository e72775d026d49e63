package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/config"
)

// UpdateFrontEndResult lists what was written
type UpdateFrontEndResult struct {
	ChainInfoDir string
	ConfigFile   string
}

// UpdateFrontEnd publishes build output and the project configuration to the front end
type UpdateFrontEnd struct {
	cfg      *config.RuntimeConfig
	writer   FrontEndWriter
	project  ProjectConfigReader
	progress ProgressSink
	log      *slog.Logger
}

// NewUpdateFrontEnd creates a new UpdateFrontEnd use case
func NewUpdateFrontEnd(cfg *config.RuntimeConfig, writer FrontEndWriter, project ProjectConfigReader, progress ProgressSink, log *slog.Logger) *UpdateFrontEnd {
	if progress == nil {
		progress = NopProgress{}
	}
	return &UpdateFrontEnd{cfg: cfg, writer: writer, project: project, progress: progress, log: log}
}

// Run replaces <front_end>/chain-info with the build dir and writes the config as JSON
func (uc *UpdateFrontEnd) Run(ctx context.Context) (*UpdateFrontEndResult, error) {
	if _, err := os.Stat(uc.cfg.BuildDir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: build directory %s (deploy or compile first)", domain.ErrNotFound, uc.cfg.BuildDir)
		}
		return nil, err
	}

	result := &UpdateFrontEndResult{
		ChainInfoDir: filepath.Join(uc.cfg.FrontEndDir, "chain-info"),
		ConfigFile:   filepath.Join(uc.cfg.FrontEndDir, uc.cfg.FrontEndConfigFile),
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "copy_build",
		Message: fmt.Sprintf("Copying %s to %s", uc.cfg.BuildDir, result.ChainInfoDir),
		Spinner: true,
	})
	if err := uc.writer.ReplaceDir(ctx, uc.cfg.BuildDir, result.ChainInfoDir); err != nil {
		return nil, fmt.Errorf("failed to copy build output: %w", err)
	}

	raw, err := uc.project.ReadRaw(ctx)
	if err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "write_config",
		Message: fmt.Sprintf("Writing %s", result.ConfigFile),
		Spinner: true,
	})
	if err := uc.writer.WriteYAMLAsJSON(ctx, raw, result.ConfigFile); err != nil {
		return nil, fmt.Errorf("failed to write front-end config: %w", err)
	}

	uc.log.Info("front end updated",
		slog.String("chain_info", result.ChainInfoDir),
		slog.String("config", result.ConfigFile),
	)
	return result, nil
}
