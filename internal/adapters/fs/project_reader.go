package fs

import (
	"context"

	projectconfig "github.com/nellarium/tokenfarm/internal/config"
	"github.com/nellarium/tokenfarm/internal/domain/config"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

// ProjectReaderAdapter reads tokenfarm.yaml without expanding it
type ProjectReaderAdapter struct {
	projectRoot string
}

// NewProjectReaderAdapter creates a reader rooted at the project directory
func NewProjectReaderAdapter(cfg *config.RuntimeConfig) *ProjectReaderAdapter {
	return &ProjectReaderAdapter{projectRoot: cfg.ProjectRoot}
}

// ReadRaw returns the project file as written, env references included
func (r *ProjectReaderAdapter) ReadRaw(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return projectconfig.ReadRawProjectConfig(r.projectRoot)
}

var _ usecase.ProjectConfigReader = (*ProjectReaderAdapter)(nil)
