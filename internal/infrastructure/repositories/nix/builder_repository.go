package nix

import (
	"context"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	"github.com/rios0rios0/nix-update-version/internal/domain/repositories"
)

const DefaultBuildBin = "nix-build"

// BuilderRepository builds an attribute of <nixpkgs> with nix-build.
type BuilderRepository struct {
	BuildBin string
	runner   runner
}

// NewBuilderRepository creates a builder that mirrors build logs to stderr.
func NewBuilderRepository(log logger.FieldLogger) repositories.BuilderRepository {
	return &BuilderRepository{
		BuildBin: DefaultBuildBin,
		runner:   runner{log: log, stderr: os.Stderr},
	}
}

func (r *BuilderRepository) Build(ctx context.Context, env entities.NixEnv, expr string) error {
	r.runner.log.Infof("Building '%s'", expr)

	out, err := r.runner.output(ctx, env, r.BuildBin, "-A", expr, "<nixpkgs>")
	if err != nil {
		return fmt.Errorf("%w: %w", entities.ErrBuild, err)
	}

	r.runner.log.Debugf("Build output: %s", out)
	return nil
}
