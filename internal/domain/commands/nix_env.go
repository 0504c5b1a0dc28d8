package commands

import (
	"errors"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
)

const permissiveNixpkgsConfig = "pkgs: { allowUnfree = true; allowBroken = true; }"

// newNixEnv resolves NIX_PATH (flag, settings, then the environment) and,
// unless strict evaluation is requested, writes a temporary nixpkgs config
// allowing unfree and broken packages. The returned func removes it.
func newNixEnv(
	settings *entities.Settings,
	nixPath string,
	log logger.FieldLogger,
) (entities.NixEnv, func(), error) {
	env := entities.NixEnv{NixPath: nixPath}
	if env.NixPath == "" {
		env.NixPath = settings.NixPath
	}
	if env.NixPath == "" {
		env.NixPath = os.Getenv("NIX_PATH")
	}
	env.NixPath = entities.ExpandNixPath(env.NixPath)
	log.Debugf("NIX_PATH: %s", env.NixPath)

	if settings.StrictEvaluation {
		return env, func() {}, nil
	}

	path, err := writePermissiveConfig()
	if err != nil {
		return env, nil, fmt.Errorf("failed to write nixpkgs config: %w", err)
	}
	env.NixpkgsConfig = path
	return env, func() {
		if removeErr := os.Remove(path); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			log.Warnf("Failed to remove %s: %v", path, removeErr)
		}
	}, nil
}

func writePermissiveConfig() (string, error) {
	file, err := os.CreateTemp("", "update-version-*.nix")
	if err != nil {
		return "", err
	}
	if _, err = file.WriteString(permissiveNixpkgsConfig); err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())
		return "", err
	}
	if err = file.Close(); err != nil {
		_ = os.Remove(file.Name())
		return "", err
	}
	return file.Name(), nil
}
