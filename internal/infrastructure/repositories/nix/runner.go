package nix

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
)

// runner executes the external nix tools with an explicit environment.
type runner struct {
	log    logger.FieldLogger
	stderr io.Writer // nil captures stderr for error messages
}

// output runs name and returns its trimmed stdout.
func (r runner) output(ctx context.Context, env entities.NixEnv, name string, args ...string) (string, error) {
	r.log.Debugf("Running %s %s", name, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = env.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if r.stderr != nil {
		cmd.Stderr = io.MultiWriter(r.stderr, &stderr)
	} else {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w\n%s", name, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}
