package nix

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	"github.com/rios0rios0/nix-update-version/internal/domain/repositories"
)

const (
	DefaultPrefetchURLBin = "nix-prefetch-url"
	DefaultPrefetchGitBin = "nix-prefetch-git"
)

// FetcherRepository downloads sources with nix-prefetch-url and
// nix-prefetch-git.
type FetcherRepository struct {
	PrefetchURLBin string
	PrefetchGitBin string
	runner         runner
}

// NewFetcherRepository creates a fetcher using the prefetch tools from PATH.
func NewFetcherRepository(log logger.FieldLogger) repositories.FetcherRepository {
	return &FetcherRepository{
		PrefetchURLBin: DefaultPrefetchURLBin,
		PrefetchGitBin: DefaultPrefetchGitBin,
		runner:         runner{log: log},
	}
}

type prefetchGitOutput struct {
	SHA256 string `json:"sha256"`
	Hash   string `json:"hash"`
}

// FetchPlain prefetches the first URL of spec and returns its hash.
func (r *FetcherRepository) FetchPlain(
	ctx context.Context,
	env entities.NixEnv,
	spec entities.SourceFetchSpec,
) (string, error) {
	url := spec.PrimaryURL()
	if url == "" {
		return "", fmt.Errorf("%w: source has no url", entities.ErrFetch)
	}

	var args []string
	if spec.Unpack {
		args = append(args, "--unpack")
	}
	if spec.HashAlgorithm != "" {
		args = append(args, "--type", spec.HashAlgorithm)
	}
	args = append(args, url)

	out, err := r.runner.output(ctx, env, r.PrefetchURLBin, args...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", entities.ErrFetch, err)
	}

	hash := lastLine(out)
	if hash == "" {
		return "", fmt.Errorf("%w: %s printed no hash", entities.ErrFetch, r.PrefetchURLBin)
	}
	return hash, nil
}

// FetchVersionControlled prefetches a git checkout at spec.Revision.
func (r *FetcherRepository) FetchVersionControlled(
	ctx context.Context,
	env entities.NixEnv,
	spec entities.SourceFetchSpec,
) (string, error) {
	if spec.RepoURL == "" {
		return "", fmt.Errorf("%w: checkout has no repository url", entities.ErrFetch)
	}

	args := []string{spec.RepoURL, "--rev", spec.Revision}
	if spec.DeepClone {
		args = append(args, "--deepClone")
	}
	if spec.LeaveDotGit {
		args = append(args, "--leave-dotGit")
	}
	if spec.FetchSubmodules {
		args = append(args, "--fetch-submodules")
	}

	out, err := r.runner.output(ctx, env, r.PrefetchGitBin, args...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", entities.ErrFetch, err)
	}

	var result prefetchGitOutput
	if decodeErr := json.Unmarshal([]byte(out), &result); decodeErr != nil {
		return "", fmt.Errorf("%w: unexpected %s output: %w", entities.ErrFetch, r.PrefetchGitBin, decodeErr)
	}
	if result.SHA256 != "" {
		return result.SHA256, nil
	}
	if result.Hash != "" {
		return result.Hash, nil
	}
	return "", fmt.Errorf("%w: %s printed no hash", entities.ErrFetch, r.PrefetchGitBin)
}

func lastLine(out string) string {
	lines := strings.Split(out, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
