package git

import (
	"context"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	"github.com/rios0rios0/nix-update-version/internal/domain/repositories"
)

const resolverName = "git"

// GitTagsRepository implements repositories.VersionResolverRepository by
// listing the tags a git remote advertises, without cloning it.
type GitTagsRepository struct {
	allowPrerelease bool
	log             logger.FieldLogger
}

// NewGitTagsRepository creates a git tag resolver.
func NewGitTagsRepository(
	settings *entities.Settings,
	log logger.FieldLogger,
) repositories.VersionResolverRepository {
	return &GitTagsRepository{
		allowPrerelease: settings.AllowPrerelease,
		log:             log,
	}
}

func (r *GitTagsRepository) Name() string { return resolverName }

// TryResolve lists the remote tags of git repository URLs.
func (r *GitTagsRepository) TryResolve(ctx context.Context, rawURL string) ([]entities.Version, bool) {
	if !IsGitURL(rawURL) {
		return nil, false
	}
	r.log.Debugf("[git] Listing remote refs of %s", rawURL)

	refs, err := listRemote(ctx, rawURL)
	if err != nil {
		r.log.Infof("[git] Failed to query versions via %s", rawURL)
		r.log.Errorf("[git] %v", err)
		return nil, false
	}

	versions := TagVersions(refs)
	if !r.allowPrerelease {
		versions = entities.StableVersions(versions)
	}
	return versions, true
}

// IsGitURL reports whether rawURL points at a git repository.
func IsGitURL(rawURL string) bool {
	trimmed := strings.TrimSuffix(rawURL, "/")
	if strings.HasPrefix(trimmed, "git://") {
		return true
	}
	if !strings.HasSuffix(trimmed, ".git") {
		return false
	}
	return strings.Contains(trimmed, "://") || strings.HasPrefix(trimmed, "git@")
}

// TagVersions keeps the tag references whose short name is a modern version.
func TagVersions(refs []*plumbing.Reference) []entities.Version {
	seen := make(map[string]bool)
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		if !ref.Name().IsTag() {
			continue
		}
		name := strings.TrimSuffix(ref.Name().Short(), "^{}")
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return entities.ParseVersions(names)
}

func listRemote(ctx context.Context, rawURL string) ([]*plumbing.Reference, error) {
	//nolint:exhaustruct // Minimal RemoteConfig initialization with required fields only
	remote := gogit.NewRemote(memory.NewStorage(), &gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{rawURL},
	})

	//nolint:exhaustruct // default list options
	refs, err := remote.ListContext(ctx, &gogit.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list remote %s: %w", rawURL, err)
	}
	return refs, nil
}
