package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	logger "github.com/sirupsen/logrus"
	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	"github.com/rios0rios0/nix-update-version/internal/domain/repositories"
)

const (
	resolverName = "gitlab"
	perPage      = 100
)

var (
	// https://gitlab.com/<namespace>/<project>/-/archive/<ref>/<project>-<ref>.<zip|tar.*>
	archiveURLPattern = regexp.MustCompile(`//gitlab\.com/(.+?)/-/archive/[^/]+/[^/]+\.(zip|tar\..*)$`)
	// https://gitlab.com/<namespace>/<project>.git
	cloneURLPattern = regexp.MustCompile(`//gitlab\.com/(.+)\.git/?$`)
)

// GitLabTagsRepository implements repositories.VersionResolverRepository by
// listing the tags of a GitLab project.
type GitLabTagsRepository struct {
	client          *gl.Client
	allowPrerelease bool
	log             logger.FieldLogger
}

// NewGitLabTagsRepository creates a GitLab tag resolver from the settings.
func NewGitLabTagsRepository(
	settings *entities.Settings,
	log logger.FieldLogger,
) repositories.VersionResolverRepository {
	options := []gl.ClientOptionFunc{
		gl.WithHTTPClient(&http.Client{Timeout: settings.Timeout()}),
		gl.WithoutRetries(),
	}
	if settings.GitLabAPIURL != "" {
		options = append(options, gl.WithBaseURL(settings.GitLabAPIURL))
	}

	client, err := gl.NewClient(settings.GitLabToken, options...)
	if err != nil {
		// a resolver without client never matches
		log.Warnf("[gitlab] Failed to create client: %v", err)
		client = nil
	}
	return &GitLabTagsRepository{
		client:          client,
		allowPrerelease: settings.AllowPrerelease,
		log:             log,
	}
}

func (r *GitLabTagsRepository) Name() string { return resolverName }

// TryResolve lists the project tags when url is a GitLab clone or archive URL.
func (r *GitLabTagsRepository) TryResolve(ctx context.Context, rawURL string) ([]entities.Version, bool) {
	project, ok := ParseProjectURL(rawURL)
	if !ok || r.client == nil {
		return nil, false
	}
	r.log.Debugf("[gitlab] Listing tags of %s", project)

	tags, err := r.listTags(ctx, project)
	if err != nil {
		r.log.Infof("[gitlab] Failed to query versions of %s via %s", project, rawURL)
		r.log.Errorf("[gitlab] %v", err)
		return nil, false
	}

	versions := entities.ParseVersions(tags)
	if !r.allowPrerelease {
		versions = entities.StableVersions(versions)
	}
	return versions, true
}

// ParseProjectURL extracts the full project path (namespaces included) from
// the URL shapes the resolver understands.
func ParseProjectURL(rawURL string) (string, bool) {
	if m := archiveURLPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], true
	}
	if m := cloneURLPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], true
	}
	return "", false
}

func (r *GitLabTagsRepository) listTags(ctx context.Context, project string) ([]string, error) {
	var allTags []string
	opts := &gl.ListTagsOptions{
		ListOptions: gl.ListOptions{PerPage: perPage},
	}

	for {
		tags, resp, err := r.client.Tags.ListTags(project, opts, gl.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list tags: %w", err)
		}

		for _, tag := range tags {
			allTags = append(allTags, tag.Name)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allTags, nil
}
