package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	"github.com/rios0rios0/nix-update-version/internal/domain/repositories"
)

const (
	resolverName = "github"
	perPage      = 100
)

var (
	// https://github.com/<owner>/<repo>.git
	cloneURLPattern = regexp.MustCompile(`//github\.com/([^/]+)/(.+)\.git$`)
	// https://github.com/<owner>/<repo>/archive/<ref>.<zip|tar.*>
	archiveURLPattern = regexp.MustCompile(`//github\.com/([^/]+)/([^/]+)/archive/(.*)\.(zip|tar\..*)$`)
)

// GitHubTagsRepository implements repositories.VersionResolverRepository by
// listing the tags of a GitHub repository.
type GitHubTagsRepository struct {
	client          *gh.Client
	allowPrerelease bool
	log             logger.FieldLogger
}

// NewGitHubTagsRepository creates a GitHub tag resolver from the settings.
func NewGitHubTagsRepository(
	settings *entities.Settings,
	log logger.FieldLogger,
) repositories.VersionResolverRepository {
	client := gh.NewClient(&http.Client{Timeout: settings.Timeout()})
	if settings.GitHubToken != "" {
		client = client.WithAuthToken(settings.GitHubToken)
	}
	if settings.GitHubAPIURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(settings.GitHubAPIURL, "/") + "/")
		if err != nil {
			log.Warnf("[github] Ignoring invalid API url %q: %v", settings.GitHubAPIURL, err)
		} else {
			client.BaseURL = baseURL
		}
	}
	return &GitHubTagsRepository{
		client:          client,
		allowPrerelease: settings.AllowPrerelease,
		log:             log,
	}
}

func (r *GitHubTagsRepository) Name() string { return resolverName }

// TryResolve lists the repository tags when url is a GitHub clone or archive URL.
func (r *GitHubTagsRepository) TryResolve(ctx context.Context, rawURL string) ([]entities.Version, bool) {
	owner, repo, ok := ParseRepositoryURL(rawURL)
	if !ok {
		return nil, false
	}
	r.log.Debugf("[github] Listing tags of %s/%s", owner, repo)

	tags, err := r.listTags(ctx, owner, repo)
	if err != nil {
		r.log.Infof("[github] Failed to query versions of %s/%s via %s", owner, repo, rawURL)
		r.log.Errorf("[github] %v", err)
		return nil, false
	}

	// only modern tags, legacy ones are noise
	versions := entities.ParseVersions(tags)
	if !r.allowPrerelease {
		versions = entities.StableVersions(versions)
	}
	return versions, true
}

// ParseRepositoryURL extracts owner and repository name from the URL shapes
// the resolver understands.
func ParseRepositoryURL(rawURL string) (string, string, bool) {
	if m := cloneURLPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], m[2], true
	}
	if m := archiveURLPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], m[2], true
	}
	return "", "", false
}

func (r *GitHubTagsRepository) listTags(ctx context.Context, owner, repo string) ([]string, error) {
	var allTags []string
	opts := &gh.ListOptions{PerPage: perPage}

	for {
		tags, resp, err := r.client.Repositories.ListTags(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list tags: %w", err)
		}

		for _, tag := range tags {
			allTags = append(allTags, tag.GetName())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allTags, nil
}
