package pypi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	"github.com/rios0rios0/nix-update-version/internal/domain/repositories"
)

const (
	resolverName = "pypi"
	sdistSuffix  = ".tar.gz"
)

// mirror://pypi/<initial>/<name>/<file>.tar.gz, the name back-reference is checked in code.
var mirrorURLPattern = regexp.MustCompile(`^mirror://pypi/(\w)/([^/]+)/([^/]+)\.tar\.gz$`)

// ErrNotFound is returned when the project does not exist on the index.
var ErrNotFound = errors.New("project not found")

// PyPIRepository talks to the PyPI JSON API. It resolves upstream versions of
// mirror://pypi sources and serves project metadata for new expressions.
type PyPIRepository struct {
	baseURL         string
	client          *http.Client
	allowPrerelease bool
	log             logger.FieldLogger
}

// NewPyPIRepository creates a PyPI client from the settings.
func NewPyPIRepository(settings *entities.Settings, log logger.FieldLogger) *PyPIRepository {
	return &PyPIRepository{
		baseURL:         strings.TrimSuffix(settings.PyPIURL, "/"),
		client:          &http.Client{Timeout: settings.Timeout()},
		allowPrerelease: settings.AllowPrerelease,
		log:             log,
	}
}

// NewPyPIResolverRepository exposes PyPI as a version resolver.
func NewPyPIResolverRepository(
	settings *entities.Settings,
	log logger.FieldLogger,
) repositories.VersionResolverRepository {
	return NewPyPIRepository(settings, log)
}

// NewPyPIIndexRepository exposes PyPI as a package index.
func NewPyPIIndexRepository(
	settings *entities.Settings,
	log logger.FieldLogger,
) repositories.PackageIndexRepository {
	return NewPyPIRepository(settings, log)
}

func (r *PyPIRepository) Name() string { return resolverName }

// TryResolve returns the published releases of the project a mirror://pypi
// URL points at.
func (r *PyPIRepository) TryResolve(ctx context.Context, rawURL string) ([]entities.Version, bool) {
	name, current, ok := ParseMirrorURL(rawURL)
	if !ok {
		return nil, false
	}
	r.log.Debugf("[pypi] Looking up releases of %s (currently %s)", name, current)

	project, err := r.fetchProject(ctx, name)
	if err != nil {
		r.log.Infof("[pypi] Failed to query versions of %s via %s", name, rawURL)
		r.log.Errorf("[pypi] %v", err)
		return nil, false
	}

	versions := releaseVersions(project)
	if !r.allowPrerelease {
		versions = entities.StableVersions(versions)
	}
	return versions, true
}

// GetProject returns the metadata of the latest release of name.
func (r *PyPIRepository) GetProject(ctx context.Context, name string) (*entities.IndexProject, error) {
	project, err := r.fetchProject(ctx, name)
	if err != nil {
		return nil, err
	}
	return &entities.IndexProject{
		Name:         project.Info.Name,
		Version:      project.Info.Version,
		Summary:      project.Info.Summary,
		HomePage:     project.Info.HomePage,
		License:      project.Info.License,
		RequiresDist: project.Info.RequiresDist,
	}, nil
}

// SourceURL returns the mirror://pypi URL of a release.
func (r *PyPIRepository) SourceURL(name, version string) string {
	return MirrorURL(name, version)
}

// ParseMirrorURL extracts project name and version from
// mirror://pypi/<initial>/<name>/<name>-<version>.tar.gz. The initial must be
// the lowercase first letter of the name and the file must repeat the name.
func ParseMirrorURL(rawURL string) (string, string, bool) {
	m := mirrorURLPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", "", false
	}
	initial, name, file := m[1], m[2], m[3]

	if initial != strings.ToLower(name[:1]) {
		return "", "", false
	}
	version, found := strings.CutPrefix(file, name+"-")
	if !found || version == "" {
		return "", "", false
	}
	return name, version, true
}

// MirrorURL builds the mirror://pypi source URL of a release.
func MirrorURL(name, version string) string {
	return fmt.Sprintf("mirror://pypi/%s/%s/%s-%s%s", strings.ToLower(name[:1]), name, name, version, sdistSuffix)
}

// --- PyPI JSON API ---

type projectResponse struct {
	Info     projectInfo              `json:"info"`
	Releases map[string][]releaseFile `json:"releases"`
}

type projectInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Summary      string   `json:"summary"`
	HomePage     string   `json:"home_page"`
	License      string   `json:"license"`
	RequiresDist []string `json:"requires_dist"`
}

type releaseFile struct {
	Filename string `json:"filename"`
	Yanked   bool   `json:"yanked"`
}

func (r *PyPIRepository) fetchProject(ctx context.Context, name string) (*projectResponse, error) {
	endpoint := fmt.Sprintf("%s/%s/json", r.baseURL, url.PathEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var project projectResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&project); decodeErr != nil {
		return nil, fmt.Errorf("failed to parse metadata of %s: %w", name, decodeErr)
	}
	return &project, nil
}

// releaseVersions returns every modern release with at least one file that
// was not yanked. Without a releases mapping, the announced version is used.
func releaseVersions(project *projectResponse) []entities.Version {
	if len(project.Releases) == 0 {
		return entities.ParseVersions([]string{project.Info.Version})
	}

	raw := make([]string, 0, len(project.Releases))
	for version, files := range project.Releases {
		if isAvailable(files) {
			raw = append(raw, version)
		}
	}
	return entities.ParseVersions(raw)
}

func isAvailable(files []releaseFile) bool {
	for _, f := range files {
		if !f.Yanked {
			return true
		}
	}
	return false
}
