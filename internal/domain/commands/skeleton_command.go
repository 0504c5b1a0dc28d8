package commands

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"text/template"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	"github.com/rios0rios0/nix-update-version/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/nix-update-version/internal/infrastructure/repositories"
)

const placeholderLicense = "PLACEHOLDER_LICENSE"

var (
	requirementNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*`)
	extraMarkerPattern     = regexp.MustCompile(`;\s*.*\bextra\s*==`)

	pythonExpressionTemplate = template.Must(template.New("buildPythonPackage").
		Funcs(template.FuncMap{"nixString": nixString}).
		Parse(`{ lib, fetchPypi, buildPythonPackage
{{- range .Build}}
, {{.}}
{{- end}}
{{- range .Check}}
, {{.}}
{{- end}}
}:

# {{.Name}} = callPackage ../development/python-modules/{{.Name}} { };
buildPythonPackage rec {
  pname = "{{.Name}}";
  version = "{{.Version}}";

  src = fetchPypi {
    inherit pname version;
    {{.HashAlgorithm}} = "{{.Hash}}";
  };

  propagatedBuildInputs = [
{{- range .Build}}
    {{.}}
{{- end}}
  ];

  checkInputs = [
{{- range .Check}}
    {{.}}
{{- end}}
  ];

  meta = with lib; {
    description = "{{nixString .Description}}";
    homepage = "{{nixString .HomePage}}";
    license = licenses."{{nixString .License}}";
    maintainers = with maintainers; [ {{.Maintainer}} ];
  };
}
`))
)

// Skeleton is the interface for generating new package expressions.
type Skeleton interface {
	Execute(ctx context.Context, settings *entities.Settings, opts SkeletonOptions) (string, error)
}

// SkeletonOptions holds the arguments of gen-expression.
type SkeletonOptions struct {
	Type       string // package index, e.g. "pypi"
	Name       string
	Version    string // defaults to the latest release
	License    string // defaults to the index metadata
	Maintainer string
	ExtraBuild string // space separated
	ExtraCheck string // space separated
	NixPath    string
}

type skeletonData struct {
	Name          string
	Version       string
	HashAlgorithm string
	Hash          string
	Description   string
	HomePage      string
	License       string
	Maintainer    string
	Build         []string
	Check         []string
}

// SkeletonCommand renders a new expression from package index metadata and a
// prefetched source hash.
type SkeletonCommand struct {
	indexRegistry *infraRepos.IndexRegistry
	fetcher       repositories.FetcherRepository
	log           logger.FieldLogger
}

// NewSkeletonCommand creates a new SkeletonCommand.
func NewSkeletonCommand(
	indexRegistry *infraRepos.IndexRegistry,
	fetcher repositories.FetcherRepository,
	log logger.FieldLogger,
) *SkeletonCommand {
	return &SkeletonCommand{
		indexRegistry: indexRegistry,
		fetcher:       fetcher,
		log:           log,
	}
}

// Execute returns the rendered expression.
func (it *SkeletonCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts SkeletonOptions,
) (string, error) {
	if opts.Name == "" {
		return "", fmt.Errorf("%w: no package name given", entities.ErrInput)
	}

	index, err := it.indexRegistry.Get(strings.ToLower(opts.Type), settings, it.log)
	if err != nil {
		return "", err
	}

	project, err := index.GetProject(ctx, opts.Name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", entities.ErrInput, err)
	}

	data := skeletonData{
		Name:          opts.Name,
		Version:       firstNonEmpty(opts.Version, project.Version),
		HashAlgorithm: "sha256",
		Description:   project.Summary,
		HomePage:      project.HomePage,
		License:       firstNonEmpty(opts.License, project.License, placeholderLicense),
		Maintainer:    opts.Maintainer,
		Build:         appendUnique(RequirementNames(project.RequiresDist), strings.Fields(opts.ExtraBuild)...),
		Check:         appendUnique(nil, strings.Fields(opts.ExtraCheck)...),
	}
	if data.Version == "" {
		return "", fmt.Errorf("%w: %s has no released version", entities.ErrInput, opts.Name)
	}

	env, cleanup, err := newNixEnv(settings, opts.NixPath, it.log)
	if err != nil {
		return "", err
	}
	defer cleanup()

	source := entities.SourceFetchSpec{
		URLs:          []string{index.SourceURL(opts.Name, data.Version)},
		HashAlgorithm: data.HashAlgorithm,
	}
	it.log.Infof("Fetching %s", source.PrimaryURL())
	if data.Hash, err = it.fetcher.FetchPlain(ctx, env, source); err != nil {
		return "", err
	}

	var out bytes.Buffer
	if err = pythonExpressionTemplate.Execute(&out, data); err != nil {
		return "", fmt.Errorf("failed to render expression: %w", err)
	}
	return out.String(), nil
}

// RequirementNames turns requirement specifiers ("Foo.Bar (>=1.0)") into
// attribute names ("foo-bar"). Requirements of optional extras are skipped.
func RequirementNames(requirements []string) []string {
	names := make([]string, 0, len(requirements))
	for _, req := range requirements {
		if extraMarkerPattern.MatchString(req) {
			continue
		}
		name := requirementNamePattern.FindString(strings.TrimSpace(req))
		if name == "" {
			continue
		}
		name = strings.NewReplacer(".", "-", "_", "-").Replace(strings.ToLower(name))
		names = appendUnique(names, name)
	}
	return names
}

func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		if !slices.Contains(list, item) {
			list = append(list, item)
		}
	}
	return list
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func nixString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`, "${", `\${`, "\n", " ").Replace(s)
}
