package nix

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	"github.com/rios0rios0/nix-update-version/internal/domain/repositories"
)

const (
	DefaultInstantiateBin = "nix-instantiate"

	packageInfoExpr = `let p = (%s); in {
  drvName = builtins.parseDrvName p.name;
  position = p.meta.position or "";
}`

	fetchSpecExpr = `let a = (%s).src.drvAttrs; in {
  outputHashAlgo = a.outputHashAlgo or "";
  outputHash = a.outputHash or "";
  isGit = a ? rev;
  urls = a.urls or [];
  url = a.url or "";
  rev = a.rev or "";
  deepClone = a.deepClone or false;
  leaveDotGit = a.leaveDotGit or false;
  fetchSubmodules = a.fetchSubmodules or false;
  postFetch = (a.postFetch or "") != "";
}`
)

// ExpressionRepository implements repositories.ExpressionRepository on top of
// `nix-instantiate --eval`.
type ExpressionRepository struct {
	InstantiateBin string
	runner         runner
}

// NewExpressionRepository creates an evaluator using nix-instantiate from PATH.
func NewExpressionRepository(log logger.FieldLogger) repositories.ExpressionRepository {
	return &ExpressionRepository{
		InstantiateBin: DefaultInstantiateBin,
		runner:         runner{log: log},
	}
}

type packageInfo struct {
	DrvName struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"drvName"`
	Position string `json:"position"`
}

type fetchSpec struct {
	OutputHashAlgo  string   `json:"outputHashAlgo"`
	OutputHash      string   `json:"outputHash"`
	IsGit           bool     `json:"isGit"`
	URLs            []string `json:"urls"`
	URL             string   `json:"url"`
	Rev             string   `json:"rev"`
	DeepClone       bool     `json:"deepClone"`
	LeaveDotGit     bool     `json:"leaveDotGit"`
	FetchSubmodules bool     `json:"fetchSubmodules"`
	PostFetch       bool     `json:"postFetch"`
}

// GetPackageInfo evaluates the derivation name and meta.position of expr.
func (r *ExpressionRepository) GetPackageInfo(
	ctx context.Context,
	env entities.NixEnv,
	expr string,
) (*entities.PackageReference, error) {
	var info packageInfo
	if err := r.eval(ctx, env, fmt.Sprintf(packageInfoExpr, expr), &info); err != nil {
		return nil, err
	}

	file, line, err := ParsePosition(info.Position)
	if err != nil {
		return nil, fmt.Errorf("%w: %s has no usable meta.position: %w", entities.ErrInput, expr, err)
	}

	return &entities.PackageReference{
		Expression: expr,
		Name:       info.DrvName.Name,
		Version:    LastVersionPart(info.DrvName.Version),
		SourceFile: file,
		SourceLine: line,
	}, nil
}

// GetSourceFetchSpec evaluates the src.drvAttrs of expr.
func (r *ExpressionRepository) GetSourceFetchSpec(
	ctx context.Context,
	env entities.NixEnv,
	expr string,
) (*entities.SourceFetchSpec, error) {
	var attrs fetchSpec
	if err := r.eval(ctx, env, fmt.Sprintf(fetchSpecExpr, expr), &attrs); err != nil {
		return nil, err
	}
	return attrs.toEntity(), nil
}

func (r *ExpressionRepository) eval(ctx context.Context, env entities.NixEnv, body string, target any) error {
	out, err := r.runner.output(
		ctx, env, r.InstantiateBin,
		"--eval", "--strict", "--json",
		"-E", "with import <nixpkgs> {}; "+body,
	)
	if err != nil {
		return fmt.Errorf("%w: evaluation failed: %w", entities.ErrInput, err)
	}
	if decodeErr := json.Unmarshal([]byte(out), target); decodeErr != nil {
		return fmt.Errorf("%w: unexpected evaluation output: %w", entities.ErrInput, decodeErr)
	}
	return nil
}

func (a fetchSpec) toEntity() *entities.SourceFetchSpec {
	spec := &entities.SourceFetchSpec{
		IsVersionControlled: a.IsGit,
		URLs:                a.URLs,
		HashAlgorithm:       a.OutputHashAlgo,
		CurrentHash:         a.OutputHash,
		Unpack:              a.PostFetch,
	}
	if a.IsGit {
		// checkouts declare a single url instead of urls
		spec.URLs = []string{a.URL}
		spec.RepoURL = a.URL
		spec.Revision = a.Rev
		spec.DeepClone = a.DeepClone
		spec.LeaveDotGit = a.LeaveDotGit
		spec.FetchSubmodules = a.FetchSubmodules
	} else if len(spec.URLs) == 0 && a.URL != "" {
		spec.URLs = []string{a.URL}
	}
	return spec
}

// ParsePosition splits a meta.position value ("file:line").
func ParsePosition(position string) (string, int, error) {
	idx := strings.LastIndex(position, ":")
	if idx <= 0 {
		return "", 0, fmt.Errorf("malformed position %q", position)
	}
	line, err := strconv.Atoi(position[idx+1:])
	if err != nil || line < 1 {
		return "", 0, fmt.Errorf("malformed position %q", position)
	}
	return position[:idx], line, nil
}

// LastVersionPart keeps the part after the last "-", so that names such as
// "unstable-1.2" report "1.2".
func LastVersionPart(version string) string {
	parts := strings.Split(version, "-")
	return parts[len(parts)-1]
}
