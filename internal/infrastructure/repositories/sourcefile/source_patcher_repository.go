package sourcefile

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/nix-update-version/internal/domain/entities"
	"github.com/rios0rios0/nix-update-version/internal/domain/repositories"
)

const maxLineSize = 1024 * 1024

// SourcePatcherRepository rewrites a single line of a local file.
type SourcePatcherRepository struct {
	log logger.FieldLogger
}

func NewSourcePatcherRepository(log logger.FieldLogger) repositories.SourcePatcherRepository {
	return &SourcePatcherRepository{log: log}
}

// LocateAndReplace finds the last line matching req.Matcher within
// [0, req.WindowEndLine] and replaces the first occurrence of req.OldValue on
// it. It returns the 1-based line number that was rewritten.
func (r *SourcePatcherRepository) LocateAndReplace(req entities.PatchRequest) (int, error) {
	if req.Matcher == nil || req.OldValue == "" {
		return 0, fmt.Errorf("%w: incomplete patch request for %s", entities.ErrInput, req.FilePath)
	}

	index, err := r.locate(req)
	if err != nil {
		return 0, err
	}
	if index < 0 {
		return 0, fmt.Errorf(
			"%w: no line matching %s in %s up to line %d",
			entities.ErrPatternNotFound, req.Matcher, req.FilePath, req.WindowEndLine+1,
		)
	}

	if err = r.replace(req, index); err != nil {
		return 0, err
	}
	return index + 1, nil
}

// locate returns the 0-based index of the last matching line, or -1.
func (r *SourcePatcherRepository) locate(req entities.PatchRequest) (int, error) {
	file, err := os.Open(req.FilePath)
	if err != nil {
		return -1, fmt.Errorf("%w: %w", entities.ErrInput, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)

	last := -1
	for index := 0; index <= req.WindowEndLine && scanner.Scan(); index++ {
		line := strings.TrimRight(scanner.Text(), "\r")
		if req.Matcher.MatchString(line) {
			r.log.Debugf("Possible match at line %d: %s", index+1, strings.TrimSpace(line))
			last = index
		}
	}
	if err = scanner.Err(); err != nil {
		return -1, fmt.Errorf("failed to read %s: %w", req.FilePath, err)
	}
	return last, nil
}

func (r *SourcePatcherRepository) replace(req entities.PatchRequest, index int) error {
	info, err := os.Stat(req.FilePath)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", req.FilePath, err)
	}
	data, err := os.ReadFile(req.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", req.FilePath, err)
	}

	// SplitAfter keeps every line terminator, including "\r\n"
	lines := strings.SplitAfter(string(data), "\n")
	if index >= len(lines) {
		return fmt.Errorf("%w: %s changed while patching", entities.ErrPatternNotFound, req.FilePath)
	}

	r.log.Infof("Replacing '%s' with '%s' on line %d", req.OldValue, req.NewValue, index+1)
	r.log.Debugf("Old line: %s", strings.TrimSpace(lines[index]))
	lines[index] = strings.Replace(lines[index], req.OldValue, req.NewValue, 1)
	r.log.Debugf("New line: %s", strings.TrimSpace(lines[index]))

	return writeFile(req.FilePath, strings.Join(lines, ""), info.Mode().Perm())
}

func writeFile(path, content string, perm os.FileMode) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to open %s for writing: %w", path, err)
	}
	if _, err = file.WriteString(content); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
