package fs

import (
	"bufio"
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"regexp"

	"go.trai.ch/bam/internal/core/domain"
	"go.trai.ch/bam/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DependencyScanner = (*IncludeScanner)(nil)

var includeDirective = regexp.MustCompile(`^\s*#\s*include\s+"([^"]+)"`)

const maxLineSize = 1 << 20

// IncludeScanner finds the quoted #include directives of C and C++ sources.
// Included paths are resolved relative to the directory of the including file.
// Angle-bracket includes name system headers and are not tracked.
type IncludeScanner struct{}

// NewIncludeScanner creates a new IncludeScanner.
func NewIncludeScanner() *IncludeScanner {
	return &IncludeScanner{}
}

// Scan returns the files included by path in source order. A missing file has no
// dependencies.
func (s *IncludeScanner) Scan(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrScanFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	dir := filepath.Dir(path)
	var deps []string
	seen := make(map[string]bool)

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		m := includeDirective.FindSubmatch(sc.Bytes())
		if m == nil {
			continue
		}
		dep := filepath.Join(dir, string(m[1]))
		if seen[dep] {
			continue
		}
		seen[dep] = true
		deps = append(deps, dep)
	}
	if err := sc.Err(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrScanFailed.Error()), "path", path)
	}
	return deps, nil
}
