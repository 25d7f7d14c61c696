package manifest

import (
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// Load reads and validates a single manifest file
func Load(fs afero.Fs, path string) (*Manifest, error) {
	m, err := read(fs, path)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return m, nil
}

// LoadGlob merges every manifest matching pattern in lexical path order
// and validates the result. The pattern uses doublestar syntax and must
// be relative ("plugins/**/*.yaml").
func LoadGlob(fs afero.Fs, pattern string) (*Manifest, error) {
	matches, err := doublestar.Glob(afero.NewIOFS(fs), pattern)
	if err != nil {
		return nil, fmt.Errorf("bad manifest pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no manifest matches %q", pattern)
	}
	sort.Strings(matches)

	merged := &Manifest{}
	for _, path := range matches {
		m, err := read(fs, path)
		if err != nil {
			return nil, err
		}
		merged.Merge(m)
	}

	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest set %q: %w", pattern, err)
	}
	return merged, nil
}

func read(fs afero.Fs, path string) (*Manifest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
