package index

import (
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"
)

// Filter decides whether a path participates in the index. Paths rejected by
// the filter never reach the store, whether they arrive from the scanner or
// from the watcher.
type Filter func(path string) bool

// GlobFilter compiles patterns into a Filter matched against the path's base
// name. A path passes when any pattern matches.
func GlobFilter(patterns ...string) (Filter, error) {
	matchers := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("index: compile pattern %q: %w", p, err)
		}
		matchers = append(matchers, g)
	}
	return func(path string) bool {
		name := filepath.Base(path)
		for _, m := range matchers {
			if m.Match(name) {
				return true
			}
		}
		return false
	}, nil
}
