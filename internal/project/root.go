package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// RecipeFile is the name looked up when no recipe is given explicitly.
const RecipeFile = "rewrite.toml"

// FindRecipe looks for rewrite.toml in startDir and its parents. The search
// stops at the first directory holding .git so a recipe outside the
// repository is never picked up.
func FindRecipe(startDir string) (path string, ok bool, err error) {
	dir, err := filepath.Abs(cmpOr(startDir, "."))
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, RecipeFile)
		found, err := exists(candidate)
		if err != nil || found {
			return candidate, found, err
		}
		if repoRoot, err := exists(filepath.Join(dir, ".git")); err != nil || repoRoot {
			return "", false, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %q: %w", path, err)
}

func cmpOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
