// Package pathvalidate implements the "path validator" external
// collaborator spec.md §6 describes: resolve a caller-supplied path to
// a canonical absolute path, or reject it with an actionable
// permission-denied error. The session manager never performs its own
// allow-list checks — it calls through this package's Validator
// interface instead. Grounded on original_source/src/validation.rs's
// validate_path: home-dir expansion, denylist-before-allowlist
// precedence, subdirectory matching, and falling back to the absolute
// (uncanonicalized) path when the target doesn't exist yet.
package pathvalidate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/codesearch/internal/apperr"
)

// Validator resolves a requested path to a canonical absolute path or
// rejects it, per spec.md §6's external collaborator contract.
type Validator interface {
	Validate(requestedPath string) (string, error)
}

// AllowListValidator is the concrete Validator: a path is rejected if
// it falls under any DeniedDirs entry (checked first), or — when
// AllowedDirs is non-empty — if it falls under none of them. An empty
// AllowedDirs list means "no restriction," matching original_source's
// "no restrictions = allow all" step 3.
type AllowListValidator struct {
	AllowedDirs []string
	DeniedDirs  []string
}

// New builds an AllowListValidator from the raw allow/deny lists.
func New(allowed, denied []string) *AllowListValidator {
	return &AllowListValidator{AllowedDirs: allowed, DeniedDirs: denied}
}

// Validate implements Validator.
func (v *AllowListValidator) Validate(requestedPath string) (string, error) {
	expanded, err := expandHome(requestedPath)
	if err != nil {
		return "", apperr.PathDenied("validate_path", err)
	}

	absolute := expanded
	if !filepath.IsAbs(absolute) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", apperr.PathDenied("validate_path", err)
		}
		absolute = filepath.Join(cwd, absolute)
	}

	if reason, denied := v.deniedReason(absolute); denied {
		return "", apperr.PathDenied("validate_path", fmt.Errorf("%s", reason))
	}

	if _, err := os.Stat(absolute); err == nil {
		if canonical, err := filepath.EvalSymlinks(absolute); err == nil {
			return canonical, nil
		}
	}
	// Path doesn't exist, or symlink resolution failed — return the
	// absolute path anyway, matching original_source's "operations
	// that create paths" fallback.
	return absolute, nil
}

// deniedReason reports whether absolute is excluded by the configured
// allow/deny lists, and why.
func (v *AllowListValidator) deniedReason(absolute string) (reason string, denied bool) {
	check := normalize(absolute)

	for _, d := range v.DeniedDirs {
		if matchesDir(check, normalize(d)) {
			return fmt.Sprintf("path is in denied directory: %s", d), true
		}
	}

	if len(v.AllowedDirs) == 0 {
		return "", false
	}
	for _, a := range v.AllowedDirs {
		if a == "/" {
			return "", false
		}
		if matchesDir(check, normalize(a)) {
			return "", false
		}
	}
	return fmt.Sprintf("path not in allowed directories: %v", v.AllowedDirs), true
}

func matchesDir(path, dir string) bool {
	dir = strings.TrimSuffix(dir, string(filepath.Separator))
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

func normalize(p string) string {
	return strings.TrimSuffix(filepath.Clean(p), string(filepath.Separator))
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if p == "~" {
		return home, nil
	}
	return filepath.Join(home, p[2:]), nil
}
