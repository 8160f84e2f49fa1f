// Package toolconfig loads the optional .codesearch.kdl file the tool
// layer (cmd/codesearchd) reads at startup. Spec.md §6 is explicit that
// no CLI, config file, or environment variable is part of the core: the
// session manager only ever receives programmatic SearchSessionOptions
// and a pathvalidate.Validator built by the caller. This package exists
// so the daemon has somewhere to source those values from when an
// operator wants persistent defaults instead of passing them on every
// call. Grounded on the teacher's internal/config/kdl_config.go, which
// reads an analogous .lci.kdl with the same "defaults struct, then
// override from parsed KDL nodes" shape.
package toolconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// Config holds the daemon-level defaults an operator may pin in
// .codesearch.kdl: result-count ceilings, the allow/deny directory
// lists handed to pathvalidate.New, and the default search timeout.
type Config struct {
	DefaultMaxResults int
	MaxResultsCap     int
	DefaultTimeoutMs  int

	AllowedDirs []string
	DeniedDirs  []string
}

func defaults() *Config {
	return &Config{
		DefaultMaxResults: 100,
		MaxResultsCap:     10_000,
		DefaultTimeoutMs:  0,
	}
}

// Load looks for .codesearch.kdl in projectRoot and parses it. A
// missing file is not an error: it returns the built-in defaults, same
// as LoadKDL's "no KDL config found, use defaults" behavior.
func Load(projectRoot string) (*Config, error) {
	path := filepath.Join(projectRoot, ".codesearch.kdl")

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read .codesearch.kdl: %w", err)
	}

	return parseKDL(string(content))
}

func parseKDL(content string) (*Config, error) {
	cfg := defaults()

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse .codesearch.kdl: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "search":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "default_max_results":
					if v, ok := firstIntArg(cn); ok {
						cfg.DefaultMaxResults = v
					}
				case "max_results_cap":
					if v, ok := firstIntArg(cn); ok {
						cfg.MaxResultsCap = v
					}
				case "default_timeout_ms":
					if v, ok := firstIntArg(cn); ok {
						cfg.DefaultTimeoutMs = v
					}
				}
			}
		case "paths":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "allow":
					cfg.AllowedDirs = append(cfg.AllowedDirs, collectStringArgs(cn)...)
				case "deny":
					cfg.DeniedDirs = append(cfg.DeniedDirs, collectStringArgs(cn)...)
				}
			}
		}
	}

	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}
