package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/codesearch/internal/toolconfig"
)

func TestResolvePathLists_FlagRootReplacesConfig(t *testing.T) {
	cfg := &toolconfig.Config{AllowedDirs: []string{"/from/config"}}

	allowed, _ := resolvePathLists(cfg, "/from/flag", nil)

	assert.Equal(t, []string{"/from/flag"}, allowed)
}

func TestResolvePathLists_NoFlagRootKeepsConfig(t *testing.T) {
	cfg := &toolconfig.Config{AllowedDirs: []string{"/from/config"}}

	allowed, _ := resolvePathLists(cfg, "", nil)

	assert.Equal(t, []string{"/from/config"}, allowed)
}

func TestResolvePathLists_FlagDenyIsAppendedToConfig(t *testing.T) {
	cfg := &toolconfig.Config{DeniedDirs: []string{"/from/config/deny"}}

	_, denied := resolvePathLists(cfg, "", []string{"/from/flag/deny"})

	assert.Equal(t, []string{"/from/config/deny", "/from/flag/deny"}, denied)
}

func TestRun_RejectsUnsupportedTransport(t *testing.T) {
	app := newTestApp()
	err := app.Run([]string{"codesearchd", "--transport", "http"})
	assert.Error(t, err)
}
