package pathvalidate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_NoRestrictionsAllowsAnyExistingPath(t *testing.T) {
	dir := t.TempDir()
	v := New(nil, nil)

	resolved, err := v.Validate(dir)
	require.NoError(t, err)

	canonical, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, canonical, resolved)
}

func TestValidate_DeniedDirRejectsSubpath(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "secret")
	require.NoError(t, os.Mkdir(sub, 0o755))

	v := New(nil, []string{dir})
	_, err := v.Validate(sub)
	assert.Error(t, err)
}

func TestValidate_AllowedDirsRejectsOutsidePath(t *testing.T) {
	allowed := t.TempDir()
	other := t.TempDir()

	v := New([]string{allowed}, nil)
	_, err := v.Validate(other)
	assert.Error(t, err)
}

func TestValidate_AllowedDirsPermitsSubpath(t *testing.T) {
	allowed := t.TempDir()
	sub := filepath.Join(allowed, "proj")
	require.NoError(t, os.Mkdir(sub, 0o755))

	v := New([]string{allowed}, nil)
	resolved, err := v.Validate(sub)
	require.NoError(t, err)
	assert.NotEmpty(t, resolved)
}

func TestValidate_DeniedTakesPrecedenceOverAllowed(t *testing.T) {
	allowed := t.TempDir()
	denied := filepath.Join(allowed, "nope")
	require.NoError(t, os.Mkdir(denied, 0o755))

	v := New([]string{allowed}, []string{denied})
	_, err := v.Validate(denied)
	assert.Error(t, err)
}

func TestValidate_RootAllowedPermitsEverything(t *testing.T) {
	dir := t.TempDir()
	v := New([]string{"/"}, nil)

	resolved, err := v.Validate(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, resolved)
}

func TestValidate_NonexistentPathFallsBackToAbsolute(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "does-not-exist-yet")

	v := New(nil, nil)
	resolved, err := v.Validate(missing)
	require.NoError(t, err)
	assert.Equal(t, missing, resolved)
}
