package contentvisitor

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// readSource implements spec.md §4.4 step 1: preprocessor first (if
// configured and the path matches one of its globs), else decompression
// (if the extension is recognized), else a direct read. Only gzip and
// bzip2 are supported — the one place this repo necessarily falls back
// to the standard library, since no library in the example pack reaches
// for xz/zstd/lz4/brotli decompression (DESIGN.md).
func readSource(ctx context.Context, path, preprocessor string, preprocessorGlobs []string) ([]byte, error) {
	if preprocessor != "" && matchesAnyGlob(preprocessorGlobs, path) {
		return runPreprocessor(ctx, preprocessor, path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gz":
		return readGzip(path)
	case ".bz2":
		return readBzip2(path)
	case ".xz", ".zst", ".lz4", ".br":
		return nil, fmt.Errorf("unsupported compressed extension %q: no decompressor wired for this format", ext)
	default:
		return os.ReadFile(path)
	}
}

func runPreprocessor(ctx context.Context, preprocessor, path string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, preprocessor, path)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("preprocessor %q failed on %q: %w", preprocessor, path, err)
	}
	return out.Bytes(), nil
}

func readGzip(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func readBzip2(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(bzip2.NewReader(f))
}

func matchesAnyGlob(globs []string, path string) bool {
	base := filepath.Base(path)
	for _, g := range globs {
		if ok, err := doublestar.Match(g, base); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(g, path); err == nil && ok {
			return true
		}
	}
	return false
}
