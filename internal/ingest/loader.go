package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"grocerydash/internal/core"
)

// Loader fetches the startup dataset from a local path or an HTTP URL.
// A missing or unreachable dataset is a normal condition: the caller
// logs it and the views stay in their prompt state.
type Loader struct {
	client *http.Client
}

// NewLoader returns a loader whose remote fetches time out after the
// given duration.
func NewLoader(timeout time.Duration) *Loader {
	return &Loader{client: &http.Client{Timeout: timeout}}
}

// Load reads and normalizes the dataset at source, which is either a
// filesystem path or an http(s) URL. File type is decided by extension;
// anything that is not .xlsx is treated as CSV.
func (l *Loader) Load(ctx context.Context, source string, schema Schema) ([]core.Record, Stats, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return l.fetch(ctx, source, schema)
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return ParseReader(f, source, schema)
}

func (l *Loader) fetch(ctx context.Context, url string, schema Schema) ([]core.Record, Stats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("build dataset request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, Stats{}, fmt.Errorf("fetch dataset: unexpected status %d", resp.StatusCode)
	}
	return ParseReader(resp.Body, url, schema)
}

// ParseReader normalizes a receipt export, picking the parser from the
// source name's extension.
func ParseReader(r io.Reader, source string, schema Schema) ([]core.Record, Stats, error) {
	if strings.EqualFold(filepath.Ext(source), ".xlsx") {
		return ParseXLSX(r, schema)
	}
	return ParseCSV(r, schema)
}
