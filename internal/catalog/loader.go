package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"terrasearch/internal/ingest"
	"terrasearch/internal/model"
)

// Loader reads inventories from local files and HTTP URLs. Retrieval is
// the loader's concern only; normalization failures come back as
// ingest.ValidationError.
type Loader struct {
	client *http.Client
}

// NewLoader creates a loader. timeout bounds each HTTP fetch; zero means
// no limit.
func NewLoader(timeout time.Duration) *Loader {
	return &Loader{
		client: &http.Client{Timeout: timeout},
	}
}

// Load fetches every source concurrently, normalizes them, and merges the
// results in source order into a fresh catalog. Any failure aborts the
// whole load so the caller never publishes a partial inventory.
func (l *Loader) Load(ctx context.Context, sources ...string) (*Catalog, error) {
	if len(sources) == 0 {
		return nil, errors.New("no inventory sources given")
	}

	parsed := make([][]model.Listing, len(sources))
	group, ctx := errgroup.WithContext(ctx)
	for i, source := range sources {
		i, source := i, source
		group.Go(func() error {
			data, err := l.fetch(ctx, source)
			if err != nil {
				return fmt.Errorf("could not load inventory from %s: %w", source, err)
			}
			listings, err := DecodeListings(data)
			if err != nil {
				return fmt.Errorf("inventory %s: %w", source, err)
			}
			parsed[i] = listings
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var merged []model.Listing
	for _, listings := range parsed {
		merged = append(merged, listings...)
	}
	return New(merged, sources), nil
}

// DecodeListings parses and normalizes one raw inventory document. A
// UTF-8 BOM, as left behind by some spreadsheet exports, is tolerated.
func DecodeListings(data []byte) ([]model.Listing, error) {
	data = bytes.TrimPrefix(data, []byte("\uFEFF"))

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse inventory JSON: %w", err)
	}
	return ingest.PrepareListings(raw)
}

func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	if isURL(source) {
		return l.fetchURL(ctx, source)
	}
	return os.ReadFile(source)
}

func (l *Loader) fetchURL(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func isURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
