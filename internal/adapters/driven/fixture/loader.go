package fixture

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driven"
	"github.com/custodia-labs/chatdesk/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.FixtureLoader = (*Loader)(nil)

// maxParallelLoads bounds concurrent file reads in LoadAll.
const maxParallelLoads = 4

// Loader reads fixture files. The format is chosen by extension:
// .json, .yaml or .yml.
type Loader struct{}

// NewLoader creates a fixture loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses a single fixture file.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Fixture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	decode, err := decoderFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}

	var fx domain.Fixture
	if err := decode(data, &fx); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	logger.Debug("Loaded %s: %d threads, %d chunks", path, len(fx.Threads), len(fx.Chunks))
	return &fx, nil
}

// LoadAll parses files concurrently and merges them in argument order.
// The first failure cancels the remaining loads.
func (l *Loader) LoadAll(ctx context.Context, paths ...string) (*domain.Fixture, error) {
	results := make([]*domain.Fixture, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)
	for i, path := range paths {
		g.Go(func() error {
			fx, err := l.Load(gctx, path)
			if err != nil {
				return err
			}
			results[i] = fx
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &domain.Fixture{}
	for _, fx := range results {
		merged.Merge(fx)
	}
	return merged, nil
}

// IsSupported reports whether path has a fixture extension.
func IsSupported(path string) bool {
	_, err := decoderFor(path)
	return err == nil
}

type decodeFunc func(data []byte, fx *domain.Fixture) error

func decoderFor(path string) (decodeFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return decodeJSON, nil
	case ".yaml", ".yml":
		return decodeYAML, nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Base(path))
	}
}

// Unknown fields are rejected so typos in hand-written fixtures surface.
// An empty file decodes to an empty fixture.

func decodeJSON(data []byte, fx *domain.Fixture) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(fx); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func decodeYAML(data []byte, fx *domain.Fixture) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(fx); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
