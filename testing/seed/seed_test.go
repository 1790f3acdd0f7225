package seed_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/somafreeze/freeze/dataset"
	"github.com/byte4ever/somafreeze/freeze/digest"
	"github.com/byte4ever/somafreeze/freeze/table"
	"github.com/byte4ever/somafreeze/freeze/verify"
	"github.com/byte4ever/somafreeze/testing/seed"
)

func testConfig(root string) seed.Config {
	return seed.Config{
		Root:     root,
		Name:     "plasma",
		Version:  "1.0",
		Samples:  5,
		Analytes: 8,
		Seed:     42,
	}
}

func TestRun_produces_full_layout(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t.TempDir())

	mapping, err := seed.Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, mapping, 2)

	loc := dataset.Locator{
		Root:    cfg.Root,
		Name:    cfg.Name,
		Version: cfg.Version,
	}

	data, err := table.Load(loc.DataFile())
	require.NoError(t, err)
	assert.Equal(t, cfg.Samples, data.NumRows())
	assert.Equal(t, cfg.Analytes+1, data.NumCols())

	ann, err := table.Load(loc.AnnFile())
	require.NoError(t, err)
	assert.Equal(t, cfg.Analytes, ann.NumRows())
	assert.Equal(
		t,
		[]string{"SeqId", "Target", "Dilution"},
		ann.Columns,
	)
}

func TestRun_seeded_dataset_verifies_clean(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t.TempDir())

	_, err := seed.Run(context.Background(), cfg)
	require.NoError(t, err)

	loc := dataset.Locator{
		Root:    cfg.Root,
		Name:    cfg.Name,
		Version: cfg.Version,
	}

	rep, err := verify.Run(loc, digest.Collector{})
	require.NoError(t, err)
	assert.True(t, rep.Clean())
}

func TestRun_is_deterministic(t *testing.T) {
	t.Parallel()

	first := testConfig(t.TempDir())
	second := testConfig(t.TempDir())

	firstMapping, err := seed.Run(
		context.Background(), first,
	)
	require.NoError(t, err)

	secondMapping, err := seed.Run(
		context.Background(), second,
	)
	require.NoError(t, err)

	// Same seed, different roots: digests must agree file by
	// file.
	assert.Equal(
		t,
		byName(firstMapping),
		byName(secondMapping),
	)
}

// byName rekeys a mapping by file name so mappings from
// different roots can be compared.
func byName(m digest.Mapping) map[string]string {
	out := make(map[string]string, len(m))
	for pa, dg := range m {
		out[filepath.Base(pa)] = dg
	}

	return out
}

func TestRun_different_seeds_differ(t *testing.T) {
	t.Parallel()

	first := testConfig(t.TempDir())

	second := testConfig(t.TempDir())
	second.Seed = 43

	firstMapping, err := seed.Run(
		context.Background(), first,
	)
	require.NoError(t, err)

	secondMapping, err := seed.Run(
		context.Background(), second,
	)
	require.NoError(t, err)

	assert.NotEqual(
		t,
		byName(firstMapping),
		byName(secondMapping),
	)
}

func TestRun_rejects_bad_config(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*seed.Config)
	}{
		{
			name: "no_samples",
			mutate: func(c *seed.Config) {
				c.Samples = 0
			},
		},
		{
			name: "no_analytes",
			mutate: func(c *seed.Config) {
				c.Analytes = 0
			},
		},
		{
			name: "no_name",
			mutate: func(c *seed.Config) {
				c.Name = ""
			},
		},
		{
			name: "version_not_plain",
			mutate: func(c *seed.Config) {
				c.Version = "../1.0"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig(t.TempDir())
			tt.mutate(&cfg)

			_, err := seed.Run(
				context.Background(), cfg,
			)
			require.Error(t, err)
		})
	}
}
