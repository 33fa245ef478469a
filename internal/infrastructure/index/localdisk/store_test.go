package localdisk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirillkom/docqa/internal/core/domain"
)

func page(n int) *int { return &n }

func testUnits() []domain.Unit {
	return []domain.Unit{
		{
			Text: "first page text",
			Metadata: domain.UnitMetadata{
				FileName:   "report.pdf",
				FolderName: "reports",
				FolderPath: "/data/reports",
				PageNumber: page(1),
				Summary:    "summary one",
				Entities:   "entities one",
			},
		},
		{
			Text: "flat document text",
			Metadata: domain.UnitMetadata{
				FileName:   "memo.txt",
				FolderName: "notes",
				FolderPath: "/data/notes",
			},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "index"))
	units := testUnits()
	vectors := [][]float32{{1, 0, 0}, {0, 1, 0}}

	require.NoError(t, store.Save(context.Background(), units, vectors))

	index, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, index.Len())

	hits, err := index.Search([]float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, units[0], hits[0].Unit)
	assert.Equal(t, units[1], hits[1].Unit)
	require.NotNil(t, hits[0].Unit.Metadata.PageNumber)
	assert.Equal(t, 1, *hits[0].Unit.Metadata.PageNumber)
	assert.Nil(t, hits[1].Unit.Metadata.PageNumber)
}

func TestLoadMissingIndexReturnsNotFound(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "index"))

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrIndexNotFound))
}

func TestSaveReplacesIndexWholesale(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "index"))

	require.NoError(t, store.Save(context.Background(), testUnits(), [][]float32{{1, 0, 0}, {0, 1, 0}}))

	replacement := []domain.Unit{{Text: "only survivor"}}
	require.NoError(t, store.Save(context.Background(), replacement, [][]float32{{0, 0, 1}}))

	index, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, index.Len())

	hits, err := index.Search([]float32{0, 0, 1}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "only survivor", hits[0].Unit.Text)
}

func TestSaveCleansUpStashedIndex(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "index")
	store := NewStore(dir)

	// A leftover stash from an interrupted earlier build must not block saving.
	stash := dir + ".old"
	require.NoError(t, os.MkdirAll(stash, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stash, "manifest.json"), []byte("{}"), 0o644))

	require.NoError(t, store.Save(context.Background(), testUnits(), [][]float32{{1, 0, 0}, {0, 1, 0}}))
	require.NoError(t, store.Save(context.Background(), testUnits(), [][]float32{{1, 0, 0}, {0, 1, 0}}))

	_, err := os.Stat(stash)
	assert.True(t, os.IsNotExist(err), "stash dir should be gone after save")

	index, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, index.Len())
}

func TestSaveRejectsCountMismatch(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "index"))

	err := store.Save(context.Background(), testUnits(), [][]float32{{1, 0}})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrInvalidInput))
}

func TestEmptyIndexRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "index"))

	require.NoError(t, store.Save(context.Background(), nil, nil))

	index, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, index.Len())

	hits, err := index.Search([]float32{1, 2, 3}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "index"))
	units := []domain.Unit{
		{Text: "orthogonal"},
		{Text: "close match"},
		{Text: "exact match"},
	}
	// Magnitudes differ on purpose; cosine must ignore them.
	vectors := [][]float32{
		{0, 10, 0},
		{5, 1, 0},
		{100, 0, 0},
	}
	require.NoError(t, store.Save(context.Background(), units, vectors))

	index, err := store.Load(context.Background())
	require.NoError(t, err)

	hits, err := index.Search([]float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "exact match", hits[0].Unit.Text)
	assert.Equal(t, "close match", hits[1].Unit.Text)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestSearchClampsKToIndexSize(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "index"))
	require.NoError(t, store.Save(context.Background(),
		[]domain.Unit{{Text: "one"}}, [][]float32{{1, 1}}))

	index, err := store.Load(context.Background())
	require.NoError(t, err)

	hits, err := index.Search([]float32{1, 1}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSearchRejectsDimensionMismatch(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "index"))
	require.NoError(t, store.Save(context.Background(),
		[]domain.Unit{{Text: "one"}}, [][]float32{{1, 1, 1}}))

	index, err := store.Load(context.Background())
	require.NoError(t, err)

	_, err = index.Search([]float32{1, 1}, 1)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrInvalidInput))
}
