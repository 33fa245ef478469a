package localdisk

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/kirillkom/docqa/internal/core/domain"
	"github.com/kirillkom/docqa/internal/core/ports"
)

const (
	manifestFile = "manifest.json"
	unitsFile    = "units.jsonl"
	vectorsFile  = "vectors.f32"
)

type manifest struct {
	BuildID     string `json:"build_id"`
	Dim         int    `json:"dim"`
	Count       int    `json:"count"`
	CreatedAt   string `json:"created_at"`
	UnitsFile   string `json:"units_file"`
	VectorsFile string `json:"vectors_file"`
}

// Store owns the single well-known index location. Save writes a complete new
// index next to the live one and renames it into place, so readers never see
// a half-written index. A file lock makes build and query mutually exclusive.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	if dir == "" {
		dir = "./data/index"
	}
	return &Store{dir: dir}
}

func (s *Store) lockPath() string {
	return s.dir + ".lock"
}

func (s *Store) Save(ctx context.Context, units []domain.Unit, vectors [][]float32) error {
	if len(units) != len(vectors) {
		return domain.WrapError(domain.ErrInvalidInput, "save index",
			fmt.Errorf("units/vectors mismatch: %d/%d", len(units), len(vectors)))
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	parent := filepath.Dir(s.dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("create index parent dir: %w", err)
	}

	lock := flock.New(s.lockPath())
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire index write lock: %w", err)
	}
	defer lock.Unlock()

	tmp, err := os.MkdirTemp(parent, ".index-build-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}

	if err := writeUnits(filepath.Join(tmp, unitsFile), units); err != nil {
		return err
	}
	if err := writeVectors(filepath.Join(tmp, vectorsFile), vectors, dim); err != nil {
		return err
	}
	if err := writeManifest(filepath.Join(tmp, manifestFile), manifest{
		BuildID:     uuid.NewString(),
		Dim:         dim,
		Count:       len(units),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		UnitsFile:   unitsFile,
		VectorsFile: vectorsFile,
	}); err != nil {
		return err
	}

	// Stash the previous index aside before activating the new one, so a
	// crash between the renames still leaves a complete index on disk.
	stash := s.dir + ".old"
	if err := os.RemoveAll(stash); err != nil {
		return fmt.Errorf("clear stale index stash: %w", err)
	}
	if err := os.Rename(s.dir, stash); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("stash previous index: %w", err)
	}
	if err := os.Rename(tmp, s.dir); err != nil {
		return fmt.Errorf("activate new index: %w", err)
	}
	if err := os.RemoveAll(stash); err != nil {
		return fmt.Errorf("remove stashed index: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (ports.SearchIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lock := flock.New(s.lockPath())
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("acquire index read lock: %w", err)
	}
	defer lock.Unlock()

	raw, err := os.ReadFile(filepath.Join(s.dir, manifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.WrapError(domain.ErrIndexNotFound, "load index", err)
		}
		return nil, fmt.Errorf("read index manifest: %w", err)
	}

	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse index manifest: %w", err)
	}
	if m.Count > 0 && m.Dim <= 0 {
		return nil, fmt.Errorf("invalid manifest: count=%d dim=%d", m.Count, m.Dim)
	}

	units, err := readUnits(filepath.Join(s.dir, m.UnitsFile), m.Count)
	if err != nil {
		return nil, err
	}
	vectors, err := readVectors(filepath.Join(s.dir, m.VectorsFile), m.Count, m.Dim)
	if err != nil {
		return nil, err
	}

	return &Index{units: units, vectors: vectors, dim: m.Dim}, nil
}

func writeManifest(path string, m manifest) error {
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func writeUnits(path string, units []domain.Unit) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create units file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, unit := range units {
		line, err := json.Marshal(unit)
		if err != nil {
			return fmt.Errorf("marshal unit: %w", err)
		}
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("write unit: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("write unit: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush units file: %w", err)
	}
	return f.Close()
}

// writeVectors stores L2-normalized vectors so search reduces to dot products.
func writeVectors(path string, vectors [][]float32, dim int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create vectors file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, vector := range vectors {
		if len(vector) != dim {
			return fmt.Errorf("vector %d dim mismatch: got %d want %d", i, len(vector), dim)
		}
		if err := binary.Write(w, binary.LittleEndian, normalize(vector)); err != nil {
			return fmt.Errorf("write vector %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush vectors file: %w", err)
	}
	return f.Close()
}

func readUnits(path string, count int) ([]domain.Unit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open units file: %w", err)
	}
	defer f.Close()

	units := make([]domain.Unit, 0, count)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var unit domain.Unit
		if err := json.Unmarshal(line, &unit); err != nil {
			return nil, fmt.Errorf("parse units line %d: %w", len(units)+1, err)
		}
		units = append(units, unit)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read units file: %w", err)
	}
	if len(units) != count {
		return nil, fmt.Errorf("units count mismatch: got %d want %d", len(units), count)
	}
	return units, nil
}

func readVectors(path string, count, dim int) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vectors file: %w", err)
	}
	defer f.Close()

	expected := int64(count) * int64(dim) * 4
	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat vectors file: %w", err)
	}
	if st.Size() != expected {
		return nil, fmt.Errorf("vectors file size mismatch: got %d want %d (count=%d dim=%d)",
			st.Size(), expected, count, dim)
	}

	out := make([]float32, count*dim)
	if expected == 0 {
		return out, nil
	}
	if err := binary.Read(io.LimitReader(f, expected), binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("read vectors file: %w", err)
	}
	return out, nil
}
