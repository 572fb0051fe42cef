package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Xeyame/sharry/internal/application/ports"
	"github.com/Xeyame/sharry/internal/domain/blob"
)

// Store is an in-memory blob store for tests and single-node dev runs.
// Chunks are kept per blob, keyed by index.
type Store struct {
	mu    sync.RWMutex
	blobs map[blob.ID]*entry
}

type entry struct {
	mimeHint     string
	declaredSize uint64
	chunkSize    uint32
	chunks       map[uint32][]byte
}

func New() ports.BlobStore {
	return &Store{blobs: make(map[blob.ID]*entry)}
}

func (s *Store) CreatePlaceholder(ctx context.Context, mimeHint string, declaredSize uint64, chunkSize uint32) (blob.ID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := blob.ID(uuid.NewString())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[id] = &entry{
		mimeHint:     mimeHint,
		declaredSize: declaredSize,
		chunkSize:    chunkSize,
		chunks:       make(map[uint32][]byte),
	}

	return id, nil
}

func (s *Store) AppendChunk(ctx context.Context, id blob.ID, index uint32, data []byte) (blob.AppendOutcome, error) {
	if err := ctx.Err(); err != nil {
		return blob.Unmodified, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.blobs[id]
	if !ok {
		return blob.Unmodified, fmt.Errorf("blob %s does not exist", id)
	}
	if _, ok := e.chunks[index]; ok {
		return blob.Unmodified, nil
	}

	e.chunks[index] = bytes.Clone(data)

	return blob.Created, nil
}

func (s *Store) DeleteBlob(ctx context.Context, id blob.ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, id)

	return nil
}

func (s *Store) ReadRange(ctx context.Context, id blob.ID, offset, length int64) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	e, ok := s.blobs[id]
	if !ok {
		s.mu.RUnlock()
		return nil, fmt.Errorf("blob %s does not exist", id)
	}

	indices := make([]int, 0, len(e.chunks))
	for idx := range e.chunks {
		indices = append(indices, int(idx))
	}
	sort.Ints(indices)

	var buf bytes.Buffer
	for _, idx := range indices {
		buf.Write(e.chunks[uint32(idx)])
	}
	s.mu.RUnlock()

	all := buf.Bytes()
	if offset < 0 || offset > int64(len(all)) {
		return nil, fmt.Errorf("offset %d out of range for blob %s", offset, id)
	}
	end := int64(len(all))
	if length >= 0 && offset+length < end {
		end = offset + length
	}

	return io.NopCloser(bytes.NewReader(all[offset:end])), nil
}

func (s *Store) ListBlobs(ctx context.Context) ([]blob.ID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]blob.ID, 0, len(s.blobs))
	for id := range s.blobs {
		ids = append(ids, id)
	}

	return ids, nil
}
