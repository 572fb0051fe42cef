package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Xeyame/sharry/internal/application/ports"
	"github.com/Xeyame/sharry/internal/domain/blob"
)

const (
	metaKey     = "meta.json"
	chunkPrefix = "chunks/"

	// S3 DeleteObjects accepts at most 1000 keys per call.
	deleteBatchSize = 1000
)

// Store keeps each blob as one meta object plus one object per chunk:
//
//	<prefix><blob-id>/meta.json
//	<prefix><blob-id>/chunks/00000042
//
// Chunk appends use conditional puts (If-None-Match: *) so a replayed
// chunk index is reported Unmodified instead of being stored twice.
type Store struct {
	client    *awss3.Client
	logger    *zap.Logger
	bucket    string
	keyPrefix string
}

type blobMeta struct {
	MimeHint     string `json:"mime_hint"`
	DeclaredSize uint64 `json:"declared_size"`
	ChunkSize    uint32 `json:"chunk_size"`
}

func New(ctx context.Context, client *awss3.Client, logger *zap.Logger, bucket, keyPrefix string) (ports.BlobStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket name is required")
	}
	if keyPrefix != "" && !strings.HasSuffix(keyPrefix, "/") {
		keyPrefix += "/"
	}

	if _, err := client.HeadBucket(ctx, &awss3.HeadBucketInput{
		Bucket: aws.String(bucket),
	}); err != nil {
		return nil, fmt.Errorf("failed to access bucket %q: %w", bucket, err)
	}

	logger.Info("s3 blob store ready", zap.String("bucket", bucket))

	return &Store{
		client:    client,
		logger:    logger,
		bucket:    bucket,
		keyPrefix: keyPrefix,
	}, nil
}

func (s *Store) blobKey(id blob.ID, suffix string) string {
	return s.keyPrefix + string(id) + "/" + suffix
}

func (s *Store) chunkKey(id blob.ID, index uint32) string {
	return s.blobKey(id, fmt.Sprintf("%s%08d", chunkPrefix, index))
}

func (s *Store) CreatePlaceholder(ctx context.Context, mimeHint string, declaredSize uint64, chunkSize uint32) (blob.ID, error) {
	id := blob.ID(uuid.NewString())

	meta, err := json.Marshal(blobMeta{
		MimeHint:     mimeHint,
		DeclaredSize: declaredSize,
		ChunkSize:    chunkSize,
	})
	if err != nil {
		return "", err
	}

	if _, err = s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.blobKey(id, metaKey)),
		Body:        bytes.NewReader(meta),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return "", fmt.Errorf("failed to create blob placeholder: %w", err)
	}

	return id, nil
}

func (s *Store) AppendChunk(ctx context.Context, id blob.ID, index uint32, data []byte) (blob.AppendOutcome, error) {
	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.chunkKey(id, index)),
		Body:        bytes.NewReader(data),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		// the conditional put loses exactly when the chunk index is
		// already stored, which is the idempotent-replay case
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			return blob.Unmodified, nil
		}
		return blob.Unmodified, fmt.Errorf("failed to append chunk %d to blob %s: %w", index, id, err)
	}

	return blob.Created, nil
}

func (s *Store) DeleteBlob(ctx context.Context, id blob.ID) error {
	prefix := s.keyPrefix + string(id) + "/"

	var continuation *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &awss3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: continuation,
		})
		if err != nil {
			return fmt.Errorf("failed to list blob %s objects: %w", id, err)
		}
		if len(out.Contents) == 0 {
			return nil
		}

		objects := make([]types.ObjectIdentifier, 0, deleteBatchSize)
		for _, obj := range out.Contents {
			objects = append(objects, types.ObjectIdentifier{Key: obj.Key})
		}
		if _, err = s.client.DeleteObjects(ctx, &awss3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		}); err != nil {
			return fmt.Errorf("failed to delete blob %s objects: %w", id, err)
		}

		if out.IsTruncated == nil || !*out.IsTruncated {
			return nil
		}
		continuation = out.NextContinuationToken
	}
}

func (s *Store) ReadRange(ctx context.Context, id blob.ID, offset, length int64) (io.ReadCloser, error) {
	meta, err := s.readMeta(ctx, id)
	if err != nil {
		return nil, err
	}
	if meta.ChunkSize == 0 {
		return nil, fmt.Errorf("blob %s has invalid chunk size", id)
	}

	return &rangeReader{
		ctx:       ctx,
		store:     s,
		id:        id,
		chunk:     uint32(offset / int64(meta.ChunkSize)),
		skip:      offset % int64(meta.ChunkSize),
		remaining: length,
	}, nil
}

func (s *Store) readMeta(ctx context.Context, id blob.ID) (*blobMeta, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.blobKey(id, metaKey)),
	})
	if err != nil {
		var notFound *types.NoSuchKey
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("blob %s does not exist", id)
		}
		return nil, fmt.Errorf("failed to read blob %s meta: %w", id, err)
	}
	defer out.Body.Close()

	var meta blobMeta
	if err = json.NewDecoder(out.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to decode blob %s meta: %w", id, err)
	}

	return &meta, nil
}

func (s *Store) ListBlobs(ctx context.Context) ([]blob.ID, error) {
	var ids []blob.ID

	var continuation *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &awss3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(s.keyPrefix),
			Delimiter:         aws.String("/"),
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs: %w", err)
		}

		for _, cp := range out.CommonPrefixes {
			if cp.Prefix == nil {
				continue
			}
			id := strings.TrimSuffix(strings.TrimPrefix(*cp.Prefix, s.keyPrefix), "/")
			if id != "" {
				ids = append(ids, blob.ID(id))
			}
		}

		if out.IsTruncated == nil || !*out.IsTruncated {
			return ids, nil
		}
		continuation = out.NextContinuationToken
	}
}

// rangeReader streams a byte range across sequential chunk objects,
// fetching each chunk lazily on first read.
type rangeReader struct {
	ctx   context.Context
	store *Store
	id    blob.ID

	chunk uint32
	skip  int64
	// remaining < 0 means read to the end of the blob
	remaining int64

	current io.ReadCloser
	done    bool
}

func (r *rangeReader) Read(p []byte) (int, error) {
	for {
		if r.done || r.remaining == 0 {
			return 0, io.EOF
		}

		if r.current == nil {
			body, err := r.openNextChunk()
			if err != nil {
				return 0, err
			}
			if body == nil {
				r.done = true
				return 0, io.EOF
			}
			r.current = body
		}

		if r.remaining > 0 && int64(len(p)) > r.remaining {
			p = p[:r.remaining]
		}

		n, err := r.current.Read(p)
		if r.remaining > 0 {
			r.remaining -= int64(n)
		}
		if errors.Is(err, io.EOF) {
			_ = r.current.Close()
			r.current = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (r *rangeReader) openNextChunk() (io.ReadCloser, error) {
	out, err := r.store.client.GetObject(r.ctx, &awss3.GetObjectInput{
		Bucket: aws.String(r.store.bucket),
		Key:    aws.String(r.store.chunkKey(r.id, r.chunk)),
	})
	if err != nil {
		var notFound *types.NoSuchKey
		if errors.As(err, &notFound) {
			// past the last stored chunk
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read chunk %d of blob %s: %w", r.chunk, r.id, err)
	}
	r.chunk++

	if r.skip > 0 {
		if _, err = io.CopyN(io.Discard, out.Body, r.skip); err != nil {
			_ = out.Body.Close()
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("offset beyond end of blob %s", r.id)
			}
			return nil, err
		}
		r.skip = 0
	}

	return out.Body, nil
}

func (r *rangeReader) Close() error {
	if r.current != nil {
		return r.current.Close()
	}
	return nil
}
