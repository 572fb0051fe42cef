package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xeyame/sharry/internal/application/ports"
	"github.com/Xeyame/sharry/internal/domain/account"
	"github.com/Xeyame/sharry/internal/domain/share"
	"github.com/Xeyame/sharry/internal/domain/sharefile"
)

func uploadFixture(t *testing.T) (*harness, account.Ref, *share.Share) {
	t.Helper()

	h := newHarness()
	owner := account.ByAccount(uuid.New())
	s := h.seedShare(share.Share{AccountID: owner.Account(), Name: "files"})

	return h, owner, s
}

func TestCreateEmptyFile(t *testing.T) {
	ctx := context.Background()
	h, owner, s := uploadFixture(t)

	f, err := h.uploads.CreateEmptyFile(ctx, owner, s.ID, ports.NewFileRequest{
		FileName:     "report.pdf",
		MimeType:     "application/pdf",
		DeclaredSize: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, s.ID, f.ShareID)
	assert.Equal(t, "report.pdf", f.FileName)
	assert.Equal(t, uint64(20), f.DeclaredSize)
	assert.Zero(t, f.RealSize)
	assert.NotEmpty(t, f.BlobID)
}

func TestCreateEmptyFile_Table(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		caller  func(owner account.Ref) account.Ref
		req     ports.NewFileRequest
		wantErr error
	}{
		{
			name:    "missing file name",
			caller:  func(owner account.Ref) account.Ref { return owner },
			req:     ports.NewFileRequest{DeclaredSize: 10},
			wantErr: share.ErrValidation,
		},
		{
			name:    "declared size over quota",
			caller:  func(owner account.Ref) account.Ref { return owner },
			req:     ports.NewFileRequest{FileName: "big.bin", DeclaredSize: testMaxSize + 1},
			wantErr: &share.QuotaExceededError{},
		},
		{
			name:    "foreign caller sees not found",
			caller:  func(account.Ref) account.Ref { return account.ByAccount(uuid.New()) },
			req:     ports.NewFileRequest{FileName: "a.txt", DeclaredSize: 1},
			wantErr: share.ErrNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			h, owner, s := uploadFixture(t)

			_, err := h.uploads.CreateEmptyFile(ctx, tt.caller(owner), s.ID, tt.req)
			require.Error(t, err)
			if target, ok := tt.wantErr.(*share.QuotaExceededError); ok {
				require.ErrorAs(t, err, &target)
				assert.Equal(t, uint64(testMaxSize), target.MaxSize)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAddFileData_StreamAndResume(t *testing.T) {
	ctx := context.Background()
	h, owner, s := uploadFixture(t)

	payload := []byte("0123456789abcdefghij") // 20 bytes, chunk size 8
	f, err := h.uploads.CreateEmptyFile(ctx, owner, s.ID, ports.NewFileRequest{
		FileName:     "data.bin",
		DeclaredSize: uint64(len(payload)),
	})
	require.NoError(t, err)

	// first attempt delivers only the first two chunks
	size, err := h.uploads.AddFileData(ctx, owner, s.ID, f.ID, 0, uint64(len(payload)), bytes.NewReader(payload[:16]))
	require.NoError(t, err)
	assert.Equal(t, uint64(16), size)

	// resume from the last acknowledged offset
	size, err = h.uploads.AddFileData(ctx, owner, s.ID, f.ID, 16, uint64(len(payload))-16, bytes.NewReader(payload[16:]))
	require.NoError(t, err)
	assert.Equal(t, uint64(len(payload)), size)

	got, rc, err := h.uploads.LoadFile(ctx, share.PrivateRef(s.ID), owner, "", f.ID, 0, -1)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, uint64(len(payload)), got.RealSize)
}

func TestAddFileData_ReplayIsSizeNeutral(t *testing.T) {
	ctx := context.Background()
	h, owner, s := uploadFixture(t)

	payload := []byte("0123456789abcdef") // two full chunks
	f, err := h.uploads.CreateEmptyFile(ctx, owner, s.ID, ports.NewFileRequest{
		FileName:     "data.bin",
		DeclaredSize: uint64(len(payload)),
	})
	require.NoError(t, err)

	size, err := h.uploads.AddFileData(ctx, owner, s.ID, f.ID, 0, uint64(len(payload)), bytes.NewReader(payload))
	require.NoError(t, err)
	require.Equal(t, uint64(len(payload)), size)

	// the client lost the ack and retries the whole call
	size, err = h.uploads.AddFileData(ctx, owner, s.ID, f.ID, 0, uint64(len(payload)), bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, uint64(len(payload)), size, "replayed chunks must not inflate the size")

	sum, err := h.fileRepo.SumRealSize(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(payload)), sum)
}

// brokenReader delivers its bytes and then fails with a transport
// error instead of a clean EOF.
type brokenReader struct {
	data []byte
	err  error
}

func (r *brokenReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestAddFileData_TransportErrorMidChunk(t *testing.T) {
	ctx := context.Background()
	h, owner, s := uploadFixture(t)

	payload := []byte("0123456789abcdef") // two full chunks
	f, err := h.uploads.CreateEmptyFile(ctx, owner, s.ID, ports.NewFileRequest{
		FileName:     "data.bin",
		DeclaredSize: uint64(len(payload)),
	})
	require.NoError(t, err)

	// the connection drops four bytes into the second chunk
	reset := errors.New("read tcp: connection reset by peer")
	_, err = h.uploads.AddFileData(ctx, owner, s.ID, f.ID, 0, uint64(len(payload)), &brokenReader{data: payload[:12], err: reset})
	require.ErrorIs(t, err, reset)

	// only the complete first chunk may be acknowledged; the truncated
	// second chunk must not occupy its index, or the replay below would
	// be a no-op and the chunk's tail lost
	cur, err := h.fileRepo.FetchShareFile(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), cur.RealSize)

	// the client retries the whole call from its last acknowledged offset
	size, err := h.uploads.AddFileData(ctx, owner, s.ID, f.ID, 8, uint64(len(payload))-8, bytes.NewReader(payload[8:]))
	require.NoError(t, err)
	assert.Equal(t, uint64(len(payload)), size)

	_, rc, err := h.uploads.LoadFile(ctx, share.PrivateRef(s.ID), owner, "", f.ID, 0, -1)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestAddFileData_UnalignedOffset(t *testing.T) {
	ctx := context.Background()
	h, owner, s := uploadFixture(t)

	f, err := h.uploads.CreateEmptyFile(ctx, owner, s.ID, ports.NewFileRequest{FileName: "x", DeclaredSize: 8})
	require.NoError(t, err)

	_, err = h.uploads.AddFileData(ctx, owner, s.ID, f.ID, 3, 5, bytes.NewReader([]byte("hello")))
	assert.ErrorIs(t, err, share.ErrValidation)
}

func TestAddFileData_PostWriteOverrunRollsBack(t *testing.T) {
	ctx := context.Background()
	h, owner, s := uploadFixture(t)

	// a declared size small enough to pass the pre-check
	f, err := h.uploads.CreateEmptyFile(ctx, owner, s.ID, ports.NewFileRequest{FileName: "liar.bin", DeclaredSize: 8})
	require.NoError(t, err)

	// the stream delivers more than the share can hold
	overrun := bytes.Repeat([]byte("z"), testMaxSize+testChunkSize)
	_, err = h.uploads.AddFileData(ctx, owner, s.ID, f.ID, 0, 8, bytes.NewReader(overrun))

	var qerr *share.QuotaExceededError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, uint64(testMaxSize), qerr.MaxSize)

	// the file row is gone and its blob queued for deletion
	_, err = h.fileRepo.FetchShareFile(ctx, f.ID)
	assert.ErrorIs(t, err, share.ErrNotFound)
	assert.Contains(t, h.deleter.enqueued(), f.BlobID)

	sum, err := h.fileRepo.SumRealSize(ctx, s.ID)
	require.NoError(t, err)
	assert.Zero(t, sum, "rolled back write must not count against the quota")
}

func TestAddFileData_ExactlyFullIsAccepted(t *testing.T) {
	ctx := context.Background()
	h, owner, s := uploadFixture(t)

	payload := bytes.Repeat([]byte("q"), testMaxSize)
	f, err := h.uploads.CreateEmptyFile(ctx, owner, s.ID, ports.NewFileRequest{FileName: "full.bin", DeclaredSize: testMaxSize})
	require.NoError(t, err)

	size, err := h.uploads.AddFileData(ctx, owner, s.ID, f.ID, 0, testMaxSize, bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, uint64(testMaxSize), size)
}

func TestLoadFile_Ranges(t *testing.T) {
	ctx := context.Background()
	h, owner, s := uploadFixture(t)

	payload := []byte("0123456789abcdefghij")
	f, err := h.uploads.CreateEmptyFile(ctx, owner, s.ID, ports.NewFileRequest{FileName: "r.bin", DeclaredSize: uint64(len(payload))})
	require.NoError(t, err)
	_, err = h.uploads.AddFileData(ctx, owner, s.ID, f.ID, 0, uint64(len(payload)), bytes.NewReader(payload))
	require.NoError(t, err)

	tests := []struct {
		name           string
		offset, length int64
		want           []byte
		wantErr        error
	}{
		{name: "full read", offset: 0, length: -1, want: payload},
		{name: "middle slice", offset: 5, length: 7, want: payload[5:12]},
		{name: "tail", offset: 12, length: -1, want: payload[12:]},
		{name: "negative offset", offset: -1, length: 4, wantErr: share.ErrValidation},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, rc, err := h.uploads.LoadFile(ctx, share.PrivateRef(s.ID), owner, "", f.ID, tt.offset, tt.length)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer rc.Close()

			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, data)
		})
	}
}

func TestLoadFile_FileFromAnotherShare(t *testing.T) {
	ctx := context.Background()
	h, owner, s := uploadFixture(t)
	other := h.seedShare(share.Share{AccountID: owner.Account(), Name: "other"})

	f, err := h.uploads.CreateEmptyFile(ctx, owner, other.ID, ports.NewFileRequest{FileName: "f", DeclaredSize: 1})
	require.NoError(t, err)

	_, _, err = h.uploads.LoadFile(ctx, share.PrivateRef(s.ID), owner, "", f.ID, 0, -1)
	assert.ErrorIs(t, err, share.ErrNotFound)
}

func TestDeleteFile(t *testing.T) {
	ctx := context.Background()
	h, owner, s := uploadFixture(t)

	f, err := h.uploads.CreateEmptyFile(ctx, owner, s.ID, ports.NewFileRequest{FileName: "gone.txt", DeclaredSize: 4})
	require.NoError(t, err)
	_, err = h.uploads.AddFileData(ctx, owner, s.ID, f.ID, 0, 4, bytes.NewReader([]byte("data")))
	require.NoError(t, err)

	require.NoError(t, h.uploads.DeleteFile(ctx, owner, s.ID, f.ID))

	_, err = h.fileRepo.FetchShareFile(ctx, f.ID)
	assert.ErrorIs(t, err, share.ErrNotFound)
	assert.Contains(t, h.deleter.enqueued(), f.BlobID)

	// deleting again reports not found, not a crash
	err = h.uploads.DeleteFile(ctx, owner, s.ID, f.ID)
	assert.ErrorIs(t, err, share.ErrNotFound)

	// the store-level delete itself treats the absent row as a no-op
	assert.NoError(t, h.fileRepo.DeleteShareFile(ctx, f.ID))
}

func TestDeleteFile_ForeignCaller(t *testing.T) {
	ctx := context.Background()
	h, owner, s := uploadFixture(t)

	f, err := h.uploads.CreateEmptyFile(ctx, owner, s.ID, ports.NewFileRequest{FileName: "f", DeclaredSize: 1})
	require.NoError(t, err)

	err = h.uploads.DeleteFile(ctx, account.ByAccount(uuid.New()), s.ID, f.ID)
	assert.ErrorIs(t, err, share.ErrNotFound)

	var kept *sharefile.ShareFile
	kept, err = h.fileRepo.FetchShareFile(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, f.ID, kept.ID)
}
