package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Xeyame/sharry/internal/application/ports"
	"github.com/Xeyame/sharry/internal/domain/account"
	"github.com/Xeyame/sharry/internal/domain/publishlink"
	domain "github.com/Xeyame/sharry/internal/domain/share"
	"github.com/Xeyame/sharry/internal/domain/sharefile"
	"github.com/Xeyame/sharry/internal/interface/api/rest/dto/share"
)

func setupPublicRouter(t *testing.T, ss ports.ShareService, us ports.UploadService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	NewPublicController(r, ss, us, zap.NewNop())

	return r
}

func TestGetPublicShareHandler(t *testing.T) {
	s := someShare(uuid.New())
	link := &publishlink.PublishLink{ShareID: s.ID, PublicID: "pub-1", Active: true, Views: 1}

	fs := &FakeShareService{
		ShareDetailsFunc: func(_ context.Context, ref domain.Ref, caller account.Ref, password string) (*ports.ShareDetails, error) {
			assert.Equal(t, domain.RefPublic, ref.Kind())
			assert.Equal(t, "pub-1", ref.PublicID())
			assert.Equal(t, "hunter2", password)
			assert.Equal(t, account.Ref{}, caller, "anonymous calls carry no identity")
			return &ports.ShareDetails{Share: s, Link: link}, nil
		},
	}
	r := setupPublicRouter(t, fs, &FakeUploadService{})

	rr := doReq(t, r, http.MethodGet, "/api/v1/public/pub-1", nil, map[string]string{
		HeaderSharePassword: "hunter2",
	})

	require.Equal(t, http.StatusOK, rr.Code)

	var got share.Details
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, s.ID, got.ID)
}

func TestGetPublicShareHandler_PasswordGate_Table(t *testing.T) {
	tests := []struct {
		name     string
		svcErr   error
		wantCode int
	}{
		{name: "password required", svcErr: domain.ErrPasswordMissing, wantCode: http.StatusUnauthorized},
		{name: "password mismatch", svcErr: domain.ErrPasswordMismatch, wantCode: http.StatusForbidden},
		{name: "unknown public id", svcErr: domain.ErrNotFound, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			fs := &FakeShareService{
				ShareDetailsFunc: func(context.Context, domain.Ref, account.Ref, string) (*ports.ShareDetails, error) {
					return nil, tt.svcErr
				},
			}
			r := setupPublicRouter(t, fs, &FakeUploadService{})

			rr := doReq(t, r, http.MethodGet, "/api/v1/public/pub-1", nil, nil)
			assert.Equal(t, tt.wantCode, rr.Code)
		})
	}
}

func TestGetPublicFileDataHandler(t *testing.T) {
	shareID := uuid.New()
	f := someShareFile(shareID)
	f.RealSize = 5
	content := []byte("hello")

	fu := &FakeUploadService{
		LoadFileFunc: func(_ context.Context, ref domain.Ref, _ account.Ref, password string, fID sharefile.ID, offset, length int64) (*sharefile.ShareFile, io.ReadCloser, error) {
			assert.Equal(t, domain.RefPublic, ref.Kind())
			assert.Equal(t, "pub-1", ref.PublicID())
			assert.Equal(t, "pw", password)
			assert.Equal(t, f.ID, fID)
			assert.Equal(t, int64(0), offset)
			assert.Equal(t, int64(-1), length)
			return f, io.NopCloser(bytes.NewReader(content)), nil
		},
	}
	r := setupPublicRouter(t, &FakeShareService{}, fu)

	rr := doReq(t, r, http.MethodGet, "/api/v1/public/pub-1/files/"+f.ID.String()+"/data", nil, map[string]string{
		HeaderSharePassword: "pw",
	})

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "hello", rr.Body.String())
}

func TestGetPublicFileDataHandler_BadFileID(t *testing.T) {
	r := setupPublicRouter(t, &FakeShareService{}, &FakeUploadService{})

	rr := doReq(t, r, http.MethodGet, "/api/v1/public/pub-1/files/not-a-uuid/data", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
