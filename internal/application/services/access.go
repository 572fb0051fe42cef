package services

import (
	"context"
	"time"

	"github.com/Xeyame/sharry/internal/application/ports"
	"github.com/Xeyame/sharry/internal/domain/account"
	"github.com/Xeyame/sharry/internal/domain/publishlink"
	"github.com/Xeyame/sharry/internal/domain/share"
	"github.com/Xeyame/sharry/internal/domain/sharefile"
)

// Access centralizes every authorization decision of the engine.
// Failed ownership checks come back as share.ErrNotFound, identical to
// a genuinely missing share, so callers cannot probe for existence.
type Access struct {
	shareRepo share.Repository
	fileRepo  sharefile.Repository
	linkRepo  publishlink.Repository
	hasher    ports.PasswordHasher
}

func NewAccess(
	shareRepo share.Repository,
	fileRepo sharefile.Repository,
	linkRepo publishlink.Repository,
	hasher ports.PasswordHasher,
) *Access {
	return &Access{
		shareRepo: shareRepo,
		fileRepo:  fileRepo,
		linkRepo:  linkRepo,
		hasher:    hasher,
	}
}

// CheckShare loads the share and verifies the caller owns it, either
// directly or through the share's alias.
func (a *Access) CheckShare(ctx context.Context, caller account.Ref, shareID share.ID) (*share.Share, error) {
	s, err := a.shareRepo.FetchShare(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if !ownerMatches(s, caller) {
		return nil, share.ErrNotFound
	}

	return s, nil
}

// CheckFile resolves the file's owning share and delegates to
// CheckShare.
func (a *Access) CheckFile(ctx context.Context, caller account.Ref, fileID sharefile.ID) (*sharefile.ShareFile, *share.Share, error) {
	f, err := a.fileRepo.FetchShareFile(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}

	s, err := a.CheckShare(ctx, caller, f.ShareID)
	if err != nil {
		return nil, nil, err
	}

	return f, s, nil
}

// ResolvePublicAccess locates a share through its active publish link
// and applies the public access rules: the share must not be expired
// or view-exhausted, and a set password must be matched. A missing
// password yields share.ErrPasswordMissing, distinct from a wrong one,
// so the boundary can prompt instead of rejecting.
func (a *Access) ResolvePublicAccess(ctx context.Context, publicID, password string) (*share.Share, *publishlink.PublishLink, error) {
	link, err := a.linkRepo.FetchActiveByPublicID(ctx, publicID)
	if err != nil {
		return nil, nil, err
	}

	s, err := a.shareRepo.FetchShare(ctx, link.ShareID)
	if err != nil {
		return nil, nil, err
	}

	if time.Now().After(s.ExpiresAt()) {
		return nil, nil, share.ErrNotFound
	}
	if s.MaxViews > 0 && link.Views >= s.MaxViews {
		return nil, nil, share.ErrNotFound
	}

	if s.HasPassword() {
		if password == "" {
			return nil, nil, share.ErrPasswordMissing
		}
		if !a.hasher.Verify(password, *s.PasswordHash) {
			return nil, nil, share.ErrPasswordMismatch
		}
	}

	return s, link, nil
}

func ownerMatches(s *share.Share, caller account.Ref) bool {
	if s.AccountID == caller.Account() {
		return true
	}
	if s.AliasID != nil {
		if aliasID, ok := caller.Alias(); ok && aliasID == *s.AliasID {
			return true
		}
	}
	return false
}
