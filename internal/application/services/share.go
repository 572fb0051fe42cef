package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Xeyame/sharry/internal/application/ports"
	"github.com/Xeyame/sharry/internal/domain/account"
	aliasDomain "github.com/Xeyame/sharry/internal/domain/alias"
	"github.com/Xeyame/sharry/internal/domain/publishlink"
	domain "github.com/Xeyame/sharry/internal/domain/share"
	"github.com/Xeyame/sharry/internal/domain/sharefile"
	"github.com/Xeyame/sharry/internal/infrastructure/mq"
)

type ShareService struct {
	shareRepo domain.Repository
	fileRepo  sharefile.Repository
	linkRepo  publishlink.Repository
	aliasRepo aliasDomain.Repository
	access    *Access
	hasher    ports.PasswordHasher
	deleter   ports.BlobDeleter
	mq        ports.RabbitMQ
	mCounter  *prometheus.CounterVec

	defaultValidity time.Duration
}

func NewShareService(
	shareRepo domain.Repository,
	fileRepo sharefile.Repository,
	linkRepo publishlink.Repository,
	aliasRepo aliasDomain.Repository,
	access *Access,
	hasher ports.PasswordHasher,
	deleter ports.BlobDeleter,
	rbMQ ports.RabbitMQ,
	mCounter *prometheus.CounterVec,
	defaultValidity time.Duration,
) ports.ShareService {
	return &ShareService{
		shareRepo:       shareRepo,
		fileRepo:        fileRepo,
		linkRepo:        linkRepo,
		aliasRepo:       aliasRepo,
		access:          access,
		hasher:          hasher,
		deleter:         deleter,
		mq:              rbMQ,
		mCounter:        mCounter,
		defaultValidity: defaultValidity,
	}
}

func (ss *ShareService) CreateShare(ctx context.Context, caller account.Ref, req ports.CreateShareRequest) (*domain.Share, error) {
	validity := req.Validity
	if validity <= 0 {
		validity = ss.defaultValidity
	}

	var aliasID *account.AliasID
	if id, ok := caller.Alias(); ok {
		a, err := ss.aliasRepo.FetchAlias(ctx, caller.Account(), id)
		if err != nil {
			return nil, err
		}
		// the alias is a trust boundary: its configured validity
		// overrides whatever the caller supplied
		validity = a.Validity
		aliasID = &a.ID
	}

	var hash *string
	if req.Password != "" {
		h, err := ss.hasher.Hash(req.Password)
		if err != nil {
			return nil, err
		}
		hash = &h
	}

	s, err := ss.shareRepo.CreateShare(ctx, domain.Share{
		AccountID:    caller.Account(),
		AliasID:      aliasID,
		Name:         req.Name,
		Description:  req.Description,
		Validity:     validity,
		MaxViews:     req.MaxViews,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	ss.emit(mq.ActionShareCreated, s)
	ss.mCounter.WithLabelValues("shares_created_total").Inc()

	return s, nil
}

func (ss *ShareService) FindShares(ctx context.Context, caller account.Ref, page int) (domain.Shares, error) {
	shs, err := ss.shareRepo.FetchShares(ctx, caller.Account(), page)
	if err != nil {
		return nil, err
	}

	return shs, nil
}

func (ss *ShareService) ShareDetails(ctx context.Context, ref domain.Ref, caller account.Ref, password string) (*ports.ShareDetails, error) {
	switch ref.Kind() {
	case domain.RefPrivate:
		s, err := ss.access.CheckShare(ctx, caller, ref.ID())
		if err != nil {
			return nil, err
		}

		link, err := ss.linkRepo.FetchByShare(ctx, s.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}

		return ss.withFiles(ctx, s, link)

	case domain.RefPublic:
		s, link, err := ss.access.ResolvePublicAccess(ctx, ref.PublicID(), password)
		if err != nil {
			return nil, err
		}
		if err = ss.linkRepo.IncrementViews(ctx, s.ID); err != nil {
			return nil, err
		}
		link.Views++

		return ss.withFiles(ctx, s, link)
	}

	return nil, fmt.Errorf("%w: unknown share reference", domain.ErrValidation)
}

func (ss *ShareService) withFiles(ctx context.Context, s *domain.Share, link *publishlink.PublishLink) (*ports.ShareDetails, error) {
	files, err := ss.fileRepo.FetchShareFiles(ctx, s.ID)
	if err != nil {
		return nil, err
	}

	return &ports.ShareDetails{Share: s, Files: files, Link: link}, nil
}

func (ss *ShareService) SetName(ctx context.Context, caller account.Ref, shareID domain.ID, name string) error {
	if _, err := ss.access.CheckShare(ctx, caller, shareID); err != nil {
		return err
	}
	return ss.shareRepo.UpdateName(ctx, shareID, name)
}

func (ss *ShareService) SetDescription(ctx context.Context, caller account.Ref, shareID domain.ID, description string) error {
	if _, err := ss.access.CheckShare(ctx, caller, shareID); err != nil {
		return err
	}
	return ss.shareRepo.UpdateDescription(ctx, shareID, description)
}

func (ss *ShareService) SetValidity(ctx context.Context, caller account.Ref, shareID domain.ID, validity time.Duration) error {
	if validity <= 0 {
		return fmt.Errorf("%w: validity must be positive", domain.ErrValidation)
	}
	if _, err := ss.access.CheckShare(ctx, caller, shareID); err != nil {
		return err
	}
	return ss.shareRepo.UpdateValidity(ctx, shareID, validity)
}

func (ss *ShareService) SetMaxViews(ctx context.Context, caller account.Ref, shareID domain.ID, maxViews int) error {
	if maxViews < 0 {
		return fmt.Errorf("%w: max views must not be negative", domain.ErrValidation)
	}
	if _, err := ss.access.CheckShare(ctx, caller, shareID); err != nil {
		return err
	}
	return ss.shareRepo.UpdateMaxViews(ctx, shareID, maxViews)
}

func (ss *ShareService) SetPassword(ctx context.Context, caller account.Ref, shareID domain.ID, password *string) error {
	if _, err := ss.access.CheckShare(ctx, caller, shareID); err != nil {
		return err
	}

	var hash *string
	if password != nil && *password != "" {
		h, err := ss.hasher.Hash(*password)
		if err != nil {
			return err
		}
		hash = &h
	}

	return ss.shareRepo.UpdatePasswordHash(ctx, shareID, hash)
}

func (ss *ShareService) DeleteShare(ctx context.Context, caller account.Ref, shareID domain.ID) error {
	s, err := ss.access.CheckShare(ctx, caller, shareID)
	if err != nil {
		return err
	}

	files, err := ss.fileRepo.FetchShareFiles(ctx, s.ID)
	if err != nil {
		return err
	}

	if err = ss.shareRepo.DeleteShare(ctx, s.ID); err != nil {
		return err
	}

	// blob cleanup is off the critical path of the delete response
	for _, f := range files {
		ss.deleter.Enqueue(f.BlobID)
	}

	ss.emit(mq.ActionShareDeleted, s)
	ss.mCounter.WithLabelValues("shares_deleted_total").Inc()

	return nil
}

func (ss *ShareService) emit(action string, s *domain.Share) {
	ss.mq.GetInputChan() <- mq.Event{
		Id:        uuid.New(),
		TS:        time.Now(),
		Action:    action,
		AccountID: s.AccountID.String(),
		ShareID:   s.ID.String(),
	}
}
