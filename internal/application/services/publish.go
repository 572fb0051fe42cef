package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Xeyame/sharry/internal/application/ports"
	"github.com/Xeyame/sharry/internal/domain/account"
	domain "github.com/Xeyame/sharry/internal/domain/publishlink"
	"github.com/Xeyame/sharry/internal/domain/share"
	"github.com/Xeyame/sharry/internal/infrastructure/ident"
	"github.com/Xeyame/sharry/internal/infrastructure/mq"
)

type PublishService struct {
	access   *Access
	linkRepo domain.Repository
	mq       ports.RabbitMQ
	mCounter *prometheus.CounterVec

	// overridable in tests
	newPublicID func() string
}

func NewPublishService(
	access *Access,
	linkRepo domain.Repository,
	rbMQ ports.RabbitMQ,
	mCounter *prometheus.CounterVec,
) ports.PublishService {
	return &PublishService{
		access:      access,
		linkRepo:    linkRepo,
		mq:          rbMQ,
		mCounter:    mCounter,
		newPublicID: ident.NewPublicID,
	}
}

func (ps *PublishService) Publish(ctx context.Context, caller account.Ref, shareID share.ID, reuseID bool) (*domain.PublishLink, error) {
	s, err := ps.access.CheckShare(ctx, caller, shareID)
	if err != nil {
		return nil, err
	}

	link, err := ps.linkRepo.FetchByShare(ctx, s.ID)
	switch {
	case errors.Is(err, share.ErrNotFound):
		link, err = ps.linkRepo.CreatePublishLink(ctx, domain.PublishLink{
			ShareID:  s.ID,
			PublicID: ps.newPublicID(),
			Active:   true,
			ReuseID:  reuseID,
		})
		if err != nil {
			return nil, err
		}

	case err != nil:
		return nil, err

	case link.Active:
		// already published; never overwrite an active link
		return link, nil

	default:
		publicID := link.PublicID
		if !reuseID {
			publicID = ps.newPublicID()
		}
		if err = ps.linkRepo.UpdateLink(ctx, s.ID, publicID, true, reuseID); err != nil {
			return nil, err
		}
		link.PublicID = publicID
		link.Active = true
		link.ReuseID = reuseID
	}

	ps.emit(mq.ActionSharePublished, s)
	ps.mCounter.WithLabelValues("shares_published_total").Inc()

	return link, nil
}

func (ps *PublishService) Unpublish(ctx context.Context, caller account.Ref, shareID share.ID) error {
	s, err := ps.access.CheckShare(ctx, caller, shareID)
	if err != nil {
		return err
	}

	link, err := ps.linkRepo.FetchByShare(ctx, s.ID)
	if err != nil {
		return err
	}
	if !link.Active {
		return nil
	}

	// the public id is retained so a reuse-publish restores the link
	if err = ps.linkRepo.UpdateLink(ctx, s.ID, link.PublicID, false, link.ReuseID); err != nil {
		return err
	}

	ps.emit(mq.ActionShareUnpublished, s)
	ps.mCounter.WithLabelValues("shares_unpublished_total").Inc()

	return nil
}

func (ps *PublishService) emit(action string, s *share.Share) {
	ps.mq.GetInputChan() <- mq.Event{
		Id:        uuid.New(),
		TS:        time.Now(),
		Action:    action,
		AccountID: s.AccountID.String(),
		ShareID:   s.ID.String(),
	}
}
