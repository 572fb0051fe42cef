package publish_link

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/Xeyame/sharry/internal/domain/publishlink"
	"github.com/Xeyame/sharry/internal/domain/share"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) domain.Repository {
	return &Repository{db: db}
}

func (r *Repository) CreatePublishLink(ctx context.Context, req domain.PublishLink) (*domain.PublishLink, error) {
	l := new(PublishLink)

	err := r.db.QueryRow(
		ctx,
		InsertPublishLink,
		req.ShareID, req.PublicID, req.Active, req.ReuseID,
	).Scan(
		&l.ShareID,
		&l.PublicID,
		&l.Active,
		&l.ReuseID,
		&l.Views,
		&l.PublishedAt,
	)
	if err != nil {
		return nil, err
	}

	return fromDBModel(l), nil
}

func (r *Repository) FetchByShare(ctx context.Context, shareID share.ID) (*domain.PublishLink, error) {
	return r.fetch(ctx, SelectLinkByShare, shareID)
}

func (r *Repository) FetchActiveByPublicID(ctx context.Context, publicID string) (*domain.PublishLink, error) {
	return r.fetch(ctx, SelectActiveLinkByPublicID, publicID)
}

func (r *Repository) fetch(ctx context.Context, sql string, arg any) (*domain.PublishLink, error) {
	l := new(PublishLink)

	err := r.db.QueryRow(ctx, sql, arg).Scan(
		&l.ShareID,
		&l.PublicID,
		&l.Active,
		&l.ReuseID,
		&l.Views,
		&l.PublishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, share.ErrNotFound
		}
		return nil, err
	}

	return fromDBModel(l), nil
}

func (r *Repository) UpdateLink(ctx context.Context, shareID share.ID, publicID string, active, reuseID bool) error {
	tag, err := r.db.Exec(ctx, UpdateLinkByShare, publicID, active, reuseID, shareID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return share.ErrNotFound
	}
	return nil
}

func (r *Repository) IncrementViews(ctx context.Context, shareID share.ID) error {
	_, err := r.db.Exec(ctx, IncrementViewsByShare, shareID)
	return err
}
