package share

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Xeyame/sharry/internal/domain/account"
	domain "github.com/Xeyame/sharry/internal/domain/share"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) domain.Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateShare(ctx context.Context, req domain.Share) (*domain.Share, error) {
	s := new(Share)

	err := r.db.QueryRow(
		ctx,
		InsertShare,
		req.AccountID, req.AliasID, req.Name, req.Description,
		int64(req.Validity/time.Second), req.MaxViews, req.PasswordHash,
	).Scan(
		&s.UUID,
		&s.AccountID,
		&s.AliasID,

		&s.Name,
		&s.Description,
		&s.ValiditySecs,
		&s.MaxViews,
		&s.PasswordHash,

		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return fromDBModel(s), nil
}

func (r *Repository) FetchShare(ctx context.Context, id domain.ID) (*domain.Share, error) {
	s := new(Share)

	err := r.db.QueryRow(ctx, SelectShareByUUID, id).Scan(
		&s.UUID,
		&s.AccountID,
		&s.AliasID,

		&s.Name,
		&s.Description,
		&s.ValiditySecs,
		&s.MaxViews,
		&s.PasswordHash,

		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return fromDBModel(s), nil
}

func (r *Repository) FetchShares(ctx context.Context, accountID account.ID, page int) (domain.Shares, error) {
	rows, err := r.db.Query(ctx, SelectSharesByAccount, accountID, page)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shs Shares
	for rows.Next() {
		s := new(Share)

		if err = rows.Scan(
			&s.UUID,
			&s.AccountID,
			&s.AliasID,

			&s.Name,
			&s.Description,
			&s.ValiditySecs,
			&s.MaxViews,
			&s.PasswordHash,

			&s.CreatedAt,
		); err != nil {
			return nil, err
		}

		shs = append(shs, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(&shs), nil
}

func (r *Repository) UpdateName(ctx context.Context, id domain.ID, name string) error {
	return r.exec(ctx, UpdateShareName, name, id)
}

func (r *Repository) UpdateDescription(ctx context.Context, id domain.ID, description string) error {
	return r.exec(ctx, UpdateShareDescription, description, id)
}

func (r *Repository) UpdateValidity(ctx context.Context, id domain.ID, validity time.Duration) error {
	return r.exec(ctx, UpdateShareValidity, int64(validity/time.Second), id)
}

func (r *Repository) UpdateMaxViews(ctx context.Context, id domain.ID, maxViews int) error {
	return r.exec(ctx, UpdateShareMaxViews, maxViews, id)
}

func (r *Repository) UpdatePasswordHash(ctx context.Context, id domain.ID, hash *string) error {
	return r.exec(ctx, UpdateSharePasswordHash, hash, id)
}

func (r *Repository) exec(ctx context.Context, sql string, args ...any) error {
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteShare removes the share row together with its file and
// publish-link rows in one transaction.
func (r *Repository) DeleteShare(ctx context.Context, id domain.ID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, DeleteLinksByShare, id); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, DeleteFilesByShare, id); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, DeleteShareByUUID, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repository) FetchExpiredPublished(ctx context.Context, olderThan time.Time) (domain.Shares, error) {
	rows, err := r.db.Query(ctx, SelectExpiredPublished, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shs Shares
	for rows.Next() {
		s := new(Share)

		if err = rows.Scan(
			&s.UUID,
			&s.AccountID,
			&s.AliasID,

			&s.Name,
			&s.Description,
			&s.ValiditySecs,
			&s.MaxViews,
			&s.PasswordHash,

			&s.CreatedAt,
		); err != nil {
			return nil, err
		}

		shs = append(shs, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(&shs), nil
}
