package alias

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Xeyame/sharry/internal/domain/account"
	domain "github.com/Xeyame/sharry/internal/domain/alias"
	"github.com/Xeyame/sharry/internal/domain/share"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) domain.Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchAlias(ctx context.Context, accountID account.ID, aliasID account.AliasID) (*domain.Alias, error) {
	a := new(Alias)

	err := r.db.QueryRow(ctx, SelectAliasByUUID, aliasID, accountID).Scan(
		&a.UUID,
		&a.AccountID,
		&a.Name,
		&a.ValiditySecs,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, share.ErrNotFound
		}
		return nil, err
	}

	return &domain.Alias{
		ID:        a.UUID,
		AccountID: a.AccountID,
		Name:      a.Name,
		Validity:  time.Duration(a.ValiditySecs) * time.Second,
		CreatedAt: a.CreatedAt,
	}, nil
}
