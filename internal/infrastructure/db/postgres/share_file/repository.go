package share_file

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Xeyame/sharry/internal/domain/blob"
	"github.com/Xeyame/sharry/internal/domain/share"
	domain "github.com/Xeyame/sharry/internal/domain/sharefile"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) domain.Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateShareFile(ctx context.Context, req domain.ShareFile) (*domain.ShareFile, error) {
	f := new(ShareFile)

	err := r.db.QueryRow(
		ctx,
		InsertShareFile,
		req.ShareID, string(req.BlobID), req.FileName, req.MimeType, req.DeclaredSize, req.RealSize,
	).Scan(
		&f.UUID,
		&f.ShareID,
		&f.BlobID,

		&f.FileName,
		&f.MimeType,
		&f.DeclaredSize,
		&f.RealSize,

		&f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return fromDBModel(f), nil
}

func (r *Repository) FetchShareFile(ctx context.Context, id domain.ID) (*domain.ShareFile, error) {
	f := new(ShareFile)

	err := r.db.QueryRow(ctx, SelectShareFileByUUID, id).Scan(
		&f.UUID,
		&f.ShareID,
		&f.BlobID,

		&f.FileName,
		&f.MimeType,
		&f.DeclaredSize,
		&f.RealSize,

		&f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, share.ErrNotFound
		}
		return nil, err
	}

	return fromDBModel(f), nil
}

func (r *Repository) FetchShareFiles(ctx context.Context, shareID share.ID) (domain.ShareFiles, error) {
	rows, err := r.db.Query(ctx, SelectShareFilesByShare, shareID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fls ShareFiles
	for rows.Next() {
		f := new(ShareFile)

		if err = rows.Scan(
			&f.UUID,
			&f.ShareID,
			&f.BlobID,

			&f.FileName,
			&f.MimeType,
			&f.DeclaredSize,
			&f.RealSize,

			&f.CreatedAt,
		); err != nil {
			return nil, err
		}

		fls = append(fls, f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(&fls), nil
}

func (r *Repository) UpdateRealSize(ctx context.Context, id domain.ID, realSize uint64) error {
	tag, err := r.db.Exec(ctx, UpdateShareFileRealSize, realSize, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return share.ErrNotFound
	}
	return nil
}

func (r *Repository) SumRealSize(ctx context.Context, shareID share.ID) (uint64, error) {
	var sum uint64
	if err := r.db.QueryRow(ctx, SumRealSizeByShare, shareID).Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *Repository) DeleteShareFile(ctx context.Context, id domain.ID) error {
	_, err := r.db.Exec(ctx, DeleteShareFileByUUID, id)
	return err
}

func (r *Repository) ExistsByBlobID(ctx context.Context, blobID blob.ID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, ExistsByBlobID, string(blobID)).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
