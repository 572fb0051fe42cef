package share_file

const (
	InsertShareFile = `
		INSERT INTO share_files (share_id, blob_id, file_name, mime_type, declared_size, real_size)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING
		  uuid, share_id, blob_id, file_name, mime_type, declared_size, real_size, created_at
	`
	SelectShareFileByUUID = `
		SELECT uuid, share_id, blob_id, file_name, mime_type, declared_size, real_size, created_at
		FROM share_files
		WHERE uuid = $1
	`
	SelectShareFilesByShare = `
		SELECT uuid, share_id, blob_id, file_name, mime_type, declared_size, real_size, created_at
		FROM share_files
		WHERE share_id = $1
		ORDER BY created_at
	`
	// GREATEST keeps the real size monotone even if a slow replayed
	// call persists after a newer one.
	UpdateShareFileRealSize = `
		UPDATE share_files
		SET real_size = GREATEST(real_size, $1)
		WHERE uuid = $2
	`
	SumRealSizeByShare = `
		SELECT COALESCE(SUM(real_size), 0)
		FROM share_files
		WHERE share_id = $1
	`
	DeleteShareFileByUUID = `DELETE FROM share_files WHERE uuid = $1`
	ExistsByBlobID        = `SELECT EXISTS (SELECT 1 FROM share_files WHERE blob_id = $1)`
)
