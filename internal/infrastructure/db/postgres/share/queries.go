package share

const (
	InsertShare = `
		INSERT INTO shares (account_id, alias_id, name, description, validity_secs, max_views, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING
		  uuid, account_id, alias_id, name, description, validity_secs, max_views, password_hash, created_at
	`
	SelectShareByUUID = `
		SELECT uuid, account_id, alias_id, name, description, validity_secs, max_views, password_hash, created_at
		FROM shares
		WHERE uuid = $1
	`
	SelectSharesByAccount = `
		SELECT uuid, account_id, alias_id, name, description, validity_secs, max_views, password_hash, created_at
		FROM shares
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT 50 OFFSET ( ($2 - 1) * 50 )
	`
	UpdateShareName         = `UPDATE shares SET name = $1 WHERE uuid = $2`
	UpdateShareDescription  = `UPDATE shares SET description = $1 WHERE uuid = $2`
	UpdateShareValidity     = `UPDATE shares SET validity_secs = $1 WHERE uuid = $2`
	UpdateShareMaxViews     = `UPDATE shares SET max_views = $1 WHERE uuid = $2`
	UpdateSharePasswordHash = `UPDATE shares SET password_hash = $1 WHERE uuid = $2`

	DeleteLinksByShare = `DELETE FROM publish_links WHERE share_id = $1`
	DeleteFilesByShare = `DELETE FROM share_files WHERE share_id = $1`
	DeleteShareByUUID  = `DELETE FROM shares WHERE uuid = $1`

	SelectExpiredPublished = `
		SELECT s.uuid, s.account_id, s.alias_id, s.name, s.description, s.validity_secs, s.max_views, s.password_hash, s.created_at
		FROM shares s
		JOIN publish_links p ON p.share_id = s.uuid AND p.active
		WHERE s.created_at < $1
	`
)
