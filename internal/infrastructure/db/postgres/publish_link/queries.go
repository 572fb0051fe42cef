package publish_link

const (
	InsertPublishLink = `
		INSERT INTO publish_links (share_id, public_id, active, reuse_id)
		VALUES ($1, $2, $3, $4)
		RETURNING
		  share_id, public_id, active, reuse_id, views, published_at
	`
	SelectLinkByShare = `
		SELECT share_id, public_id, active, reuse_id, views, published_at
		FROM publish_links
		WHERE share_id = $1
	`
	SelectActiveLinkByPublicID = `
		SELECT share_id, public_id, active, reuse_id, views, published_at
		FROM publish_links
		WHERE public_id = $1 AND active
	`
	UpdateLinkByShare = `
		UPDATE publish_links
		SET public_id = $1,
		    active = $2,
		    reuse_id = $3,
		    published_at = now()
		WHERE share_id = $4
	`
	IncrementViewsByShare = `
		UPDATE publish_links
		SET views = views + 1
		WHERE share_id = $1
	`
)
