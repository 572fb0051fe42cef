package alias

const (
	// The alias table is owned by the account subsystem; this engine
	// only reads it.
	SelectAliasByUUID = `
		SELECT uuid, account_id, name, validity_secs, created_at
		FROM aliases
		WHERE uuid = $1 AND account_id = $2
	`
)
