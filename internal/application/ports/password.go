package ports

// PasswordHasher is the external password primitive. Plaintext never
// reaches the record store.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}
