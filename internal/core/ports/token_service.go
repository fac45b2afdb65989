package ports

// TokenService mints short-lived signed tokens asserting that the holder
// completed the second authentication factor.
type TokenService interface {
	Issue(username string) (string, error)
}
