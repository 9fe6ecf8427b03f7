package usecases

import "time"

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(userID, companyID uint, role string) (token string, expiresAt time.Time, err error)
}
