package auth

import "golang.org/x/crypto/bcrypt"

// PasswordVerifier abstracts password hashing so the algorithm can be swapped
// without touching the services that depend on it.
type PasswordVerifier interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// BcryptVerifier is the default PasswordVerifier.
type BcryptVerifier struct{}

func (BcryptVerifier) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (BcryptVerifier) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
