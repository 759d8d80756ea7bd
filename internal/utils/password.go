package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives the bcrypt hash stored in the users table. The default
// cost keeps login latency acceptable behind the rate limiter.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether password matches the stored hash. Callers
// get a plain boolean; the comparison error never reaches the login response.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
