package auth

import "golang.org/x/crypto/bcrypt"

// hashCost matches the work factor the records were originally hashed with;
// changing it only affects newly set passwords.
const hashCost = 12

// HashPassword derives a one-way bcrypt hash of pwd.
func HashPassword(pwd string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(pwd), hashCost)
}

// CheckPassword reports whether pwd matches hash. Comparison is
// constant-time; a malformed hash simply yields false.
func CheckPassword(pwd string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(pwd)) == nil
}
