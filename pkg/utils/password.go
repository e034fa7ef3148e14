package utils

import "golang.org/x/crypto/bcrypt"

// MaxPasswordBytes bcrypt 只使用前 72 字节
const MaxPasswordBytes = 72

// BcryptHasher 加盐单向哈希；Cost 为 0 时使用 bcrypt.DefaultCost（10）。
// 超过 72 字节的密码按前 72 字节哈希，不报错。
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(pw string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword(clamp(pw), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func HashPassword(pw string) (string, error) { return BcryptHasher{}.Hash(pw) }

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), clamp(pw)) == nil
}

func clamp(pw string) []byte {
	b := []byte(pw)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	return b
}
