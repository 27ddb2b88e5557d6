package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword хеширует пароль bcrypt-ом, соль внутри хеша.
// Плейнтекст нигде не логируем и не храним
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
