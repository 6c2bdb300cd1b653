package service

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// usernameRe — формат имени: латинская буква, затем 4..63 символов [A-Za-z0-9_].
var usernameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{4,63}$`)

// hashPassword хэширует пароль с помощью bcrypt.
// Соль генерируется на каждый вызов и встроена в результат, поэтому два
// хэша одного пароля никогда не совпадают.
func hashPassword(password string) (string, error) {
	const op = "service.password.hashPassword"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем.
// Битый хэш не является ошибкой: это просто несовпадение.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// validatePassword проверяет допустимую длину пароля (8..128 символов).
func validatePassword(pw string) error {
	const op = "service.password.validatePassword"

	if n := len([]rune(pw)); n < 8 || n > 128 {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	return nil
}

// validateUsername проверяет формат имени пользователя.
func validateUsername(username string) error {
	const op = "service.password.validateUsername"

	if !usernameRe.MatchString(username) {
		return fmt.Errorf("%s: %w", op, ErrInvalidUsername)
	}

	return nil
}

// validateEmail проверяет базовый формат email, обрезает пробелы снаружи
// и приводит к нижнему регистру.
func validateEmail(raw string) (string, error) {
	const op = "service.password.validateEmail"

	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	return strings.ToLower(email), nil
}
