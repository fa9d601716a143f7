package grpc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophforum/internal/common"
)

const (
	maxUserNameLen = 32
	minPasswordLen = 4
	maxTitleLen    = 30
	maxContentLen  = 500
	maxTagLen      = 20
	maxBioLen      = 1000
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, fmt.Sprintf(format, args...))
}

func checkLength(field, value string, lo, hi int) error {
	n := utf8.RuneCountInString(value)
	if n < lo || n > hi {
		if lo == 0 {
			return invalid("%s must be at most %d characters", field, hi)
		}
		return invalid("%s must be %d..%d characters", field, lo, hi)
	}
	return nil
}

func validateUserName(name string) error {
	if strings.ContainsAny(name, " \t\r\n") {
		return invalid("username must not contain whitespace")
	}
	return checkLength("username", name, 1, maxUserNameLen)
}

func validatePasswords(password, confirm string) error {
	if password != confirm {
		return invalid("passwords do not match")
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return invalid("password must be at least %d characters", minPasswordLen)
	}
	return nil
}

func validateContent(content string) error {
	return checkLength("content", strings.TrimSpace(content), 1, maxContentLen)
}

func validateThread(title, content, tag string) error {
	if err := checkLength("title", strings.TrimSpace(title), 1, maxTitleLen); err != nil {
		return err
	}
	if err := validateContent(content); err != nil {
		return err
	}
	return checkLength("tag", strings.TrimSpace(tag), 0, maxTagLen)
}

func validateBio(bio string) error {
	return checkLength("bio", bio, 0, maxBioLen)
}
