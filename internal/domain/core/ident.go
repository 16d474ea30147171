package core

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var ErrInvalidName = errors.New("name must contain at least one letter")

// Initials returns the first two letters of the name, uppercased.
// Single-letter names repeat the letter so the segment stays two wide.
func Initials(name string) (string, error) {
	var letters []rune
	for _, r := range name {
		if unicode.IsLetter(r) {
			letters = append(letters, unicode.ToUpper(r))
			if len(letters) == 2 {
				break
			}
		}
	}
	if len(letters) == 0 {
		return "", ErrInvalidName
	}
	if len(letters) == 1 {
		letters = append(letters, letters[0])
	}
	return string(letters), nil
}

// LoginIDPrefix builds the stable part of a login ID. The serial is
// appended by FormatSerial once the next free slot is known.
func LoginIDPrefix(companyCode, firstName, lastName string, year int) (string, error) {
	fi, err := Initials(firstName)
	if err != nil {
		return "", fmt.Errorf("first name: %w", err)
	}
	li, err := Initials(lastName)
	if err != nil {
		return "", fmt.Errorf("last name: %w", err)
	}
	return fmt.Sprintf("%s%s%s%04d", strings.ToUpper(companyCode), fi, li, year), nil
}

// EmployeeNumberPrefix is the login ID prefix without the company code.
func EmployeeNumberPrefix(firstName, lastName string, year int) (string, error) {
	fi, err := Initials(firstName)
	if err != nil {
		return "", fmt.Errorf("first name: %w", err)
	}
	li, err := Initials(lastName)
	if err != nil {
		return "", fmt.Errorf("last name: %w", err)
	}
	return fmt.Sprintf("%s%s%04d", fi, li, year), nil
}

func FormatSerial(prefix string, serial int) string {
	return fmt.Sprintf("%s%04d", prefix, serial)
}
