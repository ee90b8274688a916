package storage

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/scrapnote/internal/apperr"
)

// tempPrefix marks in-progress writes. Such files are never listed and the
// prefix cannot be used as a note name.
const tempPrefix = ".scrapnote-tmp-"

var (
	errSeparator = errors.New("must not contain a path separator")
	errReserved  = errors.New("uses a reserved prefix")
)

func noSeparator(value interface{}) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, "/\\\x00") {
		return errSeparator
	}
	return nil
}

func notReserved(value interface{}) error {
	s, _ := value.(string)
	if IsTempName(s) {
		return errReserved
	}
	return nil
}

// ValidateName checks that name can be used verbatim as a file name inside
// the note directory.
func ValidateName(name string) error {
	err := validation.Validate(name,
		validation.Required,
		validation.NotIn(".", "..").Error("must not be . or .."),
		validation.By(noSeparator),
		validation.By(notReserved),
	)
	if err != nil {
		return fmt.Errorf("%w: %q %v", apperr.ErrInvalidName, name, err)
	}
	return nil
}

// ValidateKey checks a List filter key. The empty key is allowed and, unlike
// names, "." is a legitimate substring to filter on.
func ValidateKey(key string) error {
	if err := validation.Validate(key, validation.By(noSeparator)); err != nil {
		return fmt.Errorf("%w: key %q %v", apperr.ErrInvalidName, key, err)
	}
	return nil
}
