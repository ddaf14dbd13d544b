package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey matches every *DuplicateKeyError.
	ErrDuplicateKey = errors.New("duplicate key")
)

// NotFoundError reports a missing entity that an operation required.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DuplicateKeyError reports a violated natural-key uniqueness rule on create or rename.
type DuplicateKeyError struct {
	Entity string
	Key    string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Entity, e.Key)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }

func notFound(entity string, key any) error {
	return &NotFoundError{Entity: entity, Key: fmt.Sprint(key)}
}

// translate maps driver-level errors onto the repository taxonomy.
func translate(err error, entity string, key any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound(entity, key)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &DuplicateKeyError{Entity: entity, Key: fmt.Sprint(key)}
	default:
		return err
	}
}
