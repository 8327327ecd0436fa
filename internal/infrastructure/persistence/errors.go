package persistence

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/shop/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps storage errors onto domain error kinds. With
// gorm.Config.TranslateError the postgres driver reports constraint
// violations as gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated. The
// sqlite driver only translates unique violations, so foreign key failures
// are matched on the sqlite3 extended code.
func translateError(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey), isSQLiteConstraint(err, sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey):
		return shared.NewConflictError("DUPLICATE_KEY", fmt.Sprintf("%s: a record with the same key already exists", op))
	case errors.Is(err, gorm.ErrForeignKeyViolated), isSQLiteConstraint(err, sqlite3.ErrConstraintForeignKey):
		return shared.NewReferentialIntegrityError("FOREIGN_KEY_VIOLATION", fmt.Sprintf("%s: the record is referenced by or refers to a missing record", op))
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func isSQLiteConstraint(err error, codes ...sqlite3.ErrNoExtended) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	for _, code := range codes {
		if sqliteErr.ExtendedCode == code {
			return true
		}
	}
	return false
}

// notFoundOr returns notFound for gorm.ErrRecordNotFound and the translated
// error otherwise
func notFoundOr(err error, notFound error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return translateError(err, op)
}
