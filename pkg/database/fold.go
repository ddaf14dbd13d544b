package database

import (
	"database/sql/driver"
	"fmt"

	gosqlite "github.com/glebarez/go-sqlite"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// FoldFunc is the SQL function that case-folds text on the sqlite store.
// SQLite's own LOWER only folds ASCII.
const FoldFunc = "fold"

func init() {
	gosqlite.MustRegisterDeterministicScalarFunction(FoldFunc, 1, foldValue)
}

// Fold applies full Unicode case folding.
func Fold(s string) string {
	return cases.Fold().String(s)
}

func foldValue(_ *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return Fold(v), nil
	case []byte:
		return Fold(string(v)), nil
	default:
		return Fold(fmt.Sprint(v)), nil
	}
}

// FoldExpr wraps a SQL expression in the store's case-folding function.
func FoldExpr(db *gorm.DB, expr string) string {
	if db.Dialector.Name() == DriverPostgres {
		return "LOWER(" + expr + ")"
	}
	return FoldFunc + "(" + expr + ")"
}
