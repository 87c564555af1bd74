package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/erazemk/magasin/internal/model"
)

// ErrInvalid marks input rejected by a store function.
var ErrInvalid = errors.New("invalid input")

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func flexString(ns sql.NullString) model.Flex {
	if !ns.Valid {
		return ""
	}
	return model.Flex(ns.String)
}

func flexInt(ni sql.NullInt64) model.Flex {
	if !ni.Valid {
		return ""
	}
	return model.Flex(strconv.FormatInt(ni.Int64, 10))
}

func flexID(id int64) model.Flex {
	return model.Flex(strconv.FormatInt(id, 10))
}

// rowID parses a row id previously rendered by flexID.
func rowID(f model.Flex) (int64, error) {
	id, err := strconv.ParseInt(f.String(), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: row id %q", ErrInvalid, f.String())
	}
	return id, nil
}

func flexFloat(nf sql.NullFloat64) model.Flex {
	if !nf.Valid {
		return ""
	}
	return model.Flex(strconv.FormatFloat(nf.Float64, 'f', -1, 64))
}

// nullable maps blank strings to SQL NULL.
func nullable(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
