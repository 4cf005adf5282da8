package database

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"NoRows", sql.ErrNoRows, ErrNotFound},
		{"UniqueViolation", &pq.Error{Code: "23505"}, ErrDuplicate},
		{"ForeignKeyViolation", &pq.Error{Code: "23503"}, ErrReferenced},
		{"CheckViolation", &pq.Error{Code: "23514", Message: "violates check constraint \"payments_amount_check\""}, ErrInvalidValue},
		{"NumericOutOfRange", &pq.Error{Code: "22003", Message: "numeric field overflow"}, ErrInvalidValue},
		{"StringTooLong", &pq.Error{Code: "22001", Message: "value too long for type character varying(255)"}, ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translateError(tt.err), tt.want)
		})
	}

	t.Run("OtherErrorsPassThrough", func(t *testing.T) {
		err := errors.New("connection reset")
		assert.Equal(t, err, translateError(err))
		assert.Nil(t, translateError(nil))
	})
}
