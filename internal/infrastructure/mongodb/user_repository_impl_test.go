package mongodb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/chirper/internal/domain/repository"
)

func dupKeyErr(index string) error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: "E11000 duplicate key error collection: chirper.users index: " + index + " dup key",
	}}}
}

func TestDupErr(t *testing.T) {
	assert.ErrorIs(t, dupErr(dupKeyErr("email_1")), repository.ErrDuplicateEmail)
	assert.ErrorIs(t, dupErr(dupKeyErr("username_1")), repository.ErrDuplicateUsername)

	// Unrecognized index still reports a duplicate rather than leaking the
	// raw server error.
	assert.ErrorIs(t, dupErr(dupKeyErr("other_1")), repository.ErrDuplicateEmail)
}

func TestDupErr_Passthrough(t *testing.T) {
	plain := errors.New("connection reset")
	assert.Equal(t, plain, dupErr(plain))
	assert.NoError(t, dupErr(nil))
}
