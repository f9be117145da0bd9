package comparer

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// ImportGenerated ignora os campos que cada import regenera do zero:
// ids e timestamps vêm do run, nunca do arquivo fonte.
func ImportGenerated[T any]() cmp.Option {
	var t T
	return cmpopts.IgnoreFields(t, "ID", "CreatedAt", "UpdatedAt")
}

func IgnoreFieldsFor[T any](fields ...string) cmp.Option {
	var t T
	return cmpopts.IgnoreFields(t, fields...)
}
