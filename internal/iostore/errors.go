package iostore

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"

	"github.com/custodymetrics/custodypanel/pkg/errcode"
)

func OpenError(path string, err error) error {
	msg := "Cannot open store <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreOpenError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot open %s: %w",
			fn, path, err),
	}
}

func MigrateError(err error) error {
	msg := "Cannot migrate store schema"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreMigrateError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: migration failed: %w", fn, err),
	}
}

func SaveError(what string, err error) error {
	msg := "Cannot save %s to the store"
	vars := []any{what}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreSaveError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot save %s: %w",
			fn, what, err),
	}
}

func LoadError(what string, err error) error {
	msg := "Cannot load %s from the store"
	vars := []any{what}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreLoadError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot load %s: %w",
			fn, what, err),
	}
}

func EmptyError(what string) error {
	msg := "The store has no %s yet, run the earlier phases first"
	vars := []any{what}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreEmptyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: no %s in store", fn, what),
	}
}
