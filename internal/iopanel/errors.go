package iopanel

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"

	"github.com/custodymetrics/custodypanel/pkg/errcode"
)

func CapacityReadError(path string, err error) error {
	msg := "Cannot read capacity file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PanelCapacityReadError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot read %s: %w",
			fn, path, err),
	}
}

func CapacityParseError(path string, err error) error {
	msg := "Cannot parse capacity file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PanelCapacityReadError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot parse %s: %w",
			fn, path, err),
	}
}

func DeathsReadError(path string, err error) error {
	msg := "Cannot read deaths file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PanelDeathsReadError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot read %s: %w",
			fn, path, err),
	}
}

func DeathsParseError(path string, err error) error {
	msg := "Cannot parse deaths file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PanelDeathsReadError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot parse %s: %w",
			fn, path, err),
	}
}

func FitsReadError(path string, err error) error {
	msg := "Cannot read model table <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ModelTableReadError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot read %s: %w",
			fn, path, err),
	}
}

func FitsParseError(path string, err error) error {
	msg := "Cannot parse model table <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ModelTableReadError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot parse %s: %w",
			fn, path, err),
	}
}

func CoefficientsParseError(path, outcome string, err error) error {
	msg := "Cannot parse coefficients for <em>%s</em> in %s"
	vars := []any{outcome, path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ModelCoefficientsParseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: outcome %s: %w",
			fn, outcome, err),
	}
}

func NoFitsError(path string) error {
	msg := "Model table <em>%s</em> has no outcomes"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ModelNoFitsError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: no outcomes in %s", fn, path),
	}
}

func PanelWriteError(path string, err error) error {
	msg := "Cannot write <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PanelWriteError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot write %s: %w",
			fn, path, err),
	}
}

func ProjectionWriteError(path string, err error) error {
	msg := "Cannot write projection <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ProjectWriteError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot write %s: %w",
			fn, path, err),
	}
}
