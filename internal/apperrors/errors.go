// Package apperrors はアプリケーション内部で使うエラー分類を提供します。
// UIへはMessageで1行のテキストに変換してから渡します。
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind はエラーの種類を表します。
type Kind string

const (
	KindUnknown        Kind = "UNKNOWN"
	KindStorage        Kind = "STORAGE"
	KindNetwork        Kind = "NETWORK"
	KindDecode         Kind = "DECODE"
	KindNotFound       Kind = "NOT_FOUND"
	KindInvalidParams  Kind = "INVALID_PARAMS"
	KindUnknownCommand Kind = "UNKNOWN_COMMAND"
)

// Error は種類と操作名を持つエラーです。
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	case e.Op != "":
		return e.Op
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is は同じKindの*Errorとの比較を許可します。errors.Is(err, apperrors.ErrNotFound) のように使います。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// 比較用の番兵エラー
var (
	ErrStorage        = &Error{Kind: KindStorage}
	ErrNetwork        = &Error{Kind: KindNetwork}
	ErrDecode         = &Error{Kind: KindDecode}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrInvalidParams  = &Error{Kind: KindInvalidParams}
	ErrUnknownCommand = &Error{Kind: KindUnknownCommand}
)

// E は新しい*Errorを作成します。
func E(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Storage はストレージ層のエラーをラップします。
func Storage(op string, err error) *Error {
	return E(KindStorage, op, err)
}

// NotFound は対象が存在しないことを表すエラーを作成します。
func NotFound(what string) *Error {
	return E(KindNotFound, "", fmt.Errorf("%s not found", what))
}

// InvalidParams はパラメータ不正のエラーを作成します。
func InvalidParams(format string, args ...any) *Error {
	return E(KindInvalidParams, "invalid params", fmt.Errorf(format, args...))
}

// KindOf はerrのKindを返します。*Errorでない場合はKindUnknownです。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message はエラーをUIに返す1行のテキストに変換します。
func Message(err error) string {
	if err == nil {
		return ""
	}
	return strings.ReplaceAll(err.Error(), "\n", " ")
}
