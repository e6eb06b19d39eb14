package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go-desktop-todo/internal/apperrors"
)

// AddTodoParams は add_todo のパラメータです。
type AddTodoParams struct {
	Title *string `json:"title"`
}

func (p *AddTodoParams) validate() error {
	if p.Title == nil {
		return apperrors.InvalidParams("missing field `title`")
	}
	return nil
}

// UpdateTodoParams は update_todo のパラメータです。
type UpdateTodoParams struct {
	ID        *int    `json:"id"`
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (p *UpdateTodoParams) validate() error {
	switch {
	case p.ID == nil:
		return apperrors.InvalidParams("missing field `id`")
	case p.Title == nil:
		return apperrors.InvalidParams("missing field `title`")
	case p.Completed == nil:
		return apperrors.InvalidParams("missing field `completed`")
	}
	return nil
}

// DeleteTodoParams は delete_todo のパラメータです。get_todo でも使います。
type DeleteTodoParams struct {
	ID *int `json:"id"`
}

func (p *DeleteTodoParams) validate() error {
	if p.ID == nil {
		return apperrors.InvalidParams("missing field `id`")
	}
	return nil
}

// SaveCounterParams は save_counter のパラメータです。
type SaveCounterParams struct {
	Value *int `json:"value"`
}

func (p *SaveCounterParams) validate() error {
	if p.Value == nil {
		return apperrors.InvalidParams("missing field `value`")
	}
	return nil
}

type validator interface {
	validate() error
}

// withParams はJSONを型付きパラメータにデコードして検証してからfnを呼びます。
func withParams[P any, PT interface {
	*P
	validator
}](fn func(context.Context, *P) (any, error)) HandlerFunc {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var p P
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		if err := PT(&p).validate(); err != nil {
			return nil, err
		}
		return fn(ctx, &p)
	}
}

// noParams はパラメータを取らないコマンドです。渡されたパラメータは無視します。
func noParams(fn func(context.Context) (any, error)) HandlerFunc {
	return func(ctx context.Context, _ json.RawMessage) (any, error) {
		return fn(ctx)
	}
}

// decodeParams は {"title": ...} と {"params": {"title": ...}} の両方を受け付けます。
func decodeParams(raw json.RawMessage, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}

	var envelope struct {
		Params json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Params) > 0 && !bytes.Equal(envelope.Params, []byte("null")) {
		raw = envelope.Params
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return apperrors.InvalidParams("%v", err)
	}
	return nil
}

func errUnknown(name string) error {
	return fmt.Errorf("%q", name)
}
