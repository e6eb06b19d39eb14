package models

// CommandResponse は更新系コマンドの共通レスポンスです。
type CommandResponse struct {
	Status string `json:"status"`
}

// OK は {"status":"ok"} を返します。
func OK() CommandResponse {
	return CommandResponse{Status: "ok"}
}
