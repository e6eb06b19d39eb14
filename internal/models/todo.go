// Package modelsはTodoやチャートデータを定義します。
package models

// Todo はtodosテーブルの1行を表します。
type Todo struct {
	ID        int    `json:"id"`        // 主キー (自動採番)
	Title     string `json:"title"`     // タスクのタイトル（空文字も可）
	Completed bool   `json:"completed"` // 完了状態
}
