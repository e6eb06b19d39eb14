package models

// ChartData はチャートの1点です。Labelは月 (例: "Jan")。
type ChartData struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}
