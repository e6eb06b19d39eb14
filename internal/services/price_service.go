package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"go-desktop-todo/internal/apperrors"
	"go-desktop-todo/internal/config"
	"go-desktop-todo/internal/models"
)

// priceMonths は返す月数です。
const priceMonths = 6

// PriceService は月次の株価時系列を取得し、チャート用に整形します。
type PriceService struct {
	client   *http.Client
	baseURL  string
	symbol   string
	apiKey   string
	fallback bool
}

// NewPriceService は新しいPriceServiceを作成します。
func NewPriceService(cfg config.PricesConfig) *PriceService {
	return &PriceService{
		client:   &http.Client{Timeout: cfg.Timeout},
		baseURL:  cfg.URL,
		symbol:   cfg.Symbol,
		apiKey:   cfg.APIKey,
		fallback: cfg.Fallback,
	}
}

// DemoData は固定のデモ用データを返します。
func DemoData() []models.ChartData {
	return []models.ChartData{
		{Label: "Jan", Value: 65},
		{Label: "Feb", Value: 45},
		{Label: "Mar", Value: 80},
		{Label: "Apr", Value: 30},
		{Label: "May", Value: 55},
		{Label: "Jun", Value: 70},
	}
}

// GetPrices は直近6か月の終値を古い順に返します。
// fallbackが有効な場合、取得に失敗するとデモ用データを返します。
func (s *PriceService) GetPrices(ctx context.Context) ([]models.ChartData, error) {
	prices, err := s.fetch(ctx)
	if err != nil {
		if s.fallback {
			log.Printf("Failed to fetch prices, using demo data: %v", err)
			return DemoData(), nil
		}
		return nil, err
	}
	return prices, nil
}

func (s *PriceService) fetch(ctx context.Context) ([]models.ChartData, error) {
	q := url.Values{}
	q.Set("function", "TIME_SERIES_MONTHLY")
	q.Set("symbol", s.symbol)
	q.Set("apikey", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, apperrors.E(apperrors.KindNetwork, "could not build price request", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.E(apperrors.KindNetwork, "could not fetch prices", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.E(apperrors.KindNetwork, "could not read price response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.E(apperrors.KindDecode, "unexpected price response", fmt.Errorf("status %d", resp.StatusCode))
	}

	return ParseMonthlySeries(body)
}

// ParseMonthlySeries は "Monthly Time Series" から直近6か月の終値を取り出します。
// 終値が数値でない場合は0として扱います。
func ParseMonthlySeries(body []byte) ([]models.ChartData, error) {
	if !gjson.ValidBytes(body) {
		return nil, apperrors.E(apperrors.KindDecode, "could not decode price response", fmt.Errorf("invalid JSON"))
	}

	series := gjson.GetBytes(body, "Monthly Time Series")
	if !series.IsObject() {
		// レート制限時は "Note" や "Information" だけが返る
		msg := gjson.GetBytes(body, "Note").String()
		if msg == "" {
			msg = gjson.GetBytes(body, "Information").String()
		}
		if msg == "" {
			msg = gjson.GetBytes(body, "Error Message").String()
		}
		if msg == "" {
			msg = "missing monthly time series"
		}
		return nil, apperrors.E(apperrors.KindDecode, "could not decode price response", fmt.Errorf("%s", msg))
	}

	type point struct {
		date  string
		close gjson.Result
	}
	var points []point
	series.ForEach(func(key, value gjson.Result) bool {
		points = append(points, point{date: key.String(), close: value.Get(`4\. close`)})
		return true
	})

	// 日付 (YYYY-MM-DD) は文字列比較で並べられる
	sort.Slice(points, func(i, j int) bool { return points[i].date > points[j].date })
	if len(points) > priceMonths {
		points = points[:priceMonths]
	}

	data := make([]models.ChartData, 0, len(points))
	for i := len(points) - 1; i >= 0; i-- {
		p := points[i]
		value, err := strconv.ParseFloat(p.close.String(), 64)
		if err != nil {
			value = 0
		}
		data = append(data, models.ChartData{Label: monthLabel(p.date), Value: value})
	}
	return data, nil
}

func monthLabel(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Jan")
}
