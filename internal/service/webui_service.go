package service

import (
	"context"
	"net/http"
	"net/url"
	"rollingdice-go/internal/model"
	"rollingdice-go/pkg/log"
	"strconv"
	"strings"
)

// RollParams 是 webui 转发给 webapi 的参数。
// sleep/loop/error 保持原始字符串，由 webapi 负责校验。
type RollParams struct {
	Sleep *string
	Loop  *string
	Error *string
	Value *int
}

// Query 将非 nil 的 sleep/loop/error 转换为查询参数。
func (p RollParams) Query() url.Values {
	q := url.Values{}
	if p.Sleep != nil {
		q.Set("sleep", *p.Sleep)
	}
	if p.Loop != nil {
		q.Set("loop", *p.Loop)
	}
	if p.Error != nil {
		q.Set("error", *p.Error)
	}
	return q
}

// DiceAPIClient 是 webapi 的调用方接口，由 pkg/diceapi.Client 实现。
type DiceAPIClient interface {
	Roll(ctx context.Context, query url.Values, body *model.DiceValue) (*model.DiceValue, error)
	List(ctx context.Context) ([]model.DiceHistory, error)
}

// WebUIService 定义了页面渲染所需的聚合操作。
// 上游调用失败时返回降级值，不向页面传播错误。
type WebUIService interface {
	CallRollDiceAPI(ctx context.Context, params RollParams) string
	CallListDiceAPI(ctx context.Context) []model.DiceHistory
	CurrentURL(r *http.Request) string
}

type webUIService struct {
	client DiceAPIClient
}

// NewWebUIService 创建一个新的 WebUIService。
func NewWebUIService(client DiceAPIClient) WebUIService {
	return &webUIService{client: client}
}

// CallRollDiceAPI 调用掷骰 API，失败时返回 "0"。
func (s *webUIService) CallRollDiceAPI(ctx context.Context, params RollParams) string {
	log.Op("WebUIService.CallRollDiceAPI")

	var body *model.DiceValue
	if params.Value != nil {
		v := model.NewDiceValue(*params.Value)
		body = &v
	}

	result, err := s.client.Roll(ctx, params.Query(), body)
	if err != nil {
		log.Error("[WebUIService] 调用掷骰 API 失败", err)
		return "0"
	}
	if result == nil || result.Value == nil {
		log.Errorf("[WebUIService] 掷骰 API 返回了空的出目")
		return "0"
	}

	dice := strconv.Itoa(*result.Value)
	log.Infof("[WebUIService] The value of dice is: '%s'", dice)
	return dice
}

// CallListDiceAPI 调用出目履历 API，失败时返回空列表。
func (s *webUIService) CallListDiceAPI(ctx context.Context) []model.DiceHistory {
	log.Op("WebUIService.CallListDiceAPI")

	list, err := s.client.List(ctx)
	if err != nil {
		log.Error("[WebUIService] 调用出目履历 API 失败", err)
		return []model.DiceHistory{}
	}
	if list == nil {
		return []model.DiceHistory{}
	}
	log.Infof("[WebUIService] The number of dice history is: %d", len(list))
	return list
}

// CurrentURL 返回当前请求的绝对 URL（不含查询参数）。
func (s *webUIService) CurrentURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}

	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}

	u := url.URL{Scheme: scheme, Host: host, Path: r.URL.Path}
	log.Infof("[WebUIService] The current URL is: '%s'", u.String())
	return u.String()
}
