package handler

import (
	"io"
	"net/http"
	"rollingdice-go/internal/config"
	"rollingdice-go/internal/model"
	"rollingdice-go/internal/service"
	"rollingdice-go/pkg/log"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Renderer 渲染指定名称的 HTML 页面，由 view.PageRenderer 实现。
type Renderer interface {
	RenderTemplate(w io.Writer, name string, data any) error
}

// PageHandler 负责渲染 webui 的首页。
type PageHandler struct {
	webUIService service.WebUIService
	renderer     Renderer
	faro         config.FaroConfig
}

// NewPageHandler 创建一个新的 PageHandler 实例。
func NewPageHandler(webUIService service.WebUIService, renderer Renderer, faro config.FaroConfig) *PageHandler {
	return &PageHandler{webUIService: webUIService, renderer: renderer, faro: faro}
}

// IndexPage 是 index.html 的模板数据。
type IndexPage struct {
	Dice       string
	List       []model.DiceHistory
	CurrentURL string
	Faro       config.FaroConfig
}

// Index 处理 GET /。上游 API 失败时页面仍然返回 200，只是显示降级值。
func (h *PageHandler) Index(c *gin.Context) {
	log.Op("PageHandler.Index")

	params := service.RollParams{
		Sleep: queryPtr(c, "sleep"),
		Loop:  queryPtr(c, "loop"),
		Error: queryPtr(c, "error"),
	}
	if raw, ok := c.GetQuery("value"); ok && strings.TrimSpace(raw) != "" {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			log.Warnf("Index: The value parameter is not an integer and was ignored: '%s'", raw)
		} else {
			params.Value = &v
		}
	}

	ctx := c.Request.Context()
	page := IndexPage{
		Dice:       h.webUIService.CallRollDiceAPI(ctx, params),
		List:       h.webUIService.CallListDiceAPI(ctx),
		CurrentURL: h.webUIService.CurrentURL(c.Request),
		Faro:       h.faro,
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.renderer.RenderTemplate(c.Writer, "index.html", page); err != nil {
		log.Error("Index: Failed to render page", err)
	}
}

// RegisterPageRoutes 注册 webui 的页面与静态资源路由。
func RegisterPageRoutes(r gin.IRouter, h *PageHandler, static http.FileSystem) {
	r.GET("/", h.Index)
	r.GET("/healthz", Healthz)
	r.StaticFS("/static", static)
}

func queryPtr(c *gin.Context, key string) *string {
	if v, ok := c.GetQuery(key); ok {
		return &v
	}
	return nil
}
