// Package middleware 存放 Gin 框架的中间件。
package middleware

import (
	"bytes"
	"io"
	"net/http"
	"rollingdice-go/pkg/log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 是请求 ID 的 HTTP 头。
const RequestIDHeader = "X-Request-ID"

// maxLoggedBody 是日志中记录的请求体/响应体的最大字节数。
const maxLoggedBody = 2048

// bodyLogWriter 用于捕获响应体
type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write 实现了 io.Writer 接口，将响应写入 gin.ResponseWriter 和一个内部的 buffer
func (w bodyLogWriter) Write(b []byte) (int, error) {
	if w.body.Len() < maxLoggedBody {
		w.body.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// RequestLogger 是一个 Gin 中间件，记录请求的开始与结束，以及请求和响应的详细信息。
// 请求头中没有 X-Request-ID 时会生成一个新的 ID，并写回响应头。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("requestID", requestID)
		c.Header(RequestIDHeader, requestID)

		method := c.Request.Method
		path := c.Request.URL.Path
		log.Infof("[START] %s %s?%s (requestID=%s)", method, path, c.Request.URL.RawQuery, requestID)

		requestBody := peekBody(c.Request)

		// 使用自定义的 ResponseWriter 捕获响应
		blw := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()

		// HTML 和静态资源不记录响应体
		responseBody := ""
		if strings.HasPrefix(c.Writer.Header().Get("Content-Type"), "application/json") {
			responseBody = blw.body.String()
		}

		log.Infow("HTTP Request Log",
			"requestID", requestID,
			"statusCode", statusCode,
			"latency", latency.String(),
			"clientIP", c.ClientIP(),
			"method", method,
			"path", path,
			"requestBody", requestBody,
			"responseBody", responseBody,
		)
		log.Infof("[FINISH] %s %s -> %d in %s (requestID=%s)", method, path, statusCode, latency, requestID)
	}
}

// peekBody 读取请求体开头至多 maxLoggedBody 字节用于日志，
// 并把已读部分与剩余部分重新拼接为 r.Body，后续处理函数仍能读到完整内容。
func peekBody(r *http.Request) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}
	head, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody+1))
	r.Body = &replayBody{Reader: io.MultiReader(bytes.NewReader(head), r.Body), Closer: r.Body}

	if len(head) > maxLoggedBody {
		return string(head[:maxLoggedBody]) + "..."
	}
	return string(head)
}

// replayBody 读取拼接后的请求体，关闭时关闭原始请求体。
type replayBody struct {
	io.Reader
	io.Closer
}
