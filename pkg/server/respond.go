package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxBodyBytes 请求体上限
const maxBodyBytes = 1 << 20

// APIError 错误响应体
type APIError struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// MessageResponse 只带提示信息的响应体
type MessageResponse struct {
	Message string `json:"message"`
}

// writeError 写错误响应；5xx 的原因挂到 c.Errors，由请求日志输出
func writeError(c *gin.Context, status int, msg string, err error) {
	body := APIError{Error: msg}
	if err != nil {
		body.Message = err.Error()
		if status >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
	}
	c.JSON(status, body)
}

// decodeBody 解码 JSON 请求体，空体视为 {}
func decodeBody(c *gin.Context, v any) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
