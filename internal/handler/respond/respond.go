// Package respond 统一了 API 的响应信封格式。
// 所有响应均为 {success, data, message} 结构，前端据 success 字段判定成败。
package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope 是所有 API 响应的统一信封。
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// OK 以 200 返回成功数据。
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// OKMessage 以 200 返回不带数据的成功消息。
func OKMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message})
}

// Created 以 201 返回新建资源。
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Error 以给定状态码返回失败信封。
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Message: message})
}

// Abort 返回失败信封并中止后续处理链，供中间件使用。
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}
