// Package models 网站 API 的数据记录与校验规则
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ContactStatus 联系请求的处理状态
type ContactStatus string

const (
	StatusNew        ContactStatus = "new"
	StatusContacted  ContactStatus = "contacted"
	StatusInProgress ContactStatus = "in-progress"
	StatusCompleted  ContactStatus = "completed"
)

// ContactStatuses 全部合法状态
var ContactStatuses = []ContactStatus{StatusNew, StatusContacted, StatusInProgress, StatusCompleted}

// ErrInvalidStatus 状态不在枚举范围内
var ErrInvalidStatus = errors.New("invalid contact status")

// Valid 报告状态是否合法
func (s ContactStatus) Valid() bool {
	for _, v := range ContactStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseContactStatus 解析状态字符串
func ParseContactStatus(s string) (ContactStatus, error) {
	st := ContactStatus(strings.TrimSpace(s))
	if !st.Valid() {
		return "", fmt.Errorf("%w %q: must be one of new, contacted, in-progress, completed", ErrInvalidStatus, s)
	}
	return st, nil
}

// Contact 联系表单提交记录
type Contact struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Phone       string        `json:"phone"`
	Email       string        `json:"email"`
	Service     string        `json:"service,omitempty"`
	Requirement string        `json:"requirement,omitempty"`
	Status      ContactStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// ContactInput 联系表单请求体
type ContactInput struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Service     string `json:"service"`
	Requirement string `json:"requirement"`
}

// Normalize 去除首尾空白，邮箱转小写
func (in ContactInput) Normalize() ContactInput {
	return ContactInput{
		Name:        strings.TrimSpace(in.Name),
		Phone:       strings.TrimSpace(in.Phone),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Service:     strings.TrimSpace(in.Service),
		Requirement: strings.TrimSpace(in.Requirement),
	}
}

// Missing 返回缺失的必填字段名（按 name, phone, email 顺序）
func (in ContactInput) Missing() []string {
	n := in.Normalize()
	var missing []string
	if n.Name == "" {
		missing = append(missing, "name")
	}
	if n.Phone == "" {
		missing = append(missing, "phone")
	}
	if n.Email == "" {
		missing = append(missing, "email")
	}
	return missing
}

// NewContact 由表单构造记录，状态为 new
// 调用方应先检查 Missing()
func NewContact(in ContactInput, id string, now time.Time) Contact {
	n := in.Normalize()
	return Contact{
		ID:          id,
		Name:        n.Name,
		Phone:       n.Phone,
		Email:       n.Email,
		Service:     n.Service,
		Requirement: n.Requirement,
		Status:      StatusNew,
		CreatedAt:   now.UTC(),
	}
}
