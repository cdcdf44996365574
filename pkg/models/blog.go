package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultAuthor 未指定作者时使用
const DefaultAuthor = "Martian Blue Team"

// Category 博客分类
type Category string

const (
	CategoryCybersecurity Category = "Cybersecurity"
	CategoryPhishing      Category = "Phishing"
	CategorySecurityTips  Category = "Security Tips"
	CategoryNews          Category = "News"
	CategoryCaseStudies   Category = "Case Studies"
)

// Categories 全部合法分类
var Categories = []Category{
	CategoryCybersecurity,
	CategoryPhishing,
	CategorySecurityTips,
	CategoryNews,
	CategoryCaseStudies,
}

// ErrInvalidCategory 分类不在枚举范围内
var ErrInvalidCategory = errors.New("invalid blog category")

// ErrEmptyField 必填字段被更新为空
var ErrEmptyField = errors.New("required field must not be empty")

// Valid 报告分类是否合法
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

func checkCategory(c Category) error {
	if !c.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidCategory, string(c))
	}
	return nil
}

// Blog 博客文章
type Blog struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Category  Category  `json:"category"`
	Tags      []string  `json:"tags"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Published bool      `json:"published"`
	Views     int       `json:"views"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasTag 报告文章是否带有指定标签
func (b *Blog) HasTag(tag string) bool {
	for _, t := range b.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// BlogInput 创建文章的请求体
type BlogInput struct {
	Title     string   `json:"title"`
	Excerpt   string   `json:"excerpt"`
	Content   string   `json:"content"`
	Author    string   `json:"author"`
	Category  Category `json:"category"`
	Tags      []string `json:"tags"`
	ImageURL  string   `json:"imageUrl"`
	Published *bool    `json:"published"`
}

// Missing 返回缺失的必填字段名（按 title, excerpt, content 顺序）
func (in BlogInput) Missing() []string {
	var missing []string
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if in.Excerpt == "" {
		missing = append(missing, "excerpt")
	}
	if in.Content == "" {
		missing = append(missing, "content")
	}
	return missing
}

// NewBlog 由请求体构造文章并填入默认值
// 调用方应先检查 Missing()；分类非法时返回 ErrInvalidCategory
func NewBlog(in BlogInput, id string, now time.Time) (Blog, error) {
	b := Blog{
		ID:        id,
		Title:     strings.TrimSpace(in.Title),
		Excerpt:   in.Excerpt,
		Content:   in.Content,
		Author:    in.Author,
		Category:  in.Category,
		Tags:      in.Tags,
		ImageURL:  in.ImageURL,
		Published: true,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	if b.Author == "" {
		b.Author = DefaultAuthor
	}
	if b.Category == "" {
		b.Category = CategoryCybersecurity
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if in.Published != nil {
		b.Published = *in.Published
	}
	if err := checkCategory(b.Category); err != nil {
		return Blog{}, err
	}
	return b, nil
}

// BlogPatch 部分更新，只应用非 nil 字段
type BlogPatch struct {
	Title     *string   `json:"title"`
	Excerpt   *string   `json:"excerpt"`
	Content   *string   `json:"content"`
	Author    *string   `json:"author"`
	Category  *Category `json:"category"`
	Tags      *[]string `json:"tags"`
	ImageURL  *string   `json:"imageUrl"`
	Published *bool     `json:"published"`
}

// Apply 把补丁应用到文章上并刷新 UpdatedAt
// 校验失败时文章保持不变
func (b *Blog) Apply(p BlogPatch, now time.Time) error {
	next := *b
	if p.Title != nil {
		next.Title = strings.TrimSpace(*p.Title)
		if next.Title == "" {
			return fmt.Errorf("title: %w", ErrEmptyField)
		}
	}
	if p.Excerpt != nil {
		if *p.Excerpt == "" {
			return fmt.Errorf("excerpt: %w", ErrEmptyField)
		}
		next.Excerpt = *p.Excerpt
	}
	if p.Content != nil {
		if *p.Content == "" {
			return fmt.Errorf("content: %w", ErrEmptyField)
		}
		next.Content = *p.Content
	}
	if p.Author != nil {
		next.Author = *p.Author
	}
	if p.Category != nil {
		if err := checkCategory(*p.Category); err != nil {
			return err
		}
		next.Category = *p.Category
	}
	if p.Tags != nil {
		next.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.ImageURL != nil {
		next.ImageURL = *p.ImageURL
	}
	if p.Published != nil {
		next.Published = *p.Published
	}
	next.UpdatedAt = now.UTC()
	*b = next
	return nil
}

// BlogFilter 文章列表查询条件
type BlogFilter struct {
	Category      string
	Tag           string
	PublishedOnly bool
	Limit         int // <= 0 表示不分页
	Page          int // 从 1 开始
}

// Matches 报告文章是否满足过滤条件（不含分页）
func (f BlogFilter) Matches(b *Blog) bool {
	if f.PublishedOnly && !b.Published {
		return false
	}
	if f.Category != "" && string(b.Category) != f.Category {
		return false
	}
	if f.Tag != "" && !b.HasTag(f.Tag) {
		return false
	}
	return true
}
