package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gonewx/martianblue/pkg/models"
)

// Page 分页结果
type Page struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// RepoOption 配置 Repository
type RepoOption func(*Repository)

// WithClock 替换时间源
func WithClock(now func() time.Time) RepoOption {
	return func(r *Repository) { r.now = now }
}

// WithIDs 替换 id 生成器
func WithIDs(newID func() string) RepoOption {
	return func(r *Repository) { r.newID = newID }
}

// WithRepoLogger 设置日志
func WithRepoLogger(logger *zap.Logger) RepoOption {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Repository 在文档驱动之上提供联系请求和博客的类型化操作
//
// 所有读-改-写操作（状态更新、文章更新、浏览计数）和删除由同一把锁串行化；
// 写回使用 Replace，文档在读取之后被其他进程删除时返回 ErrNotFound。
type Repository struct {
	docs   Documents
	now    func() time.Time
	newID  func() string
	logger *zap.Logger

	mu sync.Mutex
}

// NewRepository 创建仓库
func NewRepository(docs Documents, opts ...RepoOption) *Repository {
	r := &Repository{
		docs:   docs,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) put(ctx context.Context, collection, id string, createdAt time.Time, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	return r.docs.Put(ctx, collection, Document{ID: id, Body: body, CreatedAt: createdAt})
}

// replace 写回已存在的文档；文档已被删除时返回 ErrNotFound，不会重新创建
func (r *Repository) replace(ctx context.Context, collection, id string, createdAt time.Time, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	return r.docs.Replace(ctx, collection, Document{ID: id, Body: body, CreatedAt: createdAt})
}

func decode[T any](doc Document) (T, error) {
	var v T
	if err := json.Unmarshal(doc.Body, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", doc.ID, err)
	}
	return v, nil
}

func getTyped[T any](ctx context.Context, docs Documents, collection, id string) (T, error) {
	doc, err := docs.Get(ctx, collection, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](doc)
}

func listTyped[T any](ctx context.Context, docs Documents, collection string) ([]T, error) {
	list, err := docs.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(list))
	for _, doc := range list {
		v, err := decode[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ---- contacts ----

// CreateContact 保存一条联系请求，状态为 new
// 调用方应先用 ContactInput.Missing 检查必填字段
func (r *Repository) CreateContact(ctx context.Context, in models.ContactInput) (models.Contact, error) {
	c := models.NewContact(in, r.newID(), r.now())
	if err := r.put(ctx, CollectionContacts, c.ID, c.CreatedAt, c); err != nil {
		return models.Contact{}, err
	}
	r.logger.Info("contact created", zap.String("id", c.ID), zap.String("service", c.Service))
	return c, nil
}

// ListContacts 全部联系请求，新的在前
func (r *Repository) ListContacts(ctx context.Context) ([]models.Contact, error) {
	return listTyped[models.Contact](ctx, r.docs, CollectionContacts)
}

// GetContact 按 id 读取，不存在时返回 ErrNotFound
func (r *Repository) GetContact(ctx context.Context, id string) (models.Contact, error) {
	return getTyped[models.Contact](ctx, r.docs, CollectionContacts, id)
}

// UpdateContactStatus 更新处理状态
func (r *Repository) UpdateContactStatus(ctx context.Context, id string, status models.ContactStatus) (models.Contact, error) {
	if !status.Valid() {
		return models.Contact{}, fmt.Errorf("%w %q", models.ErrInvalidStatus, string(status))
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.GetContact(ctx, id)
	if err != nil {
		return models.Contact{}, err
	}
	c.Status = status
	if err := r.replace(ctx, CollectionContacts, c.ID, c.CreatedAt, c); err != nil {
		return models.Contact{}, err
	}
	r.logger.Info("contact status updated", zap.String("id", id), zap.String("status", string(status)))
	return c, nil
}

// DeleteContact 删除联系请求
func (r *Repository) DeleteContact(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs.Delete(ctx, CollectionContacts, id)
}

// ---- blogs ----

// CreateBlog 保存一篇文章并填入默认值
func (r *Repository) CreateBlog(ctx context.Context, in models.BlogInput) (models.Blog, error) {
	b, err := models.NewBlog(in, r.newID(), r.now())
	if err != nil {
		return models.Blog{}, err
	}
	if err := r.put(ctx, CollectionBlogs, b.ID, b.CreatedAt, b); err != nil {
		return models.Blog{}, err
	}
	r.logger.Info("blog created", zap.String("id", b.ID), zap.String("category", string(b.Category)))
	return b, nil
}

// ListBlogs 过滤、按创建时间倒序并分页
// Limit <= 0 时返回全部匹配项
func (r *Repository) ListBlogs(ctx context.Context, f models.BlogFilter) ([]models.Blog, Page, error) {
	all, err := listTyped[models.Blog](ctx, r.docs, CollectionBlogs)
	if err != nil {
		return nil, Page{}, err
	}
	matched := make([]models.Blog, 0, len(all))
	for i := range all {
		if f.Matches(&all[i]) {
			matched = append(matched, all[i])
		}
	}
	return paginate(matched, f.Limit, f.Page)
}

func paginate(items []models.Blog, limit, page int) ([]models.Blog, Page, error) {
	total := len(items)
	if limit <= 0 {
		return items, Page{Total: total, Page: 1, Pages: 1}, nil
	}
	if page < 1 {
		page = 1
	}
	p := Page{Total: total, Page: page, Pages: (total + limit - 1) / limit}
	start := (page - 1) * limit
	if start >= total {
		return []models.Blog{}, p, nil
	}
	end := min(start+limit, total)
	return items[start:end], p, nil
}

// GetBlog 按 id 读取，不改变浏览数
func (r *Repository) GetBlog(ctx context.Context, id string) (models.Blog, error) {
	return getTyped[models.Blog](ctx, r.docs, CollectionBlogs, id)
}

// IncrementViews 浏览数加一并返回更新后的文章
func (r *Repository) IncrementViews(ctx context.Context, id string) (models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := r.GetBlog(ctx, id)
	if err != nil {
		return models.Blog{}, err
	}
	b.Views++
	if err := r.replace(ctx, CollectionBlogs, b.ID, b.CreatedAt, b); err != nil {
		return models.Blog{}, err
	}
	return b, nil
}

// UpdateBlog 部分更新并刷新 UpdatedAt
func (r *Repository) UpdateBlog(ctx context.Context, id string, patch models.BlogPatch) (models.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := r.GetBlog(ctx, id)
	if err != nil {
		return models.Blog{}, err
	}
	if err := b.Apply(patch, r.now()); err != nil {
		return models.Blog{}, err
	}
	if err := r.replace(ctx, CollectionBlogs, b.ID, b.CreatedAt, b); err != nil {
		return models.Blog{}, err
	}
	r.logger.Info("blog updated", zap.String("id", id))
	return b, nil
}

// DeleteBlog 删除文章
func (r *Repository) DeleteBlog(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs.Delete(ctx, CollectionBlogs, id)
}
