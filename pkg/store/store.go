// Package store 文档存储：按集合保存 JSON 文档，并在其上提供联系请求和博客的仓库操作
//
// 存储驱动只负责按 (collection, id) 读写不透明的 JSON 字节；
// 排序、过滤和分页由 Repository 完成。
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrNotFound 文档不存在
var ErrNotFound = errors.New("document not found")

// 集合名
const (
	CollectionContacts = "contacts"
	CollectionBlogs    = "blogs"
)

// Document 驱动中保存的一条文档
type Document struct {
	ID        string
	Body      []byte
	CreatedAt time.Time
}

// Documents 存储驱动
//
// Put 按 id 插入或覆盖；覆盖时保留原 CreatedAt。
// Replace 只覆盖已存在的文档，文档不存在时返回 ErrNotFound，不会重新创建。
// List 返回集合内全部文档，按 CreatedAt 从新到旧排列。
type Documents interface {
	Put(ctx context.Context, collection string, doc Document) error
	Replace(ctx context.Context, collection string, doc Document) error
	Get(ctx context.Context, collection, id string) (Document, error)
	Delete(ctx context.Context, collection, id string) error
	List(ctx context.Context, collection string) ([]Document, error)
	Close() error
}

// 驱动名
const (
	DriverSQLite = "sqlite"
	DriverGData  = "gdata"
	DriverMemory = "memory"
)

// Options 打开驱动所需参数
type Options struct {
	Driver  string
	Path    string // sqlite 数据库文件
	AppName string // gdata 应用名
}

// Open 按驱动名打开存储
func Open(opts Options) (Documents, error) {
	switch opts.Driver {
	case DriverSQLite:
		return OpenSQLite(opts.Path)
	case DriverGData:
		return OpenGData(opts.AppName)
	case DriverMemory, "":
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
}

// sortNewestFirst CreatedAt 降序，相同时按 id 降序保证顺序稳定
func sortNewestFirst(docs []Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].ID > docs[j].ID
		}
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
}
