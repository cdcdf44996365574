package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// indexProp 每个集合对象下记录全部文档 id 与创建时间的属性名
const indexProp = "_index"

type indexEntry struct {
	ID        string    `yaml:"id"`
	CreatedAt time.Time `yaml:"createdAt"`
}

// GData 基于 quasilyte/gdata 的存储
//
// 集合对应 gdata 对象，文档 id 对应对象属性；
// gdata 没有列举属性的操作，因此每个集合额外维护一个 YAML 编码的 _index 属性。
type GData struct {
	mu sync.Mutex
	m  *gdata.Manager
}

// OpenGData 打开应用数据目录，目录不存在时由 gdata 创建
func OpenGData(appName string) (*GData, error) {
	if appName == "" {
		return nil, fmt.Errorf("gdata store: appName is required")
	}
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("gdata store: open %s: %w", appName, err)
	}
	return &GData{m: m}, nil
}

func (g *GData) loadIndex(collection string) ([]indexEntry, error) {
	if !g.m.ObjectPropExists(collection, indexProp) {
		return nil, nil
	}
	data, err := g.m.LoadObjectProp(collection, indexProp)
	if err != nil {
		return nil, fmt.Errorf("gdata store: load index %s: %w", collection, err)
	}
	var idx []indexEntry
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("gdata store: decode index %s: %w", collection, err)
	}
	return idx, nil
}

func (g *GData) saveIndex(collection string, idx []indexEntry) error {
	data, err := yaml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("gdata store: encode index %s: %w", collection, err)
	}
	if err := g.m.SaveObjectProp(collection, indexProp, data); err != nil {
		return fmt.Errorf("gdata store: save index %s: %w", collection, err)
	}
	return nil
}

func findEntry(idx []indexEntry, id string) int {
	for i, e := range idx {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (g *GData) Put(_ context.Context, collection string, doc Document) error {
	if doc.ID == indexProp {
		return fmt.Errorf("gdata store: reserved id %q", doc.ID)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	idx, err := g.loadIndex(collection)
	if err != nil {
		return err
	}
	if err := g.m.SaveObjectProp(collection, doc.ID, doc.Body); err != nil {
		return fmt.Errorf("gdata store: put %s/%s: %w", collection, doc.ID, err)
	}
	if findEntry(idx, doc.ID) >= 0 {
		return nil
	}
	idx = append(idx, indexEntry{ID: doc.ID, CreatedAt: doc.CreatedAt.UTC()})
	return g.saveIndex(collection, idx)
}

func (g *GData) Replace(_ context.Context, collection string, doc Document) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx, err := g.loadIndex(collection)
	if err != nil {
		return err
	}
	if findEntry(idx, doc.ID) < 0 || !g.m.ObjectPropExists(collection, doc.ID) {
		return ErrNotFound
	}
	if err := g.m.SaveObjectProp(collection, doc.ID, doc.Body); err != nil {
		return fmt.Errorf("gdata store: replace %s/%s: %w", collection, doc.ID, err)
	}
	return nil
}

func (g *GData) get(collection string, e indexEntry) (Document, error) {
	if !g.m.ObjectPropExists(collection, e.ID) {
		return Document{}, ErrNotFound
	}
	body, err := g.m.LoadObjectProp(collection, e.ID)
	if err != nil {
		return Document{}, fmt.Errorf("gdata store: get %s/%s: %w", collection, e.ID, err)
	}
	return Document{ID: e.ID, Body: body, CreatedAt: e.CreatedAt}, nil
}

func (g *GData) Get(_ context.Context, collection, id string) (Document, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx, err := g.loadIndex(collection)
	if err != nil {
		return Document{}, err
	}
	i := findEntry(idx, id)
	if i < 0 {
		return Document{}, ErrNotFound
	}
	return g.get(collection, idx[i])
}

func (g *GData) Delete(_ context.Context, collection, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx, err := g.loadIndex(collection)
	if err != nil {
		return err
	}
	i := findEntry(idx, id)
	if i < 0 {
		return ErrNotFound
	}
	if err := g.m.DeleteObjectProp(collection, id); err != nil {
		return fmt.Errorf("gdata store: delete %s/%s: %w", collection, id, err)
	}
	idx = append(idx[:i], idx[i+1:]...)
	return g.saveIndex(collection, idx)
}

func (g *GData) List(_ context.Context, collection string) ([]Document, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx, err := g.loadIndex(collection)
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(idx))
	for _, e := range idx {
		doc, err := g.get(collection, e)
		if errors.Is(err, ErrNotFound) {
			// 属性文件被外部删除，跳过
			continue
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	sortNewestFirst(docs)
	return docs, nil
}

func (g *GData) Close() error { return nil }
