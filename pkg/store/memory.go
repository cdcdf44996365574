package store

import (
	"context"
	"sync"
)

// Memory 进程内存储，用于开发和测试
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]Document
}

// NewMemory 创建空的内存存储
func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]Document)}
}

func (m *Memory) Put(_ context.Context, collection string, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.data[collection]
	if c == nil {
		c = make(map[string]Document)
		m.data[collection] = c
	}
	if old, ok := c[doc.ID]; ok {
		doc.CreatedAt = old.CreatedAt
	}
	doc.Body = append([]byte(nil), doc.Body...)
	c[doc.ID] = doc
	return nil
}

func (m *Memory) Replace(_ context.Context, collection string, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.data[collection][doc.ID]
	if !ok {
		return ErrNotFound
	}
	doc.CreatedAt = old.CreatedAt
	doc.Body = append([]byte(nil), doc.Body...)
	m.data[collection][doc.ID] = doc
	return nil
}

func (m *Memory) Get(_ context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.data[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	doc.Body = append([]byte(nil), doc.Body...)
	return doc, nil
}

func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[collection][id]; !ok {
		return ErrNotFound
	}
	delete(m.data[collection], id)
	return nil
}

func (m *Memory) List(_ context.Context, collection string) ([]Document, error) {
	m.mu.RLock()
	docs := make([]Document, 0, len(m.data[collection]))
	for _, doc := range m.data[collection] {
		doc.Body = append([]byte(nil), doc.Body...)
		docs = append(docs, doc)
	}
	m.mu.RUnlock()
	sortNewestFirst(docs)
	return docs, nil
}

func (m *Memory) Close() error { return nil }
