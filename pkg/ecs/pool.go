// Package ecs 提供背景动画实体的存储
//
// 与通用的 EntityID → 组件映射不同，背景动画只有少量固定的实体类型，
// 每种类型的实体以值的形式连续存放，更新和绘制都是对切片的线性遍历。
package ecs

// Pool 是单一实体类型的连续存储（arena）
//
// 重生（respawn）时直接覆写槽位字段，不产生新的堆分配；
// 移除过期实体时原地压缩，保持剩余实体的相对顺序（绘制顺序因此稳定）。
type Pool[T any] struct {
	items []T
	max   int // 0 表示不限制
}

// NewPool 创建一个 Pool
// 参数:
//   - capacity: 预分配容量
//   - max: 最大存活数量，0 表示不限制
func NewPool[T any](capacity, max int) *Pool[T] {
	if max > 0 && capacity > max {
		capacity = max
	}
	if capacity < 0 {
		capacity = 0
	}
	return &Pool[T]{
		items: make([]T, 0, capacity),
		max:   max,
	}
}

// Len 返回存活实体数量
func (p *Pool[T]) Len() int {
	return len(p.items)
}

// Full 报告是否已达到上限
func (p *Pool[T]) Full() bool {
	return p.max > 0 && len(p.items) >= p.max
}

// Spawn 追加一个零值槽位并返回其指针，已满时返回 nil
// 返回的指针在下一次 Spawn/RemoveIf 之前有效
func (p *Pool[T]) Spawn() *T {
	if p.Full() {
		return nil
	}
	var zero T
	p.items = append(p.items, zero)
	return &p.items[len(p.items)-1]
}

// Items 返回底层切片，调用方不得追加元素
func (p *Pool[T]) Items() []T {
	return p.items
}

// Each 按存储顺序遍历所有实体
func (p *Pool[T]) Each(fn func(i int, item *T)) {
	for i := range p.items {
		fn(i, &p.items[i])
	}
}

// RemoveIf 删除满足条件的实体，返回删除数量
// 原地压缩，不分配新切片
func (p *Pool[T]) RemoveIf(dead func(item *T) bool) int {
	kept := 0
	for i := range p.items {
		if dead(&p.items[i]) {
			continue
		}
		if kept != i {
			p.items[kept] = p.items[i]
		}
		kept++
	}
	removed := len(p.items) - kept

	// 清空尾部槽位，避免残留数据
	var zero T
	for i := kept; i < len(p.items); i++ {
		p.items[i] = zero
	}
	p.items = p.items[:kept]
	return removed
}

// Reset 丢弃所有实体，保留已分配容量
func (p *Pool[T]) Reset() {
	var zero T
	for i := range p.items {
		p.items[i] = zero
	}
	p.items = p.items[:0]
}
