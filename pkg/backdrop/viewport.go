package backdrop

import "sync"

// Viewport 画布所在的视口（对应浏览器窗口）
type Viewport interface {
	// Size 返回视口尺寸（像素）
	Size() (width, height int)

	// OnResize 注册尺寸变化回调，返回注销函数
	OnResize(fn func()) (remove func())
}

// StaticViewport 尺寸固定的视口
type StaticViewport struct {
	Width, Height int
}

// Size 实现 Viewport
func (v StaticViewport) Size() (int, int) {
	return v.Width, v.Height
}

// OnResize 实现 Viewport；尺寸不会变化，回调永远不会触发
func (v StaticViewport) OnResize(func()) func() {
	return func() {}
}

// ResizableViewport 可由宿主调整尺寸的视口
type ResizableViewport struct {
	mu        sync.Mutex
	width     int
	height    int
	nextID    int
	listeners map[int]func()
}

// NewResizableViewport 创建视口
func NewResizableViewport(width, height int) *ResizableViewport {
	return &ResizableViewport{
		width:     width,
		height:    height,
		listeners: make(map[int]func()),
	}
}

// Size 实现 Viewport
func (v *ResizableViewport) Size() (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

// OnResize 实现 Viewport
func (v *ResizableViewport) OnResize(fn func()) func() {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.listeners, id)
			v.mu.Unlock()
		})
	}
}

// Listeners 返回已注册的回调数量
func (v *ResizableViewport) Listeners() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.listeners)
}

// Resize 修改尺寸并通知监听者；尺寸未变化时不通知
// 回调在锁外执行
func (v *ResizableViewport) Resize(width, height int) {
	v.mu.Lock()
	if width == v.width && height == v.height {
		v.mu.Unlock()
		return
	}
	v.width, v.height = width, height
	fns := make([]func(), 0, len(v.listeners))
	for _, fn := range v.listeners {
		fns = append(fns, fn)
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
