package util

import "sync"

type Named interface {
	Name() string
}

type NamedPtr[T any] interface {
	Named
	*T
}

func NewHolder[T any, PT NamedPtr[T]]() *Holder[T, PT] {
	return &Holder[T, PT]{
		data: sync.Map{},
	}
}

type Holder[T any, PT NamedPtr[T]] struct {
	data sync.Map
}

func (h *Holder[T, PT]) Get(uid string) (*T, bool) {
	if v, ok := h.data.Load(uid); ok {
		if n, ok1 := v.(*T); ok1 {
			return n, true
		}
	}

	return nil, false
}

func (h *Holder[T, PT]) Add(c *T) {
	if c == nil {
		return
	}

	h.data.Store(PT(c).Name(), c)
}

func (h *Holder[T, PT]) Remove(name string) {
	h.data.Delete(name)
}

func (h *Holder[T, PT]) RemoveExec(name string, f func(c *T)) {
	if v, ok := h.data.LoadAndDelete(name); ok {
		if c, ok1 := v.(*T); ok1 {
			f(c)
		}
	}
}

func (h *Holder[T, PT]) All(f func(c *T) bool) {
	h.data.Range(func(_, value any) bool {
		if c, ok := value.(*T); ok {
			return f(c)
		}

		return true
	})
}
