// Package pool предоставляет обобщённый пул объектов T, ограниченных Reset().
// Используется для переиспользования короткоживущих объектов, создаваемых
// на каждый HTTP-запрос. Пример использования:
//
//	statusPool := pool.New[*instrument.Status](func() *instrument.Status { return &instrument.Status{} })
//	st := statusPool.Get()
//	// использовать st
//	statusPool.Put(st)
package pool

import (
	"sync"
)

// maxIdle ограничивает число объектов, удерживаемых пулом в простое.
const maxIdle = 1024

// Resettable ограничивает тип тем, у кого есть метод Reset().
// Reset обязан полностью очищать состояние объекта: объект, вернувшийся
// из пула, не должен нести данные предыдущего владельца.
type Resettable interface {
	Reset()
}

// Pool хранит объекты типа T, ограниченных Resettable.
// T обычно является указателем на структуру.
type Pool[T Resettable] struct {
	mu      sync.Mutex
	items   []T
	Factory func() T
}

// New создаёт новый Pool[T]. Фабрика должна возвращать новый экземпляр T.
func New[T Resettable](factory func() T) *Pool[T] {
	return &Pool[T]{Factory: factory}
}

// Get возвращает объект из пула. Если пул пуст, создаёт новый через фабрику.
func (p *Pool[T]) Get() T {
	p.mu.Lock()
	if n := len(p.items); n > 0 {
		v := p.items[n-1]
		p.items = p.items[:n-1]
		p.mu.Unlock()
		return v
	}
	p.mu.Unlock()

	if p.Factory != nil {
		return p.Factory()
	}
	var zero T
	return zero
}

// Put возвращает объект обратно в пул, предварительно вызвав Reset().
// Переполненный пул отбрасывает объект.
func (p *Pool[T]) Put(v T) {
	v.Reset()

	p.mu.Lock()
	if len(p.items) < maxIdle {
		p.items = append(p.items, v)
	}
	p.mu.Unlock()
}
