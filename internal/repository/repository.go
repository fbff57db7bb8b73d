package repository

import (
	"errors"
	"sync"
)

// ErrNotFound возвращается при обращении к несуществующему идентификатору.
var ErrNotFound = errors.New("item not found")

// Storage описывает CRUD-операции хранилища элементов.
type Storage interface {
	Create(name string) int
	Get(id int) (string, error)
	Update(id int, name string) error
	Delete(id int) error
}

// MemStorage хранит элементы в памяти. Доступ ко всей карте сериализуется
// одним мьютексом; более тонкая блокировка при ожидаемой нагрузке не нужна.
//
// Идентификаторы выдаются монотонно растущим счётчиком и после удаления
// не переиспользуются, поэтому множество id может содержать пропуски.
type MemStorage struct {
	mu    sync.Mutex
	items map[int]string
	seq   int
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		items: make(map[int]string),
	}
}

// Create сохраняет элемент и возвращает присвоенный идентификатор.
func (m *MemStorage) Create(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	m.items[m.seq] = name
	return m.seq
}

// Get возвращает имя элемента по идентификатору.
func (m *MemStorage) Get(id int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name, ok := m.items[id]
	if !ok {
		return "", ErrNotFound
	}
	return name, nil
}

// Update заменяет имя существующего элемента.
func (m *MemStorage) Update(id int, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	m.items[id] = name
	return nil
}

// Delete удаляет элемент. Повторное удаление того же id снова вернёт ErrNotFound.
func (m *MemStorage) Delete(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// Len возвращает текущее число элементов.
func (m *MemStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
