// Package audit реализует систему аудита операций над элементами.
// Использует паттерн Observer для уведомления подписчиков о мутирующих
// операциях (создание, обновление, удаление элемента).
package audit

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/levinOo/go-items-service/internal/models"
)

// Consumer определяет интерфейс потребителя событий аудита.
// Реализации обрабатывают события различными способами
// (запись в файл, отправка по HTTP и т.д.).
type Consumer interface {
	// Update обрабатывает событие аудита.
	Update(event models.AuditEvent)
}

// Auditer координирует отправку событий аудита зарегистрированным подписчикам.
type Auditer struct {
	clients []Consumer
}

// RegisterClient добавляет нового подписчика в список получателей уведомлений.
func (a *Auditer) RegisterClient(c Consumer) {
	a.clients = append(a.clients, c)
}

// NotifyClients отправляет событие всем зарегистрированным подписчикам.
func (a *Auditer) NotifyClients(event models.AuditEvent) {
	for _, client := range a.clients {
		client.Update(event)
	}
}

// FileAuditer записывает события аудита в JSON файл.
type FileAuditer struct {
	path string
}

// NewFileAuditer создаёт FileAuditer для записи в указанный файл.
func NewFileAuditer(path string) *FileAuditer {
	return &FileAuditer{
		path: path,
	}
}

// Update добавляет новое событие аудита в файл.
// Читает существующие события, добавляет новое и перезаписывает файл.
// Отсутствующий или пустой файл начинает новый список событий.
// Если путь пустой, операция пропускается.
func (a *FileAuditer) Update(event models.AuditEvent) {
	if a.path == "" {
		return
	}

	var eventList models.AuditEventList

	fileData, err := os.ReadFile(a.path)
	if err != nil && !os.IsNotExist(err) {
		log.Printf("failed to read file %s: %v", a.path, err)
		return
	}

	if len(fileData) > 0 {
		if err := json.Unmarshal(fileData, &eventList); err != nil {
			log.Printf("json.Unmarshal error: %v", err)
			return
		}
	}

	eventList.Events = append(eventList.Events, event)

	jsonData, err := json.Marshal(&eventList)
	if err != nil {
		log.Printf("json.Marshal error: %v", err)
		return
	}

	if err := os.WriteFile(a.path, jsonData, 0644); err != nil {
		log.Printf("write file error: %v", err)
		return
	}
}

// URLAuditer отправляет события аудита на внешний HTTP endpoint.
type URLAuditer struct {
	url string
}

// NewURLAuditer создаёт URLAuditer для отправки на указанный URL.
func NewURLAuditer(url string) *URLAuditer {
	return &URLAuditer{
		url: url,
	}
}

// Update отправляет событие методом POST в формате JSON.
// Если URL пустой, операция пропускается.
func (a *URLAuditer) Update(event models.AuditEvent) {
	if a.url == "" {
		return
	}

	jsonData, err := json.Marshal(event)
	if err != nil {
		log.Printf("json.Marshal error: %v", err)
		return
	}

	resp, err := http.Post(a.url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		log.Printf("HTTP POST request error: %v", err)
		return
	}
	defer resp.Body.Close()
}

// New создаёт Auditer с файловым и HTTP подписчиками.
// Пустые path и url отключают соответствующих подписчиков на уровне Update.
func New(path, url string) *Auditer {
	a := &Auditer{}
	a.RegisterClient(NewFileAuditer(path))
	a.RegisterClient(NewURLAuditer(url))
	return a
}

// NewEvent собирает событие аудита для операции над элементом
// с текущей временной меткой.
func NewEvent(action string, itemID int, ip string) models.AuditEvent {
	return models.AuditEvent{
		TS:     time.Now().Unix(),
		Action: action,
		ItemID: itemID,
		IP:     ip,
	}
}
