// Package models содержит структуры данных, описывающие основные сущности предметной области.
// Пакет не содержит бизнес-логику и используется для передачи данных между слоями приложения.
package models

// Константы статусов операций над элементами.
const (
	// StatusCreated возвращается в ответе после успешного создания элемента.
	StatusCreated = "created"

	// StatusUpdated возвращается в ответе после успешного обновления элемента.
	StatusUpdated = "updated"

	// StatusDeleted возвращается в ответе после успешного удаления элемента.
	StatusDeleted = "deleted"
)

// ItemRequest представляет тело запроса на создание или обновление элемента.
type ItemRequest struct {
	// Name содержит имя элемента.
	Name string `json:"name"`
}

// ItemResponse представляет ответ сервера на операции с элементом.
// Поля Name и Status опциональны: чтение возвращает только ItemID и Name,
// удаление — только ItemID и Status.
type ItemResponse struct {
	// ItemID содержит идентификатор элемента, присвоенный хранилищем.
	ItemID int `json:"item_id"`

	// Name содержит текущее имя элемента.
	Name string `json:"name,omitempty"`

	// Status описывает выполненную операцию: "created", "updated" или "deleted".
	Status string `json:"status,omitempty"`
}

// AuditEvent представляет событие аудита с информацией об изменении элемента.
// Используется для логирования мутирующих операций.
type AuditEvent struct {
	// TS содержит временную метку события в формате Unix timestamp.
	TS int64 `json:"ts"`

	// Action описывает операцию: "created", "updated" или "deleted".
	Action string `json:"action"`

	// ItemID содержит идентификатор элемента, участвовавшего в операции.
	ItemID int `json:"item_id"`

	// IP содержит IP-адрес клиента, выполнившего операцию.
	IP string `json:"ip_address"`
}

// AuditEventList содержит список событий аудита для сериализации в файл.
type AuditEventList struct {
	Events []AuditEvent `json:"events"`
}
