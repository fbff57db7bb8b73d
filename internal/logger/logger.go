// Package logger предоставляет утилиты для логирования HTTP-запросов и ответов.
// Включает обертку ResponseWriter для захвата метаданных ответа и создание zap логгеров.
package logger

import (
	"log"
	"net/http"

	"go.uber.org/zap"
)

// ResponseData содержит метаданные HTTP-ответа для логирования.
type ResponseData struct {
	// Status содержит HTTP-код ответа (например, 200, 404, 500).
	Status int

	// Size содержит общий размер тела ответа в байтах.
	Size int
}

// LoggingRW оборачивает стандартный http.ResponseWriter для захвата метрик ответа.
// Перехватывает вызовы Write и WriteHeader для сбора статистики без изменения поведения.
type LoggingRW struct {
	http.ResponseWriter
	// ResponseData указывает на структуру для накопления метаданных ответа.
	ResponseData *ResponseData
}

// Write записывает данные в ответ и обновляет накопленный размер в ResponseData.
func (r *LoggingRW) Write(b []byte) (int, error) {
	size, err := r.ResponseWriter.Write(b)
	r.ResponseData.Size += size
	return size, err
}

// WriteHeader устанавливает HTTP-код ответа и сохраняет его в ResponseData.
func (r *LoggingRW) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.ResponseData.Status = statusCode
}

// NewLogger создает и возвращает настроенный zap.SugaredLogger для development окружения.
func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}

	return logger.Sugar()
}
