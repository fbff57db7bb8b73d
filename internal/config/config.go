// Package config предоставляет функциональность для управления конфигурацией приложения.
// Поддерживает загрузку настроек из переменных окружения, флагов командной строки
// и JSON-файла, с приоритетом: переменные окружения, затем флаги, затем файл.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"
)

// ConfigStruct описывает формат JSON-файла конфигурации.
type ConfigStruct struct {
	Addr           string `json:"address"`
	SampleInterval int    `json:"sample_interval"`
	AuditFile      string `json:"audit_file"`
	AuditURL       string `json:"audit_url"`
}

// Config содержит все параметры конфигурации сервиса элементов.
type Config struct {
	// Addr задает адрес и порт HTTP-сервера (например, "localhost:8080").
	Addr string `env:"ADDRESS"`

	// SampleInterval определяет интервал в секундах между фоновыми снятиями
	// показателей хоста. Значение 0 отключает фоновое снятие: показатели
	// обновляются только в момент запроса /metrics.
	SampleInterval int `env:"SAMPLE_INTERVAL"`

	// AuditFile указывает путь к файлу для записи событий аудита.
	// Пустое значение отключает файловый аудит.
	AuditFile string `env:"AUDIT_FILE"`

	// AuditURL содержит URL для отправки событий аудита на внешний сервис.
	// Пустое значение отключает отправку.
	AuditURL string `env:"AUDIT_URL"`

	ConfigFilePath string `env:"CONFIG"`
}

func NewConfigStruct() *ConfigStruct {
	return &ConfigStruct{}
}

// GetConfig загружает и возвращает конфигурацию приложения.
//
// Поддерживаемые флаги:
//
//	-a: адрес сервера (по умолчанию "localhost:8080")
//	-i: интервал фонового снятия показателей хоста в секундах (по умолчанию "0")
//	-p: путь к файлу аудита (по умолчанию "")
//	-u: URL для аудита (по умолчанию "")
//	-config: путь к JSON-файлу конфигурации
//
// Соответствующие переменные окружения:
//
//	ADDRESS, SAMPLE_INTERVAL, AUDIT_FILE, AUDIT_URL, CONFIG
//
// Отсутствие файла конфигурации не является ошибкой: значений флагов
// и переменных окружения достаточно для запуска.
func GetConfig() (Config, error) {
	configStruct := NewConfigStruct()

	addrFlag := flag.String("a", "localhost:8080", "HTTP server address")
	sampleIntFlag := flag.String("i", "0", "host sampling interval in seconds")
	auditFile := flag.String("p", "", "audit file path")
	auditURL := flag.String("u", "", "audit url")
	configPathFlag := flag.String("config", "", "path to config file")

	flag.Parse()

	configPath := getConfigPath(*configPathFlag, os.Getenv("CONFIG"))
	if configPath != "" {
		data, err := os.Open(configPath)
		if err != nil {
			log.Printf("config file is not available: %v", err)
		} else {
			if err := json.NewDecoder(data).Decode(configStruct); err != nil {
				log.Printf("config file decode error: %v", err)
			}
			data.Close()
		}
	}

	cfg := Config{
		Addr:           getString(os.Getenv("ADDRESS"), *addrFlag, configStruct.Addr),
		SampleInterval: getInt(os.Getenv("SAMPLE_INTERVAL"), *sampleIntFlag, configStruct.SampleInterval),
		AuditFile:      getString(os.Getenv("AUDIT_FILE"), *auditFile, configStruct.AuditFile),
		AuditURL:       getString(os.Getenv("AUDIT_URL"), *auditURL, configStruct.AuditURL),
		ConfigFilePath: configPath,
	}

	return cfg, nil
}

// getString возвращает значение переменной окружения, если она установлена,
// иначе значение флага командной строки, иначе значение из файла.
func getString(envValue, flagValue, configValue string) string {
	if envValue != "" {
		return envValue
	} else if flagValue != "" {
		return flagValue
	}

	return configValue
}

// getInt преобразует строковое значение переменной окружения или флага в целое число.
// Приоритет отдается переменной окружения.
func getInt(envValue, flagValue string, configValue int) int {
	if envValue != "" {
		if v, err := strconv.Atoi(envValue); err == nil {
			return v
		}
	} else if flagValue != "" {
		v, _ := strconv.Atoi(flagValue)
		return v
	}

	return configValue
}

func getConfigPath(flagValue, envValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return envValue
}
