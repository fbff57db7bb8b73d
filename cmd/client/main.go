// Команда client выполняет сквозную проверку работающего сервиса элементов:
// создаёт элементы, читает, обновляет и удаляет их, проверяет ответ 404
// и запрашивает /metrics.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-resty/resty/v2"

	"github.com/levinOo/go-items-service/internal/models"
)

type Config struct {
	Addr      string `env:"ADDRESS"`
	ItemCount int    `env:"ITEM_COUNT"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	addr := flag.String("a", "localhost:8080", "server address")
	count := flag.Int("n", 3, "number of items to create")
	flag.Parse()

	cfg := Config{
		Addr:      *addr,
		ItemCount: *count,
	}
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("failed to parse env: %w", err)
	}

	baseURL := "http://" + cfg.Addr
	client := resty.New()

	ids := make([]int, 0, cfg.ItemCount)
	for i := 0; i < cfg.ItemCount; i++ {
		item, err := createItem(client, baseURL, fmt.Sprintf("item-%d", i+1))
		if err != nil {
			return err
		}
		log.Printf("created item %d (%s)", item.ItemID, item.Name)
		ids = append(ids, item.ItemID)
	}

	for _, id := range ids {
		item, err := getItem(client, baseURL, id)
		if err != nil {
			return err
		}
		log.Printf("read item %d (%s)", item.ItemID, item.Name)
	}

	if len(ids) > 0 {
		first := ids[0]

		item, err := updateItem(client, baseURL, first, "renamed")
		if err != nil {
			return err
		}
		log.Printf("updated item %d (%s)", item.ItemID, item.Name)

		if err := deleteItem(client, baseURL, first); err != nil {
			return err
		}
		log.Printf("deleted item %d", first)

		resp, err := client.R().Get(fmt.Sprintf("%s/items/%d", baseURL, first))
		if err != nil {
			return fmt.Errorf("failed to re-read deleted item: %w", err)
		}
		if resp.StatusCode() != http.StatusNotFound {
			return fmt.Errorf("expected 404 for deleted item %d, got %d", first, resp.StatusCode())
		}
		log.Printf("deleted item %d is gone (404)", first)
	}

	resp, err := client.R().Get(baseURL + "/metrics")
	if err != nil {
		return fmt.Errorf("failed to fetch metrics: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("metrics endpoint returned %d", resp.StatusCode())
	}
	log.Printf("metrics endpoint returned %d samples", len(strings.Split(strings.TrimSpace(resp.String()), "\n")))

	return nil
}

func createItem(client *resty.Client, baseURL, name string) (models.ItemResponse, error) {
	return doItemRequest(client, http.MethodPost, baseURL+"/items", name)
}

func getItem(client *resty.Client, baseURL string, id int) (models.ItemResponse, error) {
	return doItemRequest(client, http.MethodGet, fmt.Sprintf("%s/items/%d", baseURL, id), "")
}

func updateItem(client *resty.Client, baseURL string, id int, name string) (models.ItemResponse, error) {
	return doItemRequest(client, http.MethodPut, fmt.Sprintf("%s/items/%d", baseURL, id), name)
}

func deleteItem(client *resty.Client, baseURL string, id int) error {
	_, err := doItemRequest(client, http.MethodDelete, fmt.Sprintf("%s/items/%d", baseURL, id), "")
	return err
}

func doItemRequest(client *resty.Client, method, url, name string) (models.ItemResponse, error) {
	req := client.R()

	if name != "" {
		body, err := json.Marshal(models.ItemRequest{Name: name})
		if err != nil {
			return models.ItemResponse{}, fmt.Errorf("failed to marshal request: %w", err)
		}
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return models.ItemResponse{}, fmt.Errorf("%s %s failed: %w", method, url, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return models.ItemResponse{}, fmt.Errorf("%s %s returned %d: %s", method, url, resp.StatusCode(), resp.String())
	}

	var item models.ItemResponse
	if err := json.Unmarshal(resp.Body(), &item); err != nil {
		return models.ItemResponse{}, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return item, nil
}
