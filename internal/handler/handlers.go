package handler

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"go.uber.org/zap"

	"github.com/levinOo/go-items-service/internal/audit"
	"github.com/levinOo/go-items-service/internal/instrument"
	"github.com/levinOo/go-items-service/internal/logger"
	"github.com/levinOo/go-items-service/internal/metrics"
	"github.com/levinOo/go-items-service/internal/models"
	"github.com/levinOo/go-items-service/internal/repository"
	"github.com/levinOo/go-items-service/internal/sampler"
)

func NewRouter(storage repository.Storage, m *metrics.Metrics, smplr *sampler.Sampler, auditer *audit.Auditer, sugar *zap.SugaredLogger) *chi.Mux {
	r := chi.NewRouter()

	wrap := func(h http.Handler) http.HandlerFunc {
		return instrument.Timer(LoggerFuncServer(h, sugar), m, sugar)
	}

	r.Get("/", wrap(IndexHandler()))
	r.Get("/metrics", wrap(MetricsHandler(m, smplr)))

	r.Route("/items", func(r chi.Router) {
		r.Post("/", wrap(DecompressMiddleware(CreateItemHandler(storage, auditer, sugar))))
		r.Get("/{id}", wrap(GetItemHandler(storage)))
		r.Put("/{id}", wrap(DecompressMiddleware(UpdateItemHandler(storage, auditer, sugar))))
		r.Delete("/{id}", wrap(DeleteItemHandler(storage, auditer, sugar)))
	})

	return r
}

func LoggerFuncServer(h http.Handler, sugar *zap.SugaredLogger) http.HandlerFunc {
	logFn := func(rw http.ResponseWriter, r *http.Request) {
		start := time.Now()

		responseData := &logger.ResponseData{
			Size:   0,
			Status: 0,
		}
		lw := logger.LoggingRW{
			ResponseWriter: rw,
			ResponseData:   responseData,
		}

		h.ServeHTTP(&lw, r)

		dur := time.Since(start)

		sugar.Infoln(
			"uri", r.RequestURI,
			"method", r.Method,
			"duration", dur,
			"status", responseData.Status,
			"size", responseData.Size,
		)
	}
	return http.HandlerFunc(logFn)
}

func DecompressMiddleware(h http.Handler) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Encoding") == "gzip" {
			gz, err := gzip.NewReader(r.Body)
			if err != nil {
				http.Error(rw, "Failed to decompress gzip body", http.StatusBadRequest)
				return
			}
			defer gz.Close()

			body, err := io.ReadAll(gz)
			if err != nil {
				http.Error(rw, "Failed to read decompressed body", http.StatusInternalServerError)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			r.ContentLength = int64(len(body))
		}
		h.ServeHTTP(rw, r)
	}
}

func IndexHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
		rw.WriteHeader(http.StatusOK)
		_, err := rw.Write([]byte("Hello, world!"))
		if err != nil {
			log.Printf("write error: %v", err)
		}
	}
}

func CreateItemHandler(storage repository.Storage, auditer *audit.Auditer, sugar *zap.SugaredLogger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		var item models.ItemRequest

		err := json.NewDecoder(r.Body).Decode(&item)
		if err != nil {
			http.Error(rw, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}

		id := storage.Create(item.Name)
		sugar.Debugw("Item created", "id", id, "name", item.Name)

		auditer.NotifyClients(audit.NewEvent(models.StatusCreated, id, r.RemoteAddr))

		writeJSON(rw, models.ItemResponse{
			ItemID: id,
			Name:   item.Name,
			Status: models.StatusCreated,
		})
	}
}

func GetItemHandler(storage repository.Storage) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		id, ok := itemID(rw, r)
		if !ok {
			return
		}

		name, err := storage.Get(id)
		if err != nil {
			notFound(rw, r, id)
			return
		}

		writeJSON(rw, models.ItemResponse{
			ItemID: id,
			Name:   name,
		})
	}
}

func UpdateItemHandler(storage repository.Storage, auditer *audit.Auditer, sugar *zap.SugaredLogger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		id, ok := itemID(rw, r)
		if !ok {
			return
		}

		var item models.ItemRequest

		err := json.NewDecoder(r.Body).Decode(&item)
		if err != nil {
			http.Error(rw, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}

		if err := storage.Update(id, item.Name); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				notFound(rw, r, id)
				return
			}
			http.Error(rw, err.Error(), http.StatusInternalServerError)
			return
		}

		sugar.Debugw("Item updated", "id", id, "name", item.Name)
		auditer.NotifyClients(audit.NewEvent(models.StatusUpdated, id, r.RemoteAddr))

		writeJSON(rw, models.ItemResponse{
			ItemID: id,
			Name:   item.Name,
			Status: models.StatusUpdated,
		})
	}
}

func DeleteItemHandler(storage repository.Storage, auditer *audit.Auditer, sugar *zap.SugaredLogger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		id, ok := itemID(rw, r)
		if !ok {
			return
		}

		if err := storage.Delete(id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				notFound(rw, r, id)
				return
			}
			http.Error(rw, err.Error(), http.StatusInternalServerError)
			return
		}

		sugar.Debugw("Item deleted", "id", id)
		auditer.NotifyClients(audit.NewEvent(models.StatusDeleted, id, r.RemoteAddr))

		writeJSON(rw, models.ItemResponse{
			ItemID: id,
			Status: models.StatusDeleted,
		})
	}
}

func MetricsHandler(m *metrics.Metrics, smplr *sampler.Sampler) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		smplr.Sample(m)
		m.Handler().ServeHTTP(rw, r)
	}
}

func itemID(rw http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(rw, "Invalid item id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// notFound помечает исход запроса до записи ответа, чтобы метки метрик
// соответствовали фактическому результату.
func notFound(rw http.ResponseWriter, r *http.Request, id int) {
	instrument.SetStatus(r.Context(), http.StatusNotFound)
	http.Error(rw, fmt.Sprintf("Item with id %d not found", id), http.StatusNotFound)
}

func writeJSON(rw http.ResponseWriter, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(rw).Encode(v); err != nil {
		log.Printf("response encode error: %v", err)
	}
}
