// Package instrument реализует сквозной замер HTTP-запросов.
//
// На каждый запрос создаётся Status — изменяемая запись исхода запроса,
// доступная обработчику через context.Context. Timer оборачивает обработчик:
// на входе фиксирует время старта и увеличивает gauge выполняющихся запросов,
// на выходе (через defer, на любом пути завершения) записывает наблюдение
// длительности и инкремент счётчика с метками method/status/path.
package instrument

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/levinOo/go-items-service/internal/metrics"
	"github.com/levinOo/go-items-service/internal/pool"
)

// defaultStatus — метка исхода, если обработчик не вызвал Set.
// Известное ограничение: путь ошибки, не помеченный обработчиком явно
// (например, 400 на некорректном теле запроса), попадает в метку "200".
const defaultStatus = "200"

// Status — запись исхода одного запроса. Метод и путь берутся из самого
// запроса, код статуса выставляется логикой обработчика. Объект не
// разделяется между запросами.
type Status struct {
	code string
}

// Set выставляет код статуса для меток метрик. При повторных вызовах
// действует последняя запись.
func (s *Status) Set(code int) {
	s.code = strconv.Itoa(code)
}

// Effective возвращает явно выставленный код, либо "200" по умолчанию.
func (s *Status) Effective() string {
	if s.code == "" {
		return defaultStatus
	}
	return s.code
}

// Reset очищает состояние перед возвратом объекта в пул.
func (s *Status) Reset() {
	s.code = ""
}

type ctxKey struct{}

var statusPool = pool.New[*Status](func() *Status { return &Status{} })

// NewContext возвращает контекст с привязанной записью исхода запроса.
func NewContext(ctx context.Context, s *Status) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext извлекает запись исхода из контекста запроса.
// Возвращает nil, если запрос не обёрнут Timer.
func FromContext(ctx context.Context) *Status {
	s, _ := ctx.Value(ctxKey{}).(*Status)
	return s
}

// SetStatus выставляет код исхода текущего запроса.
// Вне обёрнутого Timer запроса вызов безопасен и ничего не делает.
func SetStatus(ctx context.Context, code int) {
	if s := FromContext(ctx); s != nil {
		s.Set(code)
	}
}

// Timer оборачивает обработчик замером длительности и учётом числа
// выполняющихся запросов. Завершающая запись метрик гарантированно
// выполняется ровно один раз на любом пути выхода, включая панику
// обработчика. Запрос, который никогда не завершится, оставит gauge
// выполняющихся запросов увеличенным — известное ограничение.
func Timer(h http.Handler, m *metrics.Metrics, sugar *zap.SugaredLogger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		st := statusPool.Get()
		method := r.Method
		path := r.URL.Path

		start := time.Now()
		m.RequestsInProgress.Inc()

		defer func() {
			elapsed := time.Since(start).Seconds()
			record(m, method, st.Effective(), path, elapsed, sugar)
			m.RequestsInProgress.Dec()
			statusPool.Put(st)
		}()

		h.ServeHTTP(rw, r.WithContext(NewContext(r.Context(), st)))
	}
}

// record выполняет наблюдение гистограммы и инкремент счётчика.
// Сбой записи метрик не должен влиять на ответ клиенту, поэтому
// паника здесь гасится и логируется.
func record(m *metrics.Metrics, method, status, path string, elapsed float64, sugar *zap.SugaredLogger) {
	defer func() {
		if p := recover(); p != nil {
			sugar.Errorw("metric recording failed", "panic", p, "method", method, "path", path)
		}
	}()

	m.RequestDuration.WithLabelValues(method, status, path).Observe(elapsed)
	m.RequestsTotal.WithLabelValues(method, status, path).Inc()
}
