// Package sampler снимает показатели хоста и записывает их в gauge-метрики.
package sampler

import (
	"go.uber.org/zap"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/levinOo/go-items-service/internal/metrics"
)

// Sampler читает load average, память и число логических ядер хоста.
// Функции чтения вынесены в поля, чтобы тесты могли подменять их и
// имитировать недоступность системной информации.
type Sampler struct {
	loadFn func() (*load.AvgStat, error)
	memFn  func() (*mem.VirtualMemoryStat, error)
	cpuFn  func(logical bool) (int, error)
	sugar  *zap.SugaredLogger
}

func New(sugar *zap.SugaredLogger) *Sampler {
	return &Sampler{
		loadFn: load.Avg,
		memFn:  mem.VirtualMemory,
		cpuFn:  cpu.Counts,
		sugar:  sugar,
	}
}

// Sample снимает все три показателя и выставляет соответствующие gauge.
// Сбой чтения не прерывает выдачу метрик: gauge сохраняет последнее
// известное значение, ошибка только логируется.
func (s *Sampler) Sample(m *metrics.Metrics) {
	if avg, err := s.loadFn(); err != nil {
		s.sugar.Warnw("load average unavailable", "error", err)
	} else {
		m.ProcessCPUUsage.Set(avg.Load1)
	}

	if vm, err := s.memFn(); err != nil {
		s.sugar.Warnw("memory info unavailable", "error", err)
	} else {
		m.MemoryUsedBytes.Set(float64(vm.Total - vm.Free))
	}

	if n, err := s.cpuFn(true); err != nil {
		s.sugar.Warnw("cpu count unavailable", "error", err)
	} else {
		m.ThreadsLive.Set(float64(n))
	}
}
