package audit

import (
	"context"
	"log"
	"sync"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/repository"
)

const writeTimeout = 5 * time.Second

// Recorder сохраняет записи журнала в фоне. Ошибки записи уходят только
// в диагностический лог, ответ клиенту от них не зависит.
type Recorder struct {
	store repository.LogRepository
	diag  *log.Logger
	wg    sync.WaitGroup
	sync  bool
}

type Option func(*Recorder)

// Synchronous пишет запись в вызывающей горутине (тесты)
func Synchronous() Option {
	return func(r *Recorder) { r.sync = true }
}

func NewRecorder(store repository.LogRepository, diag *log.Logger, opts ...Option) *Recorder {
	if diag == nil {
		diag = log.Default()
	}
	r := &Recorder{store: store, diag: diag}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Submit ставит запись на сохранение; ctx запроса не отменяет запись
func (r *Recorder) Submit(ctx context.Context, entry domain.Log) {
	ctx = context.WithoutCancel(ctx)
	if r.sync {
		r.write(ctx, entry)
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.write(ctx, entry)
	}()
}

func (r *Recorder) write(ctx context.Context, entry domain.Log) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := r.store.Create(ctx, &entry); err != nil {
		r.diag.Printf("audit: %s %s: %v", entry.Method, entry.Endpoint, err)
	}
}

// Wait дожидается всех незавершённых записей (вызывается при остановке)
func (r *Recorder) Wait() { r.wg.Wait() }
