package worker

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/xavierca1/leadflow/internal/infra/http/middleware"
	"github.com/xavierca1/leadflow/internal/usecase"
)


// ReassignRunner é o que o worker dispara a cada tick.
type ReassignRunner interface {
	Execute(ctx context.Context) (usecase.ReassignRunReport, error)
}

// RunLock serializa rodadas entre processos (advisory lock no Postgres).
type RunLock interface {
	TryAcquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}


// ReassignmentWorker acorda num intervalo fixo e roda a varredura de leads
// vencidos. Rodadas nunca se sobrepõem: flag em memória segura ticks do
// próprio processo, advisory lock segura os processos vizinhos.
type ReassignmentWorker struct {
	runner       ReassignRunner
	lock         RunLock
	tickInterval time.Duration
	running      atomic.Bool
}


func NewReassignmentWorker(runner ReassignRunner, lock RunLock, tickInterval time.Duration) *ReassignmentWorker {
	if tickInterval <= 0 {
		tickInterval = 15 * time.Minute
	}
	return &ReassignmentWorker{
		runner:       runner,
		lock:         lock,
		tickInterval: tickInterval,
	}
}


func (w *ReassignmentWorker) Start(ctx context.Context) {
	log.Printf("🕒 Reassignment Worker iniciado (tick de %s)", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Reassignment Worker encerrado")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}


// RunOnce é seguro de chamar mesmo com uma rodada anterior em andamento:
// detecta a sobreposição e sai sem fazer nada.
func (w *ReassignmentWorker) RunOnce(ctx context.Context) {
	if !w.running.CompareAndSwap(false, true) {
		log.Println("⏭️ Rodada anterior ainda em andamento, pulando tick")
		return
	}
	defer w.running.Store(false)

	acquired, err := w.lock.TryAcquire(ctx)
	if err != nil {
		log.Printf("❌ Erro ao disputar lock da rodada: %v", err)
		return
	}
	if !acquired {
		log.Println("⏭️ Outro processo está rodando a reatribuição, pulando")
		return
	}
	defer func() {
		if err := w.lock.Release(ctx); err != nil {
			log.Printf("⚠️ Falha ao soltar lock da rodada: %v", err)
		}
	}()

	start := time.Now()
	report, err := w.runner.Execute(ctx)
	middleware.ObserveReassignmentRun(time.Since(start).Seconds())

	if err != nil {
		log.Printf("❌ Rodada de reatribuição falhou: %v", err)
		return
	}

	middleware.RecordReassignments(report.Reassigned, report.Skipped)

	if report.Scanned > 0 {
		log.Printf("✅ Rodada em %.2fs: %d varrido(s), %d reatribuído(s), %d pulado(s)",
			time.Since(start).Seconds(), report.Scanned, report.Reassigned, report.Skipped)
	}
}
