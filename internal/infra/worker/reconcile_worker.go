package worker

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

type ConvertedLeadMarker interface {
	MarkConvertedWon(ctx context.Context, at time.Time) ([]string, error)
}

// ReconcileWorker fecha o buraco deixado quando mark_lead_won falhou e o
// follow-up não pôde ser publicado: leads com client mas sem status Won.
type ReconcileWorker struct {
	leads        ConvertedLeadMarker
	tickInterval time.Duration
	now          func() time.Time
}

func NewReconcileWorker(leads ConvertedLeadMarker, interval time.Duration) *ReconcileWorker {
	return &ReconcileWorker{
		leads:        leads,
		tickInterval: interval,
		now:          time.Now,
	}
}

func (w *ReconcileWorker) Start(ctx context.Context) {
	log.WithField("interval", w.tickInterval.String()).Info("🕒 Reconcile worker iniciado")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.reconcile(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info("⚠️ Reconcile worker encerrado")
			return
		case <-ticker.C:
			w.reconcile(ctx)
		}
	}
}

func (w *ReconcileWorker) reconcile(ctx context.Context) int {
	ids, err := w.leads.MarkConvertedWon(ctx, w.now().UTC())
	if err != nil {
		log.WithError(err).Error("❌ Erro ao reconciliar leads convertidos")
		return 0
	}

	for _, id := range ids {
		log.WithField("lead_id", id).Warn("lead convertido sem status Won, corrigido")
	}
	if len(ids) > 0 {
		log.WithField("count", len(ids)).Info("✅ Reconcile concluído")
	}
	return len(ids)
}
