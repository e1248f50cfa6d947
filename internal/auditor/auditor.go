package auditor

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"booking-audit-backend/config"
	"booking-audit-backend/internal/audit"
	"booking-audit-backend/internal/ingest"
	"booking-audit-backend/internal/model"
	"booking-audit-backend/internal/notification"
	"booking-audit-backend/internal/parse"
	"booking-audit-backend/internal/store"
)

// Result bundles the outputs of one completed audit cycle.
type Result struct {
	RanAt       time.Time                `json:"ran_at"`
	Integrity   audit.IntegritySummary   `json:"integrity"`
	Utilization audit.UtilizationSummary `json:"utilization"`
}

// Service orchestrates the periodic audit cycle: snapshot ingestion,
// normalization, both analysis passes, persistence of the run summary and
// alert dispatch. The latest result is kept in memory for the API.
type Service struct {
	cfg        *config.Config
	store      store.Store
	window     audit.OperatingWindow
	workerPool *notification.WorkerPool

	mu     sync.RWMutex
	latest *Result
}

// NewService creates an audit service from the configuration. The operating
// window is validated here so a misconfigured window fails at startup rather
// than producing nonsense metrics.
func NewService(cfg *config.Config, s store.Store) (*Service, error) {
	start, err := audit.ParseTimeOfDay(cfg.Audit.WindowStart)
	if err != nil {
		return nil, fmt.Errorf("invalid audit.window_start: %w", err)
	}
	end, err := audit.ParseTimeOfDay(cfg.Audit.WindowEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid audit.window_end: %w", err)
	}
	window, err := audit.NewOperatingWindow(start, end)
	if err != nil {
		return nil, err
	}

	svc := &Service{
		cfg:    cfg,
		store:  s,
		window: window,
	}

	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		svc.workerPool = notification.NewWorkerPool(cfg.WorkerPool.Size, s, &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		})
	} else {
		log.Println("VAPID keys are not configured; push alerts are disabled.")
	}

	return svc, nil
}

// Latest returns the most recent audit result, if any cycle has completed.
func (s *Service) Latest() (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return Result{}, false
	}
	return *s.latest, true
}

// Run starts the audit loop.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Audit.Enabled {
		log.Println("Audit loop is disabled. Not starting.")
		return
	}
	log.Println("Starting audit service...")

	if s.workerPool != nil {
		s.workerPool.Start(ctx)
	}

	if err := s.AuditOnce(ctx); err != nil {
		log.Printf("Error during audit cycle: %v", err)
	}

	timer := time.NewTimer(s.cfg.Audit.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Audit service shutting down.")
			return
		case <-timer.C:
			if err := s.AuditOnce(ctx); err != nil {
				log.Printf("Error during audit cycle: %v", err)
			}
			timer.Reset(s.cfg.Audit.Interval)
		}
	}
}

// AuditOnce performs a single audit cycle.
func (s *Service) AuditOnce(ctx context.Context) error {
	log.Println("Executing audit cycle...")
	now := time.Now()

	// Step 1: Refresh the stored snapshot from the configured CSV export,
	// if any. A failed import keeps the previous snapshot analyzable.
	if s.cfg.Audit.SnapshotCSV != "" {
		if err := s.importSnapshot(ctx, s.cfg.Audit.SnapshotCSV); err != nil {
			log.Printf("Warning: snapshot import failed, auditing existing data: %v", err)
		}
	}

	// Step 2: Load and normalize the snapshot.
	rows, err := s.store.ListBookingRows(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	records := make([]parse.Record, len(rows))
	for i, row := range rows {
		records[i] = row.Record()
	}
	bookings := parse.NormalizeAll(records)

	// Step 3: Run both analysis passes.
	integrity := audit.AnalyzeIntegrity(bookings)
	utilization, err := audit.AnalyzeUtilization(bookings, s.window, s.cfg.Audit.LowUtilization, s.cfg.Audit.PeakWindowHours)
	if err != nil {
		return fmt.Errorf("utilization analysis failed: %w", err)
	}

	// Step 4: Persist the run summary.
	run := &model.AuditRun{
		RanAt:               now,
		TotalBookings:       integrity.TotalBookings,
		IssuesTotal:         integrity.IssuesTotal,
		InvalidRangeCount:   integrity.InvalidRangeCount,
		OverlapCount:        integrity.OverlapCount,
		DaysAnalyzed:        utilization.DaysAnalyzed,
		PeakWindowLabel:     utilization.Peak.Window.Label,
		PeakWindowMinutes:   utilization.Peak.Window.Minutes,
		RoomsUnderThreshold: strings.Join(utilization.UnderThreshold, ","),
	}
	if err := s.store.CreateAuditRun(ctx, run); err != nil {
		log.Printf("Error persisting audit run: %v", err)
	}

	s.mu.Lock()
	s.latest = &Result{RanAt: now, Integrity: integrity, Utilization: utilization}
	s.mu.Unlock()

	// Step 5: Alert subscribers when the cycle found anything.
	if integrity.IssuesTotal > 0 && s.workerPool != nil {
		s.workerPool.Dispatch(notification.Alert{
			RanAt:             now,
			IssuesTotal:       integrity.IssuesTotal,
			InvalidRangeCount: integrity.InvalidRangeCount,
			OverlapCount:      integrity.OverlapCount,
		})
	}

	log.Printf("Audit cycle finished: %d bookings, %d issues.", integrity.TotalBookings, integrity.IssuesTotal)
	return nil
}

// importSnapshot reads the CSV export and replaces the stored snapshot.
func (s *Service) importSnapshot(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer f.Close()

	records, err := ingest.ReadSnapshot(f)
	if err != nil {
		return fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}

	rows := make([]model.BookingRow, len(records))
	for i, r := range records {
		rows[i] = model.BookingRow{
			BookingID:       r["booking_id"],
			RoomID:          r["room_id"],
			StartTime:       r["start_time"],
			EndTime:         r["end_time"],
			CreatedAtSource: r["created_at"],
		}
	}

	if err := s.store.ReplaceSnapshot(ctx, rows); err != nil {
		return err
	}
	log.Printf("Imported %d snapshot rows from %s", len(rows), path)
	return nil
}
