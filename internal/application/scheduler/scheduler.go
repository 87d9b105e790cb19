// Package scheduler drives the periodic execution of detectors across all
// enabled partners. One partner's failure never blocks another's scan.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/training-mne-api/internal/application/monitor"
	"github.com/training-mne-api/internal/domain"
)

type partnerLister interface {
	ListEnabled(ctx context.Context) ([]domain.Partner, error)
}

type alertRaiser interface {
	Raise(ctx context.Context, partnerID string, c domain.AlertCandidate) (*domain.Alert, error)
}

type reportStore interface {
	PutJSON(ctx context.Context, key string, v interface{}) error
}

// Clock abstracts time so passes can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// Entry pairs a detector with its run period.
type Entry struct {
	Detector monitor.Detector
	Period   time.Duration
}

// PassReport summarizes one detector pass over all enabled partners.
type PassReport struct {
	Detector        string    `json:"detector"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	PartnersScanned int       `json:"partners_scanned"`
	PartnersFailed  int       `json:"partners_failed"`
	AlertsRaised    int       `json:"alerts_raised"`
	Duplicates      int       `json:"duplicates"`
}

type Scheduler struct {
	partners       partnerLister
	alerts         alertRaiser
	reports        reportStore
	clock          Clock
	partnerTimeout time.Duration
	entries        []Entry
	wg             sync.WaitGroup
}

type Deps struct {
	PartnerRepo    partnerLister
	AlertService   alertRaiser
	ReportStore    reportStore // optional
	Clock          Clock       // optional, defaults to the wall clock
	PartnerTimeout time.Duration
	Entries        []Entry
}

func New(deps Deps) *Scheduler {
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock()
	}
	return &Scheduler{
		partners:       deps.PartnerRepo,
		alerts:         deps.AlertService,
		reports:        deps.ReportStore,
		clock:          clock,
		partnerTimeout: deps.PartnerTimeout,
		entries:        deps.Entries,
	}
}

// Start launches one ticker goroutine per entry and returns immediately.
// The goroutines stop when ctx is cancelled; Wait blocks until they exit.
func (s *Scheduler) Start(ctx context.Context) {
	for _, entry := range s.entries {
		s.wg.Add(1)
		go func(e Entry) {
			defer s.wg.Done()
			ticker := time.NewTicker(e.Period)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					s.RunPass(ctx, e.Detector)
				}
			}
		}(entry)
	}
}

// Wait blocks until all ticker goroutines have stopped.
func (s *Scheduler) Wait() { s.wg.Wait() }

// RunPass runs one detector across every enabled partner. Each partner gets
// its own timeout; a failing or panicking partner is recorded and skipped.
func (s *Scheduler) RunPass(ctx context.Context, d monitor.Detector) PassReport {
	report := PassReport{Detector: d.Name(), StartedAt: s.clock.Now()}

	partners, err := s.partners.ListEnabled(ctx)
	if err != nil {
		slog.Error("scheduler: list enabled partners", "detector", d.Name(), "error", err)
		report.FinishedAt = s.clock.Now()
		return report
	}

	for _, p := range partners {
		report.PartnersScanned++
		if err := s.scanPartner(ctx, d, p.PartnerID, &report); err != nil {
			report.PartnersFailed++
			slog.Error("scheduler: partner scan failed",
				"detector", d.Name(), "partner_id", p.PartnerID, "error", err)
		}
	}

	report.FinishedAt = s.clock.Now()
	s.archive(ctx, &report)
	return report
}

func (s *Scheduler) scanPartner(ctx context.Context, d monitor.Detector, partnerID string, report *PassReport) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("detector panic: %v", r)
		}
	}()

	scanCtx, cancel := context.WithTimeout(ctx, s.partnerTimeout)
	defer cancel()

	candidates, err := d.Detect(scanCtx, partnerID, s.clock.Now())
	if err != nil {
		return err
	}

	for _, c := range candidates {
		raised, err := s.alerts.Raise(scanCtx, partnerID, c)
		if err != nil {
			return fmt.Errorf("raise %s alert: %w", c.Type, err)
		}
		if raised == nil {
			report.Duplicates++
			continue
		}
		report.AlertsRaised++
	}
	return nil
}

// archive uploads the pass report. Best effort: the scan outcome stands
// whether or not the archive write lands.
func (s *Scheduler) archive(ctx context.Context, report *PassReport) {
	if s.reports == nil {
		return
	}
	key := fmt.Sprintf("scan-reports/%s/%s.json", report.Detector, report.StartedAt.UTC().Format("2006-01-02T15-04-05Z"))
	if err := s.reports.PutJSON(ctx, key, report); err != nil {
		slog.Warn("scheduler: archive pass report", "detector", report.Detector, "error", err)
	}
}
