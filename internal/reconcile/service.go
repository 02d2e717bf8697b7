package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vitrine-retail/vitrine/internal/shared"
)

// refreshMatrix maps each ledger mutation to the views it can alter.
// Supplier payments never move the receivables schedule, so the monthly and
// calendar views keep their snapshots on those events.
var refreshMatrix = map[shared.Event][]View{
	shared.EventSaleChanged:            {ViewMonthlySummary, ViewCalendar, ViewSupplierLedger},
	shared.EventInstallmentsChanged:    {ViewMonthlySummary, ViewCalendar},
	shared.EventSupplierPaymentChanged: {ViewSupplierLedger},
}

// RefreshObserver receives the outcome of every view rebuild.
type RefreshObserver interface {
	ObserveViewRefresh(view string, err error)
}

// Service keeps the derived dashboard views consistent with the ledger. Each
// view holds an in-process snapshot that is rebuilt when a mutation event
// touches it; rebuilds that lose the race against a newer event are discarded.
type Service struct {
	logger   *slog.Logger
	feed     FeedPort
	cache    *Cache
	coll     *collate.Collator
	collMu   sync.Mutex
	flight   singleflight.Group
	timeout  time.Duration
	observer RefreshObserver

	mu       sync.RWMutex
	monthly  MonthlySummaryView
	calendar CalendarView
	supplier SupplierLedgerView

	gen map[View]*atomic.Int64
}

// NewService builds the reconciler. cache may be nil.
func NewService(logger *slog.Logger, feed FeedPort, cache *Cache) *Service {
	s := &Service{
		logger:  logger,
		feed:    feed,
		cache:   cache,
		coll:    collate.New(language.BrazilianPortuguese, collate.IgnoreCase),
		timeout: 30 * time.Second,
		gen:     make(map[View]*atomic.Int64, len(Views)),
	}
	for _, view := range Views {
		s.gen[view] = &atomic.Int64{}
	}
	return s
}

// WithObserver installs the refresh outcome observer.
func (s *Service) WithObserver(observer RefreshObserver) *Service {
	s.observer = observer
	return s
}

// BindTo subscribes the reconciler to ledger mutation events. Handlers run
// on the publisher goroutine; rebuild failures are logged and the previous
// snapshot stays in place.
func (s *Service) BindTo(bus *shared.EventBus) {
	bus.Subscribe(func(event shared.Event) {
		views, ok := refreshMatrix[event]
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.cache.Bump(ctx); err != nil {
			s.logger.Warn("view cache bump failed", "event", string(event), "error", err)
		}
		for _, view := range views {
			if err := s.Refresh(ctx, view); err != nil {
				s.logger.Error("view refresh failed", "event", string(event), "view", string(view), "error", err)
			}
		}
	})
}

// Refresh rebuilds one view from the feed, bypassing any cached payload and
// rewriting it. When a newer refresh for the same view starts while this one
// is still loading, the late result is thrown away instead of overwriting
// fresher data.
func (s *Service) Refresh(ctx context.Context, view View) error {
	err := s.refresh(ctx, view, true)
	if s.observer != nil {
		s.observer.ObserveViewRefresh(string(view), err)
	}
	return err
}

// hydrate fills a view snapshot on first access, serving the cached payload
// when one exists.
func (s *Service) hydrate(ctx context.Context, view View) error {
	err := s.refresh(ctx, view, false)
	if s.observer != nil {
		s.observer.ObserveViewRefresh(string(view), err)
	}
	return err
}

func (s *Service) refresh(ctx context.Context, view View, force bool) error {
	counter, ok := s.gen[view]
	if !ok {
		return fmt.Errorf("reconcile: unknown view %q", view)
	}
	myGen := counter.Add(1)

	switch view {
	case ViewMonthlySummary:
		built, err := s.loadMonthly(ctx, force)
		if err != nil {
			return err
		}
		s.mu.Lock()
		if counter.Load() == myGen {
			s.monthly = built
		}
		s.mu.Unlock()
	case ViewCalendar:
		built, err := s.loadCalendar(ctx, force)
		if err != nil {
			return err
		}
		s.mu.Lock()
		if counter.Load() == myGen {
			s.calendar = built
		}
		s.mu.Unlock()
	case ViewSupplierLedger:
		built, err := s.loadSupplier(ctx, force)
		if err != nil {
			return err
		}
		s.mu.Lock()
		if counter.Load() == myGen {
			s.supplier = built
		}
		s.mu.Unlock()
	default:
		return fmt.Errorf("reconcile: unknown view %q", view)
	}
	return nil
}

// RefreshAll rebuilds every view concurrently, used at startup and by the
// warm-up job.
func (s *Service) RefreshAll(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	for _, view := range Views {
		view := view
		group.Go(func() error {
			return s.Refresh(ctx, view)
		})
	}
	return group.Wait()
}

// fetch picks the cache strategy: forced refreshes always re-run the loader
// and rewrite the payload, lazy loads serve a warm cache.
func (s *Service) fetch(force bool) func(context.Context, string, any, func(context.Context) (any, error)) error {
	if force {
		return s.cache.ReloadJSON
	}
	return s.cache.FetchJSON
}

func (s *Service) loadMonthly(ctx context.Context, force bool) (MonthlySummaryView, error) {
	var view MonthlySummaryView
	key, err := s.cache.ViewKey(ctx, ViewMonthlySummary)
	if err != nil {
		return view, err
	}
	err = s.fetch(force)(ctx, key, &view, func(ctx context.Context) (any, error) {
		rows, err := s.feed.MonthlySummaryRows(ctx)
		if err != nil {
			return nil, err
		}
		return BuildMonthlySummary(rows), nil
	})
	return view, err
}

func (s *Service) loadCalendar(ctx context.Context, force bool) (CalendarView, error) {
	var view CalendarView
	key, err := s.cache.ViewKey(ctx, ViewCalendar)
	if err != nil {
		return view, err
	}
	err = s.fetch(force)(ctx, key, &view, func(ctx context.Context) (any, error) {
		rows, err := s.feed.ReceivablesRows(ctx)
		if err != nil {
			return nil, err
		}
		return BuildCalendar(rows), nil
	})
	return view, err
}

func (s *Service) loadSupplier(ctx context.Context, force bool) (SupplierLedgerView, error) {
	var view SupplierLedgerView
	key, err := s.cache.ViewKey(ctx, ViewSupplierLedger)
	if err != nil {
		return view, err
	}
	err = s.fetch(force)(ctx, key, &view, func(ctx context.Context) (any, error) {
		rows, err := s.feed.SupplierPaymentRows(ctx)
		if err != nil {
			return nil, err
		}
		return BuildSupplierLedger(rows), nil
	})
	return view, err
}

// MonthlySummary returns the current monthly snapshot, building it on first
// access. Concurrent first reads share a single rebuild.
func (s *Service) MonthlySummary(ctx context.Context) (MonthlySummaryView, error) {
	s.mu.RLock()
	view := s.monthly
	s.mu.RUnlock()
	if len(view.Points) > 0 {
		return view, nil
	}
	_, err, _ := s.flight.Do(string(ViewMonthlySummary), func() (any, error) {
		return nil, s.hydrate(ctx, ViewMonthlySummary)
	})
	if err != nil {
		return MonthlySummaryView{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.monthly, nil
}

// Calendar returns the receivables calendar snapshot.
func (s *Service) Calendar(ctx context.Context) (CalendarView, error) {
	s.mu.RLock()
	view := s.calendar
	s.mu.RUnlock()
	if len(view.Rows) > 0 {
		return view, nil
	}
	_, err, _ := s.flight.Do(string(ViewCalendar), func() (any, error) {
		return nil, s.hydrate(ctx, ViewCalendar)
	})
	if err != nil {
		return CalendarView{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calendar, nil
}

// SupplierLedger returns the per-supplier paid/pending snapshot.
func (s *Service) SupplierLedger(ctx context.Context) (SupplierLedgerView, error) {
	s.mu.RLock()
	view := s.supplier
	s.mu.RUnlock()
	if len(view.Rows) > 0 {
		return view, nil
	}
	_, err, _ := s.flight.Do(string(ViewSupplierLedger), func() (any, error) {
		return nil, s.hydrate(ctx, ViewSupplierLedger)
	})
	if err != nil {
		return SupplierLedgerView{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.supplier, nil
}

// CalendarDrillDown lists the installments due on one calendar day, pending
// first and then by client name in pt-BR collation order.
func (s *Service) CalendarDrillDown(ctx context.Context, dateKey string) ([]DrillDownRow, error) {
	rows, err := s.feed.InstallmentsDueOn(ctx, dateKey)
	if err != nil {
		return nil, err
	}
	s.collMu.Lock()
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Received != rows[j].Received {
			return !rows[i].Received
		}
		return s.coll.CompareString(rows[i].ClientName, rows[j].ClientName) < 0
	})
	s.collMu.Unlock()
	return rows, nil
}

// MonthlyTotals aggregates sales count, entry cost, sale total and profit for
// one month of one year.
func (s *Service) MonthlyTotals(ctx context.Context, month, year int) (MonthlyTotals, error) {
	if month < 1 || month > 12 {
		return MonthlyTotals{}, shared.NewValidationError("month", "deve estar entre 1 e 12")
	}
	if year < 2000 || year > 2100 {
		return MonthlyTotals{}, shared.NewValidationError("year", "fora do intervalo suportado")
	}
	return s.feed.MonthlyTotals(ctx, month, year)
}
