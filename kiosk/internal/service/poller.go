package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"menugenius/domain"
	"menugenius/kiosk/internal/state"

	"go.uber.org/zap"
)

const DefaultPollInterval = 5 * time.Second

// OrderView is what a status screen renders.
type OrderView struct {
	Order   *domain.Order
	Loading bool
	Err     error
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

func NewRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Poller keeps one order view fresh. Watching a new order cancels the
// previous loop, which can no longer publish once it is replaced. Watch may be
// called from a View subscriber. Stop waits for every loop to exit, so it must
// not be.
type Poller struct {
	orders    OrderTracker
	interval  time.Duration
	newTicker TickerFactory
	logger    *zap.Logger

	mu          sync.Mutex
	gen         atomic.Uint64
	cancel      context.CancelFunc
	done        chan struct{}
	unsubscribe func()
	loops       sync.WaitGroup

	view *state.Cell[OrderView]
}

// NewPoller builds a poller. A non-positive interval means DefaultPollInterval
// and a nil factory means real time tickers.
func NewPoller(orders OrderTracker, logger *zap.Logger, interval time.Duration, newTicker TickerFactory) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if newTicker == nil {
		newTicker = NewRealTicker
	}
	return &Poller{
		orders:    orders,
		interval:  interval,
		newTicker: newTicker,
		logger:    logger,
		view:      state.NewCell(OrderView{}),
	}
}

func (p *Poller) View() state.Observable[OrderView] {
	return p.view
}

// Watch starts tracking ref. An empty ref follows the current user order
// instead of polling. p.mu is never held while the view publishes.
func (p *Poller) Watch(ref string) {
	p.mu.Lock()
	p.detachLocked()
	gen := p.gen.Add(1)

	if ref == "" {
		p.mu.Unlock()
		p.orders.LoadCurrentUserOrder()
		unsubscribe := p.orders.CurrentOrder().Subscribe(func(o *domain.Order) {
			p.publish(gen, func(OrderView) OrderView { return OrderView{Order: o} })
		})

		p.mu.Lock()
		defer p.mu.Unlock()
		if p.gen.Load() != gen {
			unsubscribe()
			return
		}
		p.unsubscribe = unsubscribe
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	p.loops.Add(1)
	p.mu.Unlock()

	p.publish(gen, func(OrderView) OrderView { return OrderView{Loading: true} })
	go p.run(ctx, ref, gen, done)
}

// Stop tears down whatever Watch started and waits for the loops to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	p.detachLocked()
	p.gen.Add(1)
	p.mu.Unlock()

	p.loops.Wait()
}

// Wait blocks until the current polling loop exits on its own or is stopped.
func (p *Poller) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

// detachLocked cancels the running loop without waiting for it.
func (p *Poller) detachLocked() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// publish updates the view unless a later Watch or Stop replaced gen.
func (p *Poller) publish(gen uint64, next func(prev OrderView) OrderView) {
	p.view.Update(func(prev OrderView) (OrderView, bool) {
		if p.gen.Load() != gen {
			return prev, false
		}
		return next(prev), true
	})
}

func (p *Poller) run(ctx context.Context, ref string, gen uint64, done chan struct{}) {
	defer p.loops.Done()
	defer close(done)

	if p.fetch(ctx, ref, gen) {
		return
	}

	ticker := p.newTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if p.fetch(ctx, ref, gen) {
				return
			}
		}
	}
}

// fetch refreshes the view once and reports whether polling should end.
func (p *Poller) fetch(ctx context.Context, ref string, gen uint64) bool {
	order, err := p.orders.RefreshOrder(ctx, ref)
	if ctx.Err() != nil {
		return true
	}
	if err != nil {
		p.publish(gen, func(prev OrderView) OrderView {
			return OrderView{Order: prev.Order, Err: err}
		})
		p.logger.Debug("order poll failed", zap.String("ref", ref), zap.Error(err))
		return false
	}

	p.publish(gen, func(OrderView) OrderView { return OrderView{Order: &order} })
	if order.Status.IsTerminal() {
		p.logger.Debug("order reached terminal status, polling stopped",
			zap.String("ref", ref), zap.Stringer("status", order.Status))
		return true
	}
	return false
}
