package prometheus

import (
	"context"
	"sync"
	"time"

	"github.com/kade-holloway/go-forkjoin/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// PoolSnapshotProvider provides current pool stats snapshots. *core.Pool
// satisfies this via its Stats method.
type PoolSnapshotProvider interface {
	Stats() core.PoolStats
}

// SnapshotPoller periodically exports one or more pools' Stats() snapshots
// into Prometheus gauges, for state that Metrics' push-style callbacks
// don't cover on their own — queue depth and steal/miss counts are useful
// to sample on an interval even between task executions.
type SnapshotPoller struct {
	interval time.Duration

	poolsMu sync.RWMutex
	pools   map[string]PoolSnapshotProvider

	poolQueueDepth *prom.GaugeVec
	poolWorkers    *prom.GaugeVec
	poolSteals     *prom.GaugeVec
	poolMisses     *prom.GaugeVec
	poolTerminated *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collectors.
func NewSnapshotPoller(reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	poolQueueDepth := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "forkjoin",
		Name:      "pool_queue_depth",
		Help:      "Total pending items across every endpoint of a pool.",
	}, []string{"pool", "strategy"})
	poolWorkers := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "forkjoin",
		Name:      "pool_workers",
		Help:      "Worker goroutine count per pool.",
	}, []string{"pool", "strategy"})
	poolSteals := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "forkjoin",
		Name:      "pool_steals",
		Help:      "Cumulative successful steals for a pool.",
	}, []string{"pool", "strategy"})
	poolMisses := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "forkjoin",
		Name:      "pool_misses",
		Help:      "Cumulative full-scan steal misses for a pool.",
	}, []string{"pool", "strategy"})
	poolTerminated := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "forkjoin",
		Name:      "pool_terminated",
		Help:      "Pool termination state (1=terminated, 0=running).",
	}, []string{"pool", "strategy"})

	var err error
	if poolQueueDepth, err = registerCollector(reg, poolQueueDepth); err != nil {
		return nil, err
	}
	if poolWorkers, err = registerCollector(reg, poolWorkers); err != nil {
		return nil, err
	}
	if poolSteals, err = registerCollector(reg, poolSteals); err != nil {
		return nil, err
	}
	if poolMisses, err = registerCollector(reg, poolMisses); err != nil {
		return nil, err
	}
	if poolTerminated, err = registerCollector(reg, poolTerminated); err != nil {
		return nil, err
	}

	return &SnapshotPoller{
		interval:       interval,
		pools:          make(map[string]PoolSnapshotProvider),
		poolQueueDepth: poolQueueDepth,
		poolWorkers:    poolWorkers,
		poolSteals:     poolSteals,
		poolMisses:     poolMisses,
		poolTerminated: poolTerminated,
	}, nil
}

// AddPool adds or replaces a pool snapshot provider by name.
func (p *SnapshotPoller) AddPool(name string, provider PoolSnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	name = normalizeLabel(name, "pool")
	p.poolsMu.Lock()
	p.pools[name] = provider
	p.poolsMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *SnapshotPoller) collectOnce() {
	p.poolsMu.RLock()
	defer p.poolsMu.RUnlock()

	for name, provider := range p.pools {
		stats := provider.Stats()
		strategy := stats.Strategy.String()
		p.poolQueueDepth.WithLabelValues(name, strategy).Set(float64(stats.QueueDepth))
		p.poolWorkers.WithLabelValues(name, strategy).Set(float64(stats.Workers))
		p.poolSteals.WithLabelValues(name, strategy).Set(float64(stats.Steals))
		p.poolMisses.WithLabelValues(name, strategy).Set(float64(stats.Misses))
		if stats.Terminated {
			p.poolTerminated.WithLabelValues(name, strategy).Set(1)
		} else {
			p.poolTerminated.WithLabelValues(name, strategy).Set(0)
		}
	}
}
