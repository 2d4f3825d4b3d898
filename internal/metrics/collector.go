package metrics

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// SystemCollector publishes process runtime stats and the build version.
type SystemCollector struct {
	metrics   *Metrics
	logger    *zap.Logger
	startTime time.Time
	loop      *loop
}

func NewSystemCollector(metrics *Metrics, logger *zap.Logger) *SystemCollector {
	return &SystemCollector{metrics: metrics, logger: logger, startTime: time.Now()}
}

func (sc *SystemCollector) Start(service string, interval time.Duration) {
	sc.metrics.SetServiceVersion(service, Version)
	sc.loop = startLoop(interval, sc.collect)

	sc.logger.Info("System metrics collector started",
		zap.String("service", service),
		zap.String("version", Version),
		zap.Duration("interval", interval))
}

func (sc *SystemCollector) Stop() {
	sc.loop.stop()
}

func (sc *SystemCollector) collect(context.Context) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	sc.metrics.UpdateSystemMetrics(time.Since(sc.startTime), &memStats)
}

// loop calls fn immediately and then on every tick until stopped.
type loop struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func startLoop(interval time.Duration, fn func(ctx context.Context)) *loop {
	ctx, cancel := context.WithCancel(context.Background())
	l := &loop{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(l.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		fn(ctx)
		for {
			select {
			case <-ticker.C:
				fn(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()

	return l
}

// stop is safe on a nil loop and waits for the running fn to return.
func (l *loop) stop() {
	if l == nil {
		return
	}
	l.cancel()
	<-l.done
}
