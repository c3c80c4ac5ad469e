package analysispool

import (
	"bytes"
	"context"
	"sync"
	"time"

	"combatlog_check/analysis"
	"combatlog_check/cache"

	"github.com/rs/zerolog/log"
)

// Runner renders the result of one request into buf.
type Runner interface {
	Do(ctx context.Context, reqData *analysis.RequestData, progress func(p string), buf *bytes.Buffer) bool
}

// Pool runs queued requests one at a time and caches rendered results.
type Pool struct {
	runner  Runner
	results *cache.Storage

	queueLock sync.Mutex
	queue     []*queueData
	queueWake chan struct{}

	// CloseDelay is how long a finished connection is kept open before the
	// close frame is sent.
	CloseDelay time.Duration
}

// New returns a pool. results may be nil to disable result caching.
func New(runner Runner, results *cache.Storage) *Pool {
	return &Pool{
		runner:    runner,
		results:   results,
		queue:     make([]*queueData, 0, 16),
		queueWake: make(chan struct{}, 1),

		CloseDelay: time.Second,
	}
}

// Start runs the queue worker until ctx is done.
func (p *Pool) Start(ctx context.Context) {
	go p.queueWorker(ctx)
}

func (p *Pool) enqueue(q *queueData) int {
	p.queueLock.Lock()
	defer p.queueLock.Unlock()

	p.queue = append(p.queue, q)

	select {
	case p.queueWake <- struct{}{}:
	default:
	}

	return len(p.queue)
}

func (p *Pool) queueWorker(ctx context.Context) {
	var q *queueData

	for {
		q = nil

		p.queueLock.Lock()
		if len(p.queue) > 0 {
			q = p.queue[0]

			for i := 1; i < len(p.queue); i++ {
				go p.queue[i].Reorder(i)
				p.queue[i-1] = p.queue[i]
			}
			p.queue[len(p.queue)-1] = nil
			p.queue = p.queue[:len(p.queue)-1]
		}
		p.queueLock.Unlock()

		if q == nil {
			select {
			case <-ctx.Done():
				return
			case <-p.queueWake:
			}
			continue
		}

		p.run(q)
	}
}

func (p *Pool) run(q *queueData) {
	logger := log.With().Str("job", q.id).Str("report", q.reqData.ReportCode).Logger()
	logger.Info().Msg("start")

	if q.ctx.Err() != nil {
		logger.Info().Msg("skipped, client gone")
		return
	}

	q.Start()

	res := p.runner.Do(q.ctx, &q.reqData, q.Progress, q.buf)
	select {
	case <-q.ctx.Done():
	case q.chanResult <- res:
	}

	logger.Info().Bool("ok", res).Msg("end")
}
