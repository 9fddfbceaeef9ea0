package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool runs batches of tile jobs on a fixed set of goroutines.
//
// Each worker has its own queue and steals from the others when it runs
// dry, which evens out tiles that take longer than their neighbours (a tile
// under many layers costs more than an empty one).
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int

	// queues holds one buffered queue per worker.
	queues []chan func()

	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	own := p.queues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case job := <-own:
			job()
			continue
		default:
		}

		if job := p.steal(id); job != nil {
			job()
			continue
		}
		select {
		case <-p.done:
			p.drain(own)
			return
		case job := <-own:
			job()
		}
	}
}

func (p *WorkerPool) drain(queue chan func()) {
	for {
		select {
		case job := <-queue:
			job()
		default:
			return
		}
	}
}

// steal takes one job from another worker's queue, or returns nil.
func (p *WorkerPool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case job := <-p.queues[i]:
			return job
		default:
		}
	}
	return nil
}

// ExecuteAll runs every job and waits for them to finish.
//
// Jobs that have not started when ctx is cancelled are skipped; jobs
// already running are not interrupted. ExecuteAll returns ctx.Err() when
// it was cancelled. On a closed pool it runs nothing and returns nil.
func (p *WorkerPool) ExecuteAll(ctx context.Context, jobs []func()) error {
	if len(jobs) == 0 || !p.running.Load() {
		return ctx.Err()
	}

	var pending sync.WaitGroup
	pending.Add(len(jobs))
	for i, fn := range jobs {
		job := func() {
			defer pending.Done()
			if ctx.Err() != nil {
				return
			}
			fn()
		}
		select {
		case p.queues[i%p.workers] <- job:
		case <-p.done:
			pending.Done()
		case <-ctx.Done():
			pending.Done()
		}
	}
	pending.Wait()
	return ctx.Err()
}

// Close stops accepting work, finishes queued jobs and stops the workers.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
