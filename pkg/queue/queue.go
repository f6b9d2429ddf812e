package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"StockCast/pkg/logger"
)

// Service publishes messages for background processing.
type Service interface {
	PublishMessage(ctx context.Context, msgType string, payload interface{}) error
}

// Config contains the configuration for the pool.
type Config struct {
	Workers    int           // number of workers
	QueueSize  int           // size of the queue
	RetryLimit int           // number of maximum retries
	RetryDelay time.Duration // time delay between retries
}

// Message represents a message in the queue.
type Message struct {
	Type      string
	Payload   interface{}
	Attempts  int
	Timestamp time.Time
}

// Pool is an in-process worker pool dispatching messages to registered jobs
// by message type.
type Pool struct {
	cfg  Config
	log  *logger.Logger
	jobs map[string]Job
	ch   chan Message
	wg   sync.WaitGroup

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
}

// NewPool creates a worker pool.
func NewPool(cfg Config, log *logger.Logger) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}

	return &Pool{
		cfg:  cfg,
		log:  log,
		jobs: make(map[string]Job),
		ch:   make(chan Message, cfg.QueueSize),
	}
}

// Register adds a job handler. Must be called before Start.
func (p *Pool) Register(job Job) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs[job.Type()] = job
}

// PublishMessage enqueues a message. Returns an error when the queue is full.
func (p *Pool) PublishMessage(ctx context.Context, msgType string, payload interface{}) error {
	msg := Message{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	select {
	case p.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("queue full, dropping message type %s", msgType)
	}
}

// Start launches the workers.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

// Stop cancels the workers and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	cancel := p.cancel
	p.mu.Unlock()

	cancel()
	p.wg.Wait()
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-p.ch:
			p.handle(ctx, msg)
		}
	}
}

func (p *Pool) handle(ctx context.Context, msg Message) {
	p.mu.Lock()
	job, ok := p.jobs[msg.Type]
	p.mu.Unlock()

	if !ok {
		p.log.Warn("no job registered for message type", logger.String("type", msg.Type))
		return
	}

	err := job.Handle(ctx, msg.Payload)
	if err == nil {
		return
	}

	if msg.Attempts < p.cfg.RetryLimit {
		msg.Attempts++
		p.log.Warn("job failed, retrying",
			logger.String("job", job.Name()),
			logger.Int("attempt", msg.Attempts),
			logger.Error(err),
		)
		select {
		case <-ctx.Done():
		case <-time.After(p.cfg.RetryDelay):
			select {
			case p.ch <- msg:
			default:
				p.log.Error("queue full, dropping retry", logger.String("job", job.Name()))
			}
		}
		return
	}

	p.log.Error("job failed permanently",
		logger.String("job", job.Name()),
		logger.Int("attempts", msg.Attempts),
		logger.Error(err),
	)
}
