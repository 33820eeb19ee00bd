package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobFunc 定义作业执行函数
type JobFunc func(ctx context.Context) error

// Scheduler 周期作业调度器，Start 时每个作业先立即执行一次
type Scheduler struct {
	mu      sync.Mutex
	jobs    []*scheduledJob
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	tl      *zap.Logger
}

type scheduledJob struct {
	name     string
	interval time.Duration
	timeout  time.Duration
	fn       JobFunc
}

func NewScheduler(tl *zap.Logger) *Scheduler {
	return &Scheduler{tl: tl}
}

// Register 注册周期作业，单次执行超时为 interval/2，interval <= 0 的作业不注册
func (s *Scheduler) Register(name string, interval time.Duration, fn JobFunc) {
	if interval <= 0 {
		s.tl.Warn("Job disabled, interval not positive", zap.String("job", name))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, &scheduledJob{
		name:     name,
		interval: interval,
		timeout:  interval / 2,
		fn:       fn,
	})
	s.tl.Info("Registered job", zap.String("job", name), zap.Duration("interval", interval))
}

func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	for _, j := range s.jobs {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.loop(runCtx, j)
		}()
	}
}

// Stop 取消所有作业并等待退出，ctx 到期后不再等待
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.tl.Warn("Stopping scheduler...")
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.tl.Info("All jobs stopped successfully")
	case <-ctx.Done():
		s.tl.Warn("Context deadline exceeded while waiting for jobs to stop")
	}
}

func (s *Scheduler) loop(ctx context.Context, j *scheduledJob) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	s.execute(ctx, j)
	for {
		select {
		case <-ticker.C:
			s.execute(ctx, j)
		case <-ctx.Done():
			s.tl.Info("Stopping job", zap.String("job", j.name))
			return
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, j *scheduledJob) {
	jobCtx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	start := time.Now()
	if err := j.fn(jobCtx); err != nil {
		s.tl.Error("Job execution failed",
			zap.String("job", j.name),
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}
	s.tl.Debug("Job execution completed",
		zap.String("job", j.name),
		zap.Duration("duration", time.Since(start)))
}
