package usecase

import (
	"context"
	"testing"
	"time"

	"NewsDesk/internal/ports"
)

type driverStub struct {
	job     func(time.Time)
	started int
	stopped int
}

var _ ports.Scheduler = (*driverStub)(nil)

func (d *driverStub) Start(ctx context.Context, job func(time.Time)) error {
	d.job = job
	d.started++
	return nil
}

func (d *driverStub) Stop(ctx context.Context) error {
	d.stopped++
	return nil
}

func TestSchedulerRunsPipelineOnTrigger(t *testing.T) {
	t.Parallel()

	source := &fetchStub{articles: duplicatePair()}
	pipeline := NewPipeline(Deps{Config: testConfig(), Source: source})
	driver := &driverStub{}
	s := NewScheduler(driver, pipeline, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start returned error: %v", err)
	}
	if driver.started != 1 || driver.job == nil {
		t.Fatalf("expected job registered with driver, got %+v", driver)
	}

	driver.job(runAt)
	if source.calls != 1 {
		t.Fatalf("expected one pipeline run after trigger, got %d", source.calls)
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop returned error: %v", err)
	}
	if driver.stopped != 1 {
		t.Fatalf("expected driver stopped once, got %d", driver.stopped)
	}
}

func TestSchedulerWithoutDriver(t *testing.T) {
	t.Parallel()

	s := NewScheduler(nil, nil, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("expected nil start without driver, got %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("expected nil stop without driver, got %v", err)
	}
}
