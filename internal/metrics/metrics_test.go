package metrics

import (
	"testing"
	"time"
)

func TestCountersAccumulate(t *testing.T) {
	t.Parallel()

	m := New()
	m.AddCandidates(10)
	m.AddCandidates(5)
	m.AddSelected(3)
	m.AddRejected(12)
	m.AddJudgeFailures(2)
	m.AddDuplicatesExcluded(1)
	m.IncrementDigestsSent()
	m.SetLastRun()

	stats := m.GetStats()
	if stats["candidates_fetched"] != int64(15) {
		t.Fatalf("expected candidates_fetched 15, got %v", stats["candidates_fetched"])
	}
	if stats["articles_selected"] != int64(3) {
		t.Fatalf("expected articles_selected 3, got %v", stats["articles_selected"])
	}
	if stats["articles_rejected"] != int64(12) {
		t.Fatalf("expected articles_rejected 12, got %v", stats["articles_rejected"])
	}
	if stats["judge_failures"] != int64(2) {
		t.Fatalf("expected judge_failures 2, got %v", stats["judge_failures"])
	}
	if stats["duplicates_excluded"] != int64(1) {
		t.Fatalf("expected duplicates_excluded 1, got %v", stats["duplicates_excluded"])
	}
	if stats["digests_sent"] != int64(1) {
		t.Fatalf("expected digests_sent 1, got %v", stats["digests_sent"])
	}
	if stats["runs_completed"] != int64(1) {
		t.Fatalf("expected runs_completed 1, got %v", stats["runs_completed"])
	}
}

func TestRunDurationAveraging(t *testing.T) {
	t.Parallel()

	m := New()
	m.RecordRunDuration(2 * time.Second)
	m.RecordRunDuration(4 * time.Second)

	stats := m.GetStats()
	if stats["last_run_duration_ms"] != int64(4000) {
		t.Fatalf("expected last duration 4000ms, got %v", stats["last_run_duration_ms"])
	}
	if stats["average_run_duration_ms"] != int64(3000) {
		t.Fatalf("expected average duration 3000ms, got %v", stats["average_run_duration_ms"])
	}
}

func TestErrorFlipsHealth(t *testing.T) {
	t.Parallel()

	m := New()
	if stats := m.GetStats(); stats["is_healthy"] != true {
		t.Fatalf("expected fresh metrics healthy, got %v", stats["is_healthy"])
	}

	m.SetError("search api down")
	stats := m.GetStats()
	if stats["is_healthy"] != false {
		t.Fatalf("expected unhealthy after error, got %v", stats["is_healthy"])
	}
	if stats["runs_failed"] != int64(1) {
		t.Fatalf("expected runs_failed 1, got %v", stats["runs_failed"])
	}
	if stats["last_error"] != "search api down" {
		t.Fatalf("expected last_error recorded, got %v", stats["last_error"])
	}

	m.SetLastRun()
	if stats := m.GetStats(); stats["is_healthy"] != true {
		t.Fatalf("expected healthy after successful run, got %v", stats["is_healthy"])
	}
}
