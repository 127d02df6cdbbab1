package care_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"tamagitchi/internal/domain/care"
	"tamagitchi/internal/domain/pets"
	"tamagitchi/internal/platform/logger"
)

func TestService_DegradeAll(t *testing.T) {
	store := memStore()
	c := newClock()
	svc, _ := newService(t, store, c)
	ctx := context.Background()

	for _, colo := range []string{"DFW", "LHR", "NRT"} {
		if _, err := svc.Interact(ctx, feed(colo, "coffee")); err != nil {
			t.Fatalf("interact: %v", err)
		}
	}

	c.Advance(5 * time.Hour)
	sum, err := svc.DegradeAll(ctx)
	if err != nil {
		t.Fatalf("degrade all: %v", err)
	}
	if sum.Partitions != 3 || sum.Failed != 0 || sum.Processed != 3 || sum.Updated != 3 {
		t.Fatalf("unexpected summary %#v", sum)
	}
	if len(sum.Results) != 3 || sum.Results[0].Partition != "DFW" || sum.Results[2].Partition != "NRT" {
		t.Fatalf("expected results sorted by colo, got %#v", sum.Results)
	}

	p, _ := svc.Pet(ctx, "lhr")
	if p.Health != 90 || p.Hunger != 20 {
		t.Fatalf("expected 5h of decay on LHR, got %#v", p.Vitals)
	}

	again, err := svc.DegradeAll(ctx)
	if err != nil || again.Updated != 0 || again.Skipped != 3 {
		t.Fatalf("expected no-op second run, got %#v (%v)", again, err)
	}
}

func TestService_DegradeAllReportsFailures(t *testing.T) {
	store := memStore()
	fp := &failingPets{Repository: store.Pets}
	store.Pets = fp

	c := newClock()
	svc, _ := newService(t, store, c)
	ctx := context.Background()

	for _, colo := range []string{"DFW", "LHR"} {
		if _, err := svc.Interact(ctx, feed(colo, "pizza")); err != nil {
			t.Fatalf("interact: %v", err)
		}
	}

	fp.setFailUpdate(true)
	c.Advance(2 * time.Hour)

	sum, err := svc.DegradeAll(ctx)
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped persistence error, got %v", err)
	}
	if sum.Failed != 2 || sum.Updated != 0 || sum.Processed != 2 || sum.Unsaved != 2 {
		t.Fatalf("unexpected summary %#v", sum)
	}
	for _, r := range sum.Results {
		if r.Success {
			t.Fatalf("expected failed result for %s", r.Partition)
		}
	}
}

func TestService_DegradeInvalidColo(t *testing.T) {
	svc, _ := newService(t, memStore(), newClock())
	if _, err := svc.Degrade(context.Background(), "D4W"); !errors.Is(err, care.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_PetNotFound(t *testing.T) {
	svc, _ := newService(t, memStore(), newClock())
	if _, err := svc.Pet(context.Background(), "SFO"); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_LeaderboardAndFeed(t *testing.T) {
	store := memStore()
	c := newClock()
	svc, _ := newService(t, store, c)
	ctx := context.Background()

	steps := []care.Interaction{
		feed("DFW", "sushi"),
		play("LHR", "code-challenge"),
		play("LHR", "creative"),
		feed("NRT", "apple"),
	}
	for _, in := range steps {
		c.Advance(time.Minute)
		if _, err := svc.Interact(ctx, in); err != nil {
			t.Fatalf("interact: %v", err)
		}
	}

	top, err := svc.Leaderboard(ctx, 2)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(top) != 2 || top[0].Partition != "LHR" || top[1].Partition != "DFW" {
		t.Fatalf("unexpected leaderboard %#v", top)
	}

	items, err := svc.Feed(ctx, 0)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 feed items, got %d", len(items))
	}
	if items[0].Message != "octocat fed apple to Tama-NRT" {
		t.Fatalf("unexpected newest message %q", items[0].Message)
	}
	if items[1].Message != "octocat played creative with Tama-LHR" {
		t.Fatalf("unexpected message %q", items[1].Message)
	}
}

func TestService_FeedCSV(t *testing.T) {
	svc, _ := newService(t, memStore(), newClock())
	ctx := context.Background()

	empty, err := svc.FeedCSV(ctx, 10)
	if err != nil {
		t.Fatalf("empty csv: %v", err)
	}
	if !strings.HasPrefix(string(empty), "occurred_at,colo,pet,owner,type,subtype,points") {
		t.Fatalf("expected header only, got %q", string(empty))
	}

	issue := int64(7)
	in := feed("DFW", "pizza")
	in.IssueNumber = &issue
	if _, err := svc.Interact(ctx, in); err != nil {
		t.Fatalf("interact: %v", err)
	}

	b, err := svc.FeedCSV(ctx, 10)
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %q", string(b))
	}
	if lines[0] != string(empty[:len(empty)-1]) {
		t.Fatalf("header mismatch: %q vs %q", lines[0], string(empty))
	}
	if !strings.Contains(lines[1], "DFW,Tama-DFW,octocat,feed,pizza,10,10") || !strings.Contains(lines[1], ",7,") {
		t.Fatalf("unexpected row %q", lines[1])
	}
}

func TestClampLimit(t *testing.T) {
	if care.ClampLimit(0) != 10 || care.ClampLimit(-3) != 10 || care.ClampLimit(500) != 100 || care.ClampLimit(25) != 25 {
		t.Fatalf("unexpected clamp")
	}
}

type countingDegrader struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (d *countingDegrader) DegradeAll(context.Context) (care.RunSummary, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	return care.RunSummary{Partitions: 1}, d.err
}

func (d *countingDegrader) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func TestScheduler_TicksUntilCanceled(t *testing.T) {
	d := &countingDegrader{err: errBoom}
	s := care.NewScheduler(d, 10*time.Millisecond, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for d.count() < 2 {
		select {
		case <-deadline:
			t.Fatalf("scheduler did not tick twice, got %d", d.count())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	<-done
}
