package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tourtube/internal/repository"
)

func TestViewerKey(t *testing.T) {
	if got := ViewerKey(ptr(int64(7)), "10.0.0.1"); got != "user:7" {
		t.Fatalf("unexpected key for user: %q", got)
	}
	if got := ViewerKey(nil, "10.0.0.1"); got != "ip:10.0.0.1" {
		t.Fatalf("unexpected key for anonymous viewer: %q", got)
	}
}

func TestViewRecorderCountsDistinctViewersOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")
	video := f.createVideo(t, owner.ID, "Tour of Lisbon", true)

	viewers := []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}
	for _, addr := range viewers {
		counted, err := f.views.Record(ctx, video.ID, nil, addr)
		if err != nil {
			t.Fatalf("record view: %v", err)
		}
		if !counted {
			t.Fatalf("first view from %s was not counted", addr)
		}
	}
	// 窗口期内重复观看不计数
	for _, addr := range viewers {
		counted, err := f.views.Record(ctx, video.ID, nil, addr)
		if err != nil {
			t.Fatalf("record view: %v", err)
		}
		if counted {
			t.Fatalf("repeat view from %s was counted", addr)
		}
	}

	got, err := f.store.Videos.GetByID(ctx, video.ID)
	if err != nil {
		t.Fatalf("get video: %v", err)
	}
	if got.Views != int64(len(viewers)) {
		t.Fatalf("unexpected views: got %d want %d", got.Views, len(viewers))
	}
}

func TestViewRecorderCountsAgainAfterWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")
	video := f.createVideo(t, owner.ID, "Tour of Porto", true)

	if counted, _ := f.views.Record(ctx, video.ID, nil, "10.0.0.1"); !counted {
		t.Fatal("first view was not counted")
	}
	f.advance(23 * time.Hour)
	if counted, _ := f.views.Record(ctx, video.ID, nil, "10.0.0.1"); counted {
		t.Fatal("view inside the window was counted")
	}
	f.advance(2 * time.Hour)
	if counted, _ := f.views.Record(ctx, video.ID, nil, "10.0.0.1"); !counted {
		t.Fatal("view after the window was not counted")
	}

	got, _ := f.store.Videos.GetByID(ctx, video.ID)
	if got.Views != 2 {
		t.Fatalf("unexpected views: got %d want 2", got.Views)
	}
}

func TestViewRecorderUpdatesWatchHistoryEvenWhenNotCounted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")
	viewer := f.createUser(t, "viewer")
	first := f.createVideo(t, owner.ID, "First", true)
	second := f.createVideo(t, owner.ID, "Second", true)

	if _, err := f.views.Record(ctx, first.ID, &viewer.ID, "10.0.0.9"); err != nil {
		t.Fatalf("record view: %v", err)
	}
	// 去重标记存在，但观看历史仍然要包含第二个视频
	if _, err := f.views.Record(ctx, first.ID, &viewer.ID, "10.0.0.9"); err != nil {
		t.Fatalf("record view: %v", err)
	}
	if _, err := f.views.Record(ctx, second.ID, &viewer.ID, "10.0.0.9"); err != nil {
		t.Fatalf("record view: %v", err)
	}

	u, err := f.store.Users.GetByID(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if len(u.WatchHistory) != 2 || u.WatchHistory[0] != first.ID || u.WatchHistory[1] != second.ID {
		t.Fatalf("unexpected watch history: %v", u.WatchHistory)
	}
}

func TestViewRecorderPurgeDropsExpiredMarkers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")
	video := f.createVideo(t, owner.ID, "Tour of Faro", true)

	f.views.Record(ctx, video.ID, nil, "10.0.0.1")
	f.advance(12 * time.Hour)
	f.views.Record(ctx, video.ID, nil, "10.0.0.2")
	f.advance(13 * time.Hour)

	purged, err := f.views.Purge(ctx)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if purged != 1 {
		t.Fatalf("unexpected purged count: got %d want 1", purged)
	}
}

func TestViewRecorderRunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	r := NewViewRecorder(f.store.Views, f.store.Users, time.Hour, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

type brokenHistory struct {
	repository.UserStore
}

func (brokenHistory) AddToWatchHistory(context.Context, int64, int64) error {
	return errors.New("connection reset")
}

func TestVideoGetSurvivesWatchHistoryFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")
	viewer := f.createUser(t, "viewer")
	video := f.createVideo(t, owner.ID, "Tour of Braga", true)

	views := NewViewRecorder(f.store.Views, brokenHistory{f.store.Users}, 24*time.Hour, 0)
	views.now = f.now
	videos := NewVideoService(f.store, f.users, f.engagement, views, f.media, f.events, nil, nil)

	info, err := videos.Get(ctx, video.ID, &viewer.ID, "10.0.0.1")
	if err != nil {
		t.Fatalf("get should not fail on history error: %v", err)
	}
	if info.Views != 1 {
		t.Fatalf("view should still be counted, got %d", info.Views)
	}
}
