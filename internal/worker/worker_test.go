package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	infraES "tourtube/internal/infra/elasticsearch"
	infraKafka "tourtube/internal/infra/kafka"
	"tourtube/internal/model"
	"tourtube/internal/repository/memory"
)

type fakeIndex struct {
	upserted []*infraES.VideoDoc
	deleted  []int64
	bulk     [][]int64
}

func (f *fakeIndex) Upsert(_ context.Context, doc *infraES.VideoDoc) error {
	f.upserted = append(f.upserted, doc)
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, videoID int64) error {
	f.deleted = append(f.deleted, videoID)
	return nil
}

func (f *fakeIndex) BulkUpsert(_ context.Context, videos []model.Video) (int, int, error) {
	ids := make([]int64, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}
	f.bulk = append(f.bulk, ids)
	return len(videos), 0, nil
}

func TestIndexSyncerHandle(t *testing.T) {
	idx := &fakeIndex{}
	s := NewIndexSyncer(idx)
	ctx := context.Background()

	if err := s.Handle(ctx, &infraKafka.VideoEvent{Type: infraKafka.VideoPublished, VideoID: 3, Title: "Dunes", IsPublished: true}); err != nil {
		t.Fatalf("handle published: %v", err)
	}
	if err := s.Handle(ctx, &infraKafka.VideoEvent{Type: infraKafka.VideoDeleted, VideoID: 3}); err != nil {
		t.Fatalf("handle deleted: %v", err)
	}
	if err := s.Handle(ctx, &infraKafka.VideoEvent{Type: infraKafka.VideoUpdated}); err != nil {
		t.Fatalf("handle event without id: %v", err)
	}

	if len(idx.upserted) != 1 || idx.upserted[0].ID != 3 || idx.upserted[0].Title != "Dunes" {
		t.Fatalf("unexpected upserts: %+v", idx.upserted)
	}
	if len(idx.deleted) != 1 || idx.deleted[0] != 3 {
		t.Fatalf("unexpected deletes: %v", idx.deleted)
	}
}

func TestIndexSyncerReindexPagesThroughAllVideos(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	owner := &model.User{Username: "owner", Email: "owner@example.com", FullName: "Owner", Avatar: "a", Password: "x"}
	if err := store.Users.Create(ctx, owner); err != nil {
		t.Fatalf("create user: %v", err)
	}
	for i := 0; i < 5; i++ {
		v := &model.Video{OwnerID: owner.ID, Title: "v", VideoFile: "f", Thumbnail: "t", IsPublished: i%2 == 0}
		if err := store.Videos.Create(ctx, v); err != nil {
			t.Fatalf("create video: %v", err)
		}
	}

	idx := &fakeIndex{}
	total, err := NewIndexSyncer(idx).Reindex(ctx, store.Videos, 2)
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if total != 5 {
		t.Fatalf("unexpected total: %d", total)
	}
	if len(idx.bulk) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(idx.bulk))
	}
}

type flakyStore struct {
	failing map[string]bool
	deleted []string
}

func (s *flakyStore) Delete(_ context.Context, fileURL string) error {
	if s.failing[fileURL] {
		return errors.New("unavailable")
	}
	s.deleted = append(s.deleted, fileURL)
	return nil
}

type recordingQueue struct {
	tasks []*infraKafka.MediaCleanupTask
}

func (q *recordingQueue) EnqueueMediaCleanup(_ context.Context, task *infraKafka.MediaCleanupTask) error {
	q.tasks = append(q.tasks, task)
	return nil
}

func newTestJanitor(store MediaDeleter, queue CleanupQueue, maxAttempts int) *MediaJanitor {
	j := NewMediaJanitor(store, queue, maxAttempts)
	j.backoff = func(int) time.Duration { return time.Millisecond }
	return j
}

func TestMediaJanitorRequeuesOnlyFailedURLs(t *testing.T) {
	store := &flakyStore{failing: map[string]bool{"b": true}}
	queue := &recordingQueue{}
	j := newTestJanitor(store, queue, 3)

	err := j.Handle(context.Background(), &infraKafka.MediaCleanupTask{URLs: []string{"a", "b"}, Attempt: 1, Reason: "video deleted"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "a" {
		t.Fatalf("unexpected deletes: %v", store.deleted)
	}
	if len(queue.tasks) != 1 {
		t.Fatalf("expected one requeued task, got %d", len(queue.tasks))
	}
	task := queue.tasks[0]
	if len(task.URLs) != 1 || task.URLs[0] != "b" || task.Attempt != 2 || task.Reason != "video deleted" {
		t.Fatalf("unexpected requeued task: %+v", task)
	}
}

func TestMediaJanitorGivesUpAfterMaxAttempts(t *testing.T) {
	store := &flakyStore{failing: map[string]bool{"b": true}}
	queue := &recordingQueue{}
	j := newTestJanitor(store, queue, 3)

	if err := j.Handle(context.Background(), &infraKafka.MediaCleanupTask{URLs: []string{"b"}, Attempt: 3}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(queue.tasks) != 0 {
		t.Fatalf("task should be dropped, got %+v", queue.tasks)
	}
}

func TestMediaJanitorStopsWaitingOnCancel(t *testing.T) {
	store := &flakyStore{failing: map[string]bool{"b": true}}
	queue := &recordingQueue{}
	j := NewMediaJanitor(store, queue, 5)
	j.backoff = func(int) time.Duration { return time.Hour }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := j.Handle(ctx, &infraKafka.MediaCleanupTask{URLs: []string{"b"}, Attempt: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(queue.tasks) != 0 {
		t.Fatalf("nothing should be requeued: %+v", queue.tasks)
	}
}

func TestExponentialBackoff(t *testing.T) {
	tests := map[int]time.Duration{
		0:  time.Second,
		1:  time.Second,
		2:  2 * time.Second,
		4:  8 * time.Second,
		7:  time.Minute,
		20: time.Minute,
	}
	for attempt, want := range tests {
		if got := exponentialBackoff(attempt); got != want {
			t.Errorf("exponentialBackoff(%d) = %v, want %v", attempt, got, want)
		}
	}
}
