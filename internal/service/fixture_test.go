package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	infraKafka "tourtube/internal/infra/kafka"
	"tourtube/internal/model"
	"tourtube/internal/repository"
	"tourtube/internal/repository/memory"
)

type fakeMedia struct {
	mu         sync.Mutex
	seq        int
	uploaded   []string
	deleted    []string
	failUpload bool
	failDelete map[string]bool
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{failDelete: map[string]bool{}}
}

func (m *fakeMedia) Upload(_ context.Context, folder, filename string, r io.Reader, _ int64, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpload {
		return "", errors.New("bucket unavailable")
	}
	m.seq++
	u := fmt.Sprintf("https://cdn.test/%s/%d-%s", folder, m.seq, filename)
	m.uploaded = append(m.uploaded, u)
	return u, nil
}

func (m *fakeMedia) Delete(_ context.Context, fileURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelete[fileURL] {
		return errors.New("delete failed")
	}
	m.deleted = append(m.deleted, fileURL)
	return nil
}

func (m *fakeMedia) wasDeleted(u string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.deleted {
		if d == u {
			return true
		}
	}
	return false
}

type recordingPublisher struct {
	mu       sync.Mutex
	events   []*infraKafka.VideoEvent
	cleanups []*infraKafka.MediaCleanupTask
}

func (p *recordingPublisher) PublishVideoEvent(_ context.Context, event *infraKafka.VideoEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) EnqueueMediaCleanup(_ context.Context, task *infraKafka.MediaCleanupTask) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cleanups = append(p.cleanups, task)
	return nil
}

func (p *recordingPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

type fixture struct {
	mem    *memory.MemoryStore
	store  *repository.Store
	media  *fakeMedia
	events *recordingPublisher
	clock  time.Time

	views         *ViewRecorder
	engagement    *Engagement
	users         *UserService
	videos        *VideoService
	comments      *CommentService
	likes         *LikeService
	playlists     *PlaylistService
	subscriptions *SubscriptionService
	tweets        *TweetService
	dashboard     *DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		mem:    memory.NewMemoryStore(),
		media:  newFakeMedia(),
		events: &recordingPublisher{},
		clock:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.mem.SetNow(f.now)
	f.store = f.mem.Repositories()

	f.views = NewViewRecorder(f.store.Views, f.store.Users, 24*time.Hour, 0)
	f.views.now = f.now
	f.engagement = NewEngagement(f.store)
	f.users = NewUserService(f.store, f.engagement, f.media, f.events)
	f.videos = NewVideoService(f.store, f.users, f.engagement, f.views, f.media, f.events, nil, nil)
	f.comments = NewCommentService(f.store, f.engagement)
	f.likes = NewLikeService(f.store, f.engagement)
	f.playlists = NewPlaylistService(f.store, f.engagement)
	f.subscriptions = NewSubscriptionService(f.store, f.engagement)
	f.tweets = NewTweetService(f.store, f.engagement)
	f.dashboard = NewDashboardService(f.store, f.engagement)
	return f
}

func (f *fixture) now() time.Time { return f.clock }

// advance 同时推进内存仓储和播放去重的时钟
func (f *fixture) advance(d time.Duration) { f.clock = f.clock.Add(d) }

func (f *fixture) createUser(t *testing.T, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: strings.ToUpper(username[:1]) + username[1:],
		Avatar:   "https://cdn.test/avatars/" + username + ".png",
		Password: "hashed",
	}
	if err := f.store.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func (f *fixture) createVideo(t *testing.T, ownerID int64, title string, published bool) *model.Video {
	t.Helper()
	f.advance(time.Second)
	slug := strings.ReplaceAll(strings.ToLower(title), " ", "-")
	video := &model.Video{
		OwnerID:     ownerID,
		Title:       title,
		VideoFile:   "https://cdn.test/videos/" + slug + ".mp4",
		Thumbnail:   "https://cdn.test/thumbnails/" + slug + ".jpg",
		Duration:    42,
		IsPublished: published,
	}
	if err := f.store.Videos.Create(context.Background(), video); err != nil {
		t.Fatalf("create video %s: %v", title, err)
	}
	return video
}

func upload(name, contentType, body string) *FileUpload {
	return &FileUpload{
		Filename:    name,
		Size:        int64(len(body)),
		ContentType: contentType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func ptr[T any](v T) *T { return &v }
