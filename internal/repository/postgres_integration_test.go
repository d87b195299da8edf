package repository

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"tourtube/internal/config"
	"tourtube/internal/infra/database"
	"tourtube/internal/model"
	"tourtube/internal/pagination"

	"github.com/cockroachdb/cockroach-go/v2/testserver"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	server, err := testserver.NewTestServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "start cockroach test server: %v\n", err)
		os.Exit(1)
	}

	db, err := database.OpenDSN(server.PGURL().String(), &config.DatabaseConfig{
		MaxOpenConns:    8,
		MaxIdleConns:    2,
		ConnMaxLifetime: 60,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to cockroach test server: %v\n", err)
		server.Stop()
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		fmt.Fprintf(os.Stderr, "apply migrations: %v\n", err)
		server.Stop()
		os.Exit(1)
	}
	testDB = db

	code := m.Run()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	server.Stop()
	os.Exit(code)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	if testDB == nil {
		t.Skip("integration test skipped in short mode")
	}
	err := testDB.Exec("TRUNCATE users, videos, comments, likes, tweets, playlists, subscriptions, video_views").Error
	if err != nil {
		t.Fatalf("reset database: %v", err)
	}
	return NewStore(testDB, 5)
}

func seedUser(t *testing.T, s *Store, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: "User " + username,
		Avatar:   "https://cdn.test/avatars/" + username + ".png",
		Password: "hash",
	}
	if err := s.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func seedVideo(t *testing.T, s *Store, ownerID int64, title string) *model.Video {
	t.Helper()
	video := &model.Video{
		OwnerID:     ownerID,
		Title:       title,
		VideoFile:   "https://cdn.test/videos/" + title + ".mp4",
		Thumbnail:   "https://cdn.test/thumbnails/" + title + ".jpg",
		IsPublished: true,
	}
	if err := s.Videos.Create(context.Background(), video); err != nil {
		t.Fatalf("create video %s: %v", title, err)
	}
	return video
}

func TestPostgresUserRepository_CreateLookupAndHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, s, "Alice")
	if alice.Username != "alice" {
		t.Fatalf("username not normalised: %q", alice.Username)
	}

	dup := &model.User{Username: "ALICE", Email: "other@example.com", FullName: "x", Avatar: "a", Password: "p"}
	if err := s.Users.Create(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	found, err := s.Users.GetByUsernameOrEmail(ctx, "", "alice@example.com")
	if err != nil {
		t.Fatalf("lookup by email: %v", err)
	}
	if found.ID != alice.ID {
		t.Fatalf("unexpected user: %+v", found)
	}
	if _, err := s.Users.GetByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	video := seedVideo(t, s, alice.ID, "harbour")
	for i := 0; i < 2; i++ {
		if err := s.Users.AddToWatchHistory(ctx, alice.ID, video.ID); err != nil {
			t.Fatalf("add to history: %v", err)
		}
	}
	got, _ := s.Users.GetByID(ctx, alice.ID)
	if len(got.WatchHistory) != 1 || got.WatchHistory[0] != video.ID {
		t.Fatalf("unexpected watch history: %v", got.WatchHistory)
	}
}

func TestPostgresViewRepository_DedupWindow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := seedUser(t, s, "owner")
	video := seedVideo(t, s, owner.ID, "dunes")

	start := time.Now().UTC().Truncate(time.Second)
	window := time.Hour
	steps := []struct {
		key  string
		at   time.Time
		want bool
	}{
		{"ip:10.0.0.1", start, true},
		{"ip:10.0.0.1", start.Add(30 * time.Minute), false},
		{"user:7", start.Add(30 * time.Minute), true},
		{"ip:10.0.0.1", start.Add(2 * time.Hour), true},
	}
	for i, step := range steps {
		counted, err := s.Views.Record(ctx, video.ID, step.key, step.at, window)
		if err != nil {
			t.Fatalf("step %d: record: %v", i, err)
		}
		if counted != step.want {
			t.Fatalf("step %d: counted=%v want %v", i, counted, step.want)
		}
	}

	got, _ := s.Videos.GetByID(ctx, video.ID)
	if got.Views != 3 {
		t.Fatalf("unexpected views: %d", got.Views)
	}

	purged, err := s.Views.PurgeExpired(ctx, start.Add(time.Hour))
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if purged != 1 {
		t.Fatalf("expected one expired marker, got %d", purged)
	}
}

func TestPostgresLikeRepository_ToggleAndCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := seedUser(t, s, "owner")
	fan := seedUser(t, s, "fan")
	a := seedVideo(t, s, owner.ID, "a")
	b := seedVideo(t, s, owner.ID, "b")
	target := model.LikeTarget{Kind: model.LikeVideo, ID: a.ID}

	for i, want := range []bool{true, false, true} {
		liked, err := s.Likes.Toggle(ctx, target, fan.ID)
		if err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		if liked != want {
			t.Fatalf("toggle %d: liked=%v want %v", i, liked, want)
		}
	}
	mustLike(t, s, target, owner.ID)
	mustLike(t, s, model.LikeTarget{Kind: model.LikeVideo, ID: b.ID}, fan.ID)

	counts, err := s.Likes.CountByTargets(ctx, model.LikeVideo, []int64{a.ID, b.ID})
	if err != nil {
		t.Fatalf("count by targets: %v", err)
	}
	if counts[a.ID] != 2 || counts[b.ID] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}

	liked, err := s.Likes.LikedBy(ctx, model.LikeVideo, []int64{a.ID, b.ID}, owner.ID)
	if err != nil {
		t.Fatalf("liked by: %v", err)
	}
	if !liked[a.ID] || liked[b.ID] {
		t.Fatalf("unexpected liked map: %v", liked)
	}

	ids, total, err := s.Likes.ListLikedVideoIDs(ctx, fan.ID, pagination.New(1, 10))
	if err != nil {
		t.Fatalf("list liked: %v", err)
	}
	if total != 2 || len(ids) != 2 || ids[0] != b.ID {
		t.Fatalf("unexpected liked videos: %v total %d", ids, total)
	}

	// 部分唯一索引拒绝重复点赞
	dup := model.NewLike(target, fan.ID)
	if err := translate(testDB.Create(dup).Error); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate like, got %v", err)
	}
}

func TestPostgresVideoRepository_ListAndDeleteCascade(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := seedUser(t, s, "owner")
	fan := seedUser(t, s, "fan")
	video := seedVideo(t, s, owner.ID, "Volcano_50%")
	keep := seedVideo(t, s, owner.ID, "Glacier")

	videos, total, err := s.Videos.List(ctx, VideoQuery{Search: "_50%", PublishedOnly: true, Page: pagination.New(1, 10)})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(videos) != 1 || videos[0].ID != video.ID || videos[0].Owner.ID != owner.ID {
		t.Fatalf("unexpected search result: %+v", videos)
	}

	comment := &model.Comment{Content: "hot", VideoID: video.ID, OwnerID: fan.ID}
	if err := s.Comments.Create(ctx, comment); err != nil {
		t.Fatalf("create comment: %v", err)
	}
	mustLike(t, s, model.LikeTarget{Kind: model.LikeComment, ID: comment.ID}, owner.ID)
	mustLike(t, s, model.LikeTarget{Kind: model.LikeVideo, ID: video.ID}, fan.ID)
	if counted, err := s.Views.Record(ctx, video.ID, "user:1", time.Now(), time.Hour); err != nil || !counted {
		t.Fatalf("record view: counted=%v err=%v", counted, err)
	}
	for _, id := range []int64{video.ID, keep.ID} {
		if err := s.Users.AddToWatchHistory(ctx, fan.ID, id); err != nil {
			t.Fatalf("add to history: %v", err)
		}
	}

	playlist := &model.Playlist{Name: "favs", OwnerID: fan.ID}
	if err := s.Playlists.Create(ctx, playlist); err != nil {
		t.Fatalf("create playlist: %v", err)
	}
	for _, id := range []int64{video.ID, keep.ID} {
		if added, err := s.Playlists.AddVideo(ctx, playlist.ID, id); err != nil || !added {
			t.Fatalf("add to playlist: added=%v err=%v", added, err)
		}
	}

	if err := s.Videos.DeleteCascade(ctx, video.ID); err != nil {
		t.Fatalf("delete cascade: %v", err)
	}
	if err := s.Videos.DeleteCascade(ctx, video.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}

	if _, err := s.Comments.GetByID(ctx, comment.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("comment survived: %v", err)
	}
	var likes int64
	testDB.Model(&model.Like{}).Count(&likes)
	if likes != 0 {
		t.Fatalf("likes survived: %d", likes)
	}
	var views int64
	testDB.Model(&model.VideoView{}).Count(&views)
	if views != 0 {
		t.Fatalf("view markers survived: %d", views)
	}

	p, _ := s.Playlists.GetByID(ctx, playlist.ID)
	if len(p.Videos) != 1 || p.Videos[0] != keep.ID {
		t.Fatalf("playlist not cleaned: %v", p.Videos)
	}
	u, _ := s.Users.GetByID(ctx, fan.ID)
	if len(u.WatchHistory) != 1 || u.WatchHistory[0] != keep.ID {
		t.Fatalf("watch history not cleaned: %v", u.WatchHistory)
	}
}

func mustLike(t *testing.T, s *Store, target model.LikeTarget, likerID int64) {
	t.Helper()
	liked, err := s.Likes.Toggle(context.Background(), target, likerID)
	if err != nil || !liked {
		t.Fatalf("like %+v by %d: liked=%v err=%v", target, likerID, liked, err)
	}
}

func TestPostgresCommentRepository_DeleteCascadeKeepsSiblings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := seedUser(t, s, "owner")
	fan := seedUser(t, s, "fan")
	video := seedVideo(t, s, owner.ID, "harbour")

	gone := &model.Comment{Content: "to be removed", VideoID: video.ID, OwnerID: fan.ID}
	sibling := &model.Comment{Content: "stays", VideoID: video.ID, OwnerID: fan.ID}
	for _, c := range []*model.Comment{gone, sibling} {
		if err := s.Comments.Create(ctx, c); err != nil {
			t.Fatalf("create comment: %v", err)
		}
		mustLike(t, s, model.LikeTarget{Kind: model.LikeComment, ID: c.ID}, owner.ID)
		mustLike(t, s, model.LikeTarget{Kind: model.LikeComment, ID: c.ID}, fan.ID)
	}

	_, before, err := s.Comments.ListByVideo(ctx, video.ID, pagination.New(1, 10))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := s.Comments.DeleteCascade(ctx, gone.ID); err != nil {
		t.Fatalf("delete cascade: %v", err)
	}

	if n, err := s.Likes.Count(ctx, model.LikeTarget{Kind: model.LikeComment, ID: gone.ID}); err != nil || n != 0 {
		t.Fatalf("likes of deleted comment survived: %d %v", n, err)
	}
	if n, err := s.Likes.Count(ctx, model.LikeTarget{Kind: model.LikeComment, ID: sibling.ID}); err != nil || n != 2 {
		t.Fatalf("sibling likes changed: %d %v", n, err)
	}
	comments, after, err := s.Comments.ListByVideo(ctx, video.ID, pagination.New(1, 10))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if after != before-1 || len(comments) != 1 || comments[0].ID != sibling.ID || comments[0].Content != "stays" {
		t.Fatalf("unexpected comments after delete: before=%d after=%d %+v", before, after, comments)
	}
}

func TestPostgresSubscriptionRepository_Toggle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	channel := seedUser(t, s, "channel")
	fan := seedUser(t, s, "fan")
	other := seedUser(t, s, "other")

	if on, err := s.Subscriptions.Toggle(ctx, fan.ID, channel.ID); err != nil || !on {
		t.Fatalf("subscribe: on=%v err=%v", on, err)
	}
	s.Subscriptions.Toggle(ctx, other.ID, channel.ID)
	if on, err := s.Subscriptions.Toggle(ctx, other.ID, channel.ID); err != nil || on {
		t.Fatalf("unsubscribe: on=%v err=%v", on, err)
	}

	n, err := s.Subscriptions.CountSubscribers(ctx, channel.ID)
	if err != nil || n != 1 {
		t.Fatalf("unexpected subscriber count: %d %v", n, err)
	}
	subs, total, err := s.Subscriptions.ListSubscribers(ctx, channel.ID, pagination.New(1, 10))
	if err != nil {
		t.Fatalf("list subscribers: %v", err)
	}
	if total != 1 || subs[0].Subscriber.Username != "fan" {
		t.Fatalf("unexpected subscribers: %+v", subs)
	}
}
