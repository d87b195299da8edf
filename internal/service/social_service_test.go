package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tourtube/internal/api/dto"
	"tourtube/internal/model"
	"tourtube/internal/pagination"
)

func TestToggleLikeParityAndCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")
	video := f.createVideo(t, owner.ID, "Harbour", true)

	var fans []int64
	for _, name := range []string{"ana", "ben", "cid"} {
		fans = append(fans, f.createUser(t, name).ID)
	}

	for i, id := range fans {
		data, err := f.likes.ToggleVideo(ctx, video.ID, id)
		if err != nil {
			t.Fatalf("toggle like: %v", err)
		}
		if !data.IsLiked || data.LikesCount != int64(i+1) {
			t.Fatalf("unexpected toggle result: %+v", data)
		}
	}

	// 偶数次切换回到未点赞
	data, err := f.likes.ToggleVideo(ctx, video.ID, fans[0])
	if err != nil {
		t.Fatalf("toggle like: %v", err)
	}
	if data.IsLiked || data.LikesCount != 2 {
		t.Fatalf("unexpected toggle result: %+v", data)
	}

	info, err := f.videos.Get(ctx, video.ID, &fans[1], "10.0.0.1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if info.LikesCount != 2 || !info.IsLiked {
		t.Fatalf("unexpected aggregated likes: %+v", info)
	}
}

func TestToggleLikeMissingTargets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "user")
	owner := f.createUser(t, "owner")
	draft := f.createVideo(t, owner.ID, "Draft", false)

	if _, err := f.likes.ToggleVideo(ctx, 404, user.ID); !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("expected ErrVideoNotFound, got %v", err)
	}
	if _, err := f.likes.ToggleVideo(ctx, draft.ID, user.ID); !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("expected ErrVideoNotFound for draft, got %v", err)
	}
	if _, err := f.likes.ToggleComment(ctx, 404, user.ID); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
	if _, err := f.likes.ToggleTweet(ctx, 404, user.ID); !errors.Is(err, ErrTweetNotFound) {
		t.Fatalf("expected ErrTweetNotFound, got %v", err)
	}
}

func TestLikedVideosNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")
	fan := f.createUser(t, "fan")
	a := f.createVideo(t, owner.ID, "A", true)
	b := f.createVideo(t, owner.ID, "B", true)

	f.likes.ToggleVideo(ctx, a.ID, fan.ID)
	f.advance(time.Minute)
	f.likes.ToggleVideo(ctx, b.ID, fan.ID)

	data, err := f.likes.LikedVideos(ctx, fan.ID, pagination.New(1, 10))
	if err != nil {
		t.Fatalf("liked videos: %v", err)
	}
	if data.TotalVideos != 2 || data.Videos[0].ID != b.ID || data.Videos[1].ID != a.ID {
		t.Fatalf("unexpected liked videos: %+v", data.Videos)
	}
	if !data.Videos[0].IsLiked {
		t.Fatal("liked video should report isLiked")
	}
}

func TestSubscriptionToggle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	channel := f.createUser(t, "channel")
	fan := f.createUser(t, "fan")

	if _, err := f.subscriptions.Toggle(ctx, channel.ID, channel.ID); !errors.Is(err, ErrSelfSubscribe) {
		t.Fatalf("expected ErrSelfSubscribe, got %v", err)
	}
	// 自己订阅自己的检查先于频道是否存在
	if _, err := f.subscriptions.Toggle(ctx, 999, 999); !errors.Is(err, ErrSelfSubscribe) {
		t.Fatalf("expected ErrSelfSubscribe for missing channel, got %v", err)
	}
	if _, err := f.subscriptions.Toggle(ctx, fan.ID, 999); !errors.Is(err, ErrChannelNotFound) {
		t.Fatalf("expected ErrChannelNotFound, got %v", err)
	}

	data, err := f.subscriptions.Toggle(ctx, fan.ID, channel.ID)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if !data.Subscribed || data.SubscribersCount != 1 {
		t.Fatalf("unexpected toggle result: %+v", data)
	}

	profile, err := f.users.ChannelProfile(ctx, "CHANNEL", &fan.ID)
	if err != nil {
		t.Fatalf("channel profile: %v", err)
	}
	if !profile.IsSubscribed || profile.SubscribersCount != 1 || profile.Email != "" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	data, _ = f.subscriptions.Toggle(ctx, fan.ID, channel.ID)
	if data.Subscribed || data.SubscribersCount != 0 {
		t.Fatalf("unexpected toggle result: %+v", data)
	}
}

func TestSubscriberListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	channel := f.createUser(t, "channel")
	other := f.createUser(t, "other")
	fan := f.createUser(t, "fan")

	f.subscriptions.Toggle(ctx, fan.ID, channel.ID)
	f.advance(time.Minute)
	f.subscriptions.Toggle(ctx, fan.ID, other.ID)
	f.subscriptions.Toggle(ctx, channel.ID, other.ID)

	subs, err := f.subscriptions.ListSubscribers(ctx, other.ID, pagination.New(1, 10), &fan.ID)
	if err != nil {
		t.Fatalf("list subscribers: %v", err)
	}
	if subs.TotalSubscribers != 2 {
		t.Fatalf("unexpected subscriber total: %d", subs.TotalSubscribers)
	}
	for _, s := range subs.Subscribers {
		if s.ID == channel.ID && (!s.IsSubscribed || s.SubscribersCount != 1) {
			t.Fatalf("unexpected subscriber snippet: %+v", s)
		}
	}

	channels, err := f.subscriptions.ListSubscribedChannels(ctx, fan.ID, pagination.New(1, 10))
	if err != nil {
		t.Fatalf("list channels: %v", err)
	}
	if channels.TotalChannels != 2 || channels.Channels[0].ID != other.ID {
		t.Fatalf("unexpected channels: %+v", channels.Channels)
	}

	if _, err := f.subscriptions.ListSubscribers(ctx, 999, pagination.New(1, 10), nil); !errors.Is(err, ErrChannelNotFound) {
		t.Fatalf("expected ErrChannelNotFound, got %v", err)
	}
}

func TestCommentOwnershipGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")
	author := f.createUser(t, "author")
	stranger := f.createUser(t, "stranger")
	video := f.createVideo(t, owner.ID, "Market", true)

	comment, err := f.comments.Create(ctx, video.ID, author.ID, "  nice  ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if comment.Content != "nice" || comment.Owner.ID != author.ID {
		t.Fatalf("unexpected comment: %+v", comment)
	}

	if _, err := f.comments.Update(ctx, 999, stranger.ID, "x"); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
	if _, err := f.comments.Update(ctx, comment.ID, stranger.ID, "x"); !errors.Is(err, ErrCommentForbidden) {
		t.Fatalf("expected ErrCommentForbidden, got %v", err)
	}
	// 视频作者也不能删除别人的评论
	if err := f.comments.Delete(ctx, comment.ID, owner.ID); !errors.Is(err, ErrCommentForbidden) {
		t.Fatalf("expected ErrCommentForbidden, got %v", err)
	}

	updated, err := f.comments.Update(ctx, comment.ID, author.ID, "nicer")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Content != "nicer" {
		t.Fatalf("unexpected content: %q", updated.Content)
	}

	if liked, err := f.likes.ToggleComment(ctx, comment.ID, stranger.ID); err != nil || !liked.IsLiked {
		t.Fatalf("like comment: %+v %v", liked, err)
	}
	if err := f.comments.Delete(ctx, comment.ID, author.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.likes.ToggleComment(ctx, comment.ID, stranger.ID); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound after delete, got %v", err)
	}
}

func TestCommentDeleteRemovesOnlyItsLikes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")
	fan := f.createUser(t, "fan")
	video := f.createVideo(t, owner.ID, "Harbour", true)

	gone, err := f.comments.Create(ctx, video.ID, fan.ID, "to be removed")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.advance(time.Second)
	sibling, err := f.comments.Create(ctx, video.ID, fan.ID, "stays")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, id := range []int64{gone.ID, sibling.ID} {
		for _, liker := range []int64{owner.ID, fan.ID} {
			if liked, err := f.likes.ToggleComment(ctx, id, liker); err != nil || !liked.IsLiked {
				t.Fatalf("like comment %d: %+v %v", id, liked, err)
			}
		}
	}

	before, err := f.comments.ListByVideo(ctx, video.ID, pagination.New(1, 10), nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := f.comments.Delete(ctx, gone.ID, fan.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if n, err := f.store.Likes.Count(ctx, model.LikeTarget{Kind: model.LikeComment, ID: gone.ID}); err != nil || n != 0 {
		t.Fatalf("likes of deleted comment survived: %d %v", n, err)
	}
	if n, err := f.store.Likes.Count(ctx, model.LikeTarget{Kind: model.LikeComment, ID: sibling.ID}); err != nil || n != 2 {
		t.Fatalf("sibling likes changed: %d %v", n, err)
	}

	after, err := f.comments.ListByVideo(ctx, video.ID, pagination.New(1, 10), &owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if after.TotalComments != before.TotalComments-1 {
		t.Fatalf("unexpected total: before %d after %d", before.TotalComments, after.TotalComments)
	}
	if len(after.Comments) != 1 || after.Comments[0].ID != sibling.ID {
		t.Fatalf("unexpected comments: %+v", after.Comments)
	}
	if c := after.Comments[0]; c.Content != "stays" || c.LikesCount != 2 || !c.IsLiked {
		t.Fatalf("sibling comment changed: %+v", c)
	}
}

func TestCommentListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")
	fan := f.createUser(t, "fan")
	video := f.createVideo(t, owner.ID, "Bridge", true)
	draft := f.createVideo(t, owner.ID, "Draft", false)

	for _, text := range []string{"first", "second", "third"} {
		f.advance(time.Second)
		if _, err := f.comments.Create(ctx, video.ID, fan.ID, text); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	data, err := f.comments.ListByVideo(ctx, video.ID, pagination.New(1, 2), nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if data.TotalComments != 3 || len(data.Comments) != 2 || data.Comments[0].Content != "third" {
		t.Fatalf("unexpected listing: %+v", data)
	}
	if !data.HasNextPage || data.TotalPages != 2 {
		t.Fatalf("unexpected meta: %+v", data.Meta)
	}

	if _, err := f.comments.ListByVideo(ctx, draft.ID, pagination.New(1, 10), &fan.ID); !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("expected ErrVideoNotFound for draft, got %v", err)
	}
	if _, err := f.comments.Create(ctx, draft.ID, fan.ID, "hi"); !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("expected ErrVideoNotFound creating on draft, got %v", err)
	}

	videoInfo, err := f.videos.Get(ctx, video.ID, nil, "10.0.0.1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if videoInfo.CommentsCount != 3 {
		t.Fatalf("unexpected comments count: %d", videoInfo.CommentsCount)
	}
}

func TestPlaylistAddIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")
	stranger := f.createUser(t, "stranger")
	video := f.createVideo(t, owner.ID, "Lake", true)
	hidden := f.createVideo(t, stranger.ID, "Hidden", false)

	playlist, err := f.playlists.Create(ctx, owner.ID, &dto.PlaylistCreateRequest{Name: " Trips ", Description: "2024"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if playlist.Name != "Trips" || playlist.TotalVideos != 0 {
		t.Fatalf("unexpected playlist: %+v", playlist)
	}

	info, added, err := f.playlists.AddVideo(ctx, playlist.ID, video.ID, owner.ID)
	if err != nil || !added || info.TotalVideos != 1 {
		t.Fatalf("first add: info=%+v added=%v err=%v", info, added, err)
	}
	info, added, err = f.playlists.AddVideo(ctx, playlist.ID, video.ID, owner.ID)
	if err != nil || added || info.TotalVideos != 1 {
		t.Fatalf("second add: info=%+v added=%v err=%v", info, added, err)
	}

	if _, _, err := f.playlists.AddVideo(ctx, playlist.ID, hidden.ID, owner.ID); !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("expected ErrVideoNotFound for hidden video, got %v", err)
	}
	if _, _, err := f.playlists.AddVideo(ctx, playlist.ID, video.ID, stranger.ID); !errors.Is(err, ErrPlaylistForbidden) {
		t.Fatalf("expected ErrPlaylistForbidden, got %v", err)
	}
	if _, _, err := f.playlists.AddVideo(ctx, 999, video.ID, stranger.ID); !errors.Is(err, ErrPlaylistNotFound) {
		t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
	}

	info, removed, err := f.playlists.RemoveVideo(ctx, playlist.ID, video.ID, owner.ID)
	if err != nil || !removed || info.TotalVideos != 0 {
		t.Fatalf("remove: info=%+v removed=%v err=%v", info, removed, err)
	}
	_, removed, err = f.playlists.RemoveVideo(ctx, playlist.ID, video.ID, owner.ID)
	if err != nil || removed {
		t.Fatalf("second remove: removed=%v err=%v", removed, err)
	}
}

func TestPlaylistGetSkipsVideosHiddenFromViewer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")
	viewer := f.createUser(t, "viewer")
	a := f.createVideo(t, owner.ID, "A", true)
	b := f.createVideo(t, owner.ID, "B", true)

	playlist, _ := f.playlists.Create(ctx, owner.ID, &dto.PlaylistCreateRequest{Name: "mix"})
	f.playlists.AddVideo(ctx, playlist.ID, b.ID, owner.ID)
	f.playlists.AddVideo(ctx, playlist.ID, a.ID, owner.ID)
	f.videos.TogglePublish(ctx, b.ID, owner.ID)

	got, err := f.playlists.Get(ctx, playlist.ID, &viewer.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Videos) != 1 || got.Videos[0].ID != a.ID {
		t.Fatalf("unexpected videos for viewer: %+v", got.Videos)
	}
	mine, _ := f.playlists.Get(ctx, playlist.ID, &owner.ID)
	if len(mine.Videos) != 2 || mine.Videos[0].ID != b.ID {
		t.Fatalf("unexpected videos for owner: %+v", mine.Videos)
	}
}

func TestPlaylistUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")
	stranger := f.createUser(t, "stranger")
	playlist, _ := f.playlists.Create(ctx, owner.ID, &dto.PlaylistCreateRequest{Name: "old"})

	if _, err := f.playlists.Update(ctx, playlist.ID, owner.ID, &dto.PlaylistUpdateRequest{}); !errors.Is(err, ErrNoFieldsToUpdate) {
		t.Fatalf("expected ErrNoFieldsToUpdate, got %v", err)
	}
	if _, err := f.playlists.Update(ctx, playlist.ID, stranger.ID, &dto.PlaylistUpdateRequest{Name: ptr("x")}); !errors.Is(err, ErrPlaylistForbidden) {
		t.Fatalf("expected ErrPlaylistForbidden, got %v", err)
	}
	updated, err := f.playlists.Update(ctx, playlist.ID, owner.ID, &dto.PlaylistUpdateRequest{Name: ptr("new")})
	if err != nil || updated.Name != "new" {
		t.Fatalf("update: %+v %v", updated, err)
	}

	list, err := f.playlists.ListByUser(ctx, owner.ID, pagination.New(1, 10))
	if err != nil || list.TotalPlaylists != 1 {
		t.Fatalf("list: %+v %v", list, err)
	}
	if _, err := f.playlists.ListByUser(ctx, 999, pagination.New(1, 10)); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if err := f.playlists.Delete(ctx, playlist.ID, owner.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.playlists.Get(ctx, playlist.ID, nil); !errors.Is(err, ErrPlaylistNotFound) {
		t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
	}
}

func TestTweetLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.createUser(t, "author")
	other := f.createUser(t, "other")

	first, err := f.tweets.Create(ctx, author.ID, "hello")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.advance(time.Second)
	f.tweets.Create(ctx, other.ID, "hi there")

	all, err := f.tweets.List(ctx, pagination.New(1, 10), nil)
	if err != nil || all.TotalTweets != 2 || all.Tweets[0].Content != "hi there" {
		t.Fatalf("list: %+v %v", all, err)
	}
	mine, err := f.tweets.ListByUser(ctx, author.ID, pagination.New(1, 10), &author.ID)
	if err != nil || mine.TotalTweets != 1 || mine.Tweets[0].Owner.Email != author.Email {
		t.Fatalf("list by user: %+v %v", mine, err)
	}
	if _, err := f.tweets.ListByUser(ctx, 999, pagination.New(1, 10), nil); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if _, err := f.tweets.Update(ctx, first.ID, other.ID, "hacked"); !errors.Is(err, ErrTweetForbidden) {
		t.Fatalf("expected ErrTweetForbidden, got %v", err)
	}
	liked, err := f.likes.ToggleTweet(ctx, first.ID, other.ID)
	if err != nil || !liked.IsLiked || liked.LikesCount != 1 {
		t.Fatalf("like tweet: %+v %v", liked, err)
	}
	updated, err := f.tweets.Update(ctx, first.ID, author.ID, "hello world")
	if err != nil || updated.Content != "hello world" || updated.LikesCount != 1 {
		t.Fatalf("update: %+v %v", updated, err)
	}

	if err := f.tweets.Delete(ctx, first.ID, author.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.tweets.Delete(ctx, first.ID, author.ID); !errors.Is(err, ErrTweetNotFound) {
		t.Fatalf("expected ErrTweetNotFound, got %v", err)
	}
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.createUser(t, "owner")
	fan := f.createUser(t, "fan")
	a := f.createVideo(t, owner.ID, "A", true)
	f.createVideo(t, owner.ID, "B", false)

	f.videos.Get(ctx, a.ID, nil, "10.0.0.1")
	f.videos.Get(ctx, a.ID, nil, "10.0.0.2")
	f.likes.ToggleVideo(ctx, a.ID, fan.ID)
	f.subscriptions.Toggle(ctx, fan.ID, owner.ID)

	stats, err := f.dashboard.Stats(ctx, owner.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := dto.ChannelStats{TotalVideos: 2, TotalViews: 2, TotalSubscribers: 1, TotalLikes: 1}
	if *stats != want {
		t.Fatalf("unexpected stats: got %+v want %+v", *stats, want)
	}

	videos, err := f.dashboard.Videos(ctx, owner.ID, pagination.New(1, 10))
	if err != nil {
		t.Fatalf("dashboard videos: %v", err)
	}
	if videos.TotalVideos != 2 || videos.Videos[0].Title != "B" {
		t.Fatalf("unexpected dashboard videos: %+v", videos.Videos)
	}
}
