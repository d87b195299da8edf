package memory

import (
	"context"
	"sort"

	"tourtube/internal/model"
	"tourtube/internal/pagination"
	"tourtube/internal/repository"

	"github.com/lib/pq"
)

// ---- comments ----

type commentStore struct{ s *MemoryStore }

func (s *MemoryStore) commentWithOwner(c model.Comment) model.Comment {
	c.Owner = cloneUser(s.users[c.OwnerID])
	return c
}

func (r commentStore) Create(_ context.Context, comment *model.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	comment.ID = r.s.nextID()
	comment.CreatedAt, comment.UpdatedAt = now, now
	r.s.comments[comment.ID] = *comment
	*comment = r.s.commentWithOwner(*comment)
	return nil
}

func (r commentStore) GetByID(_ context.Context, id int64) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c = r.s.commentWithOwner(c)
	return &c, nil
}

func (r commentStore) UpdateContent(_ context.Context, id int64, content string) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c.Content = content
	c.UpdatedAt = r.s.now()
	r.s.comments[id] = c
	c = r.s.commentWithOwner(c)
	return &c, nil
}

func (r commentStore) DeleteCascade(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return repository.ErrNotFound
	}
	for lid, l := range r.s.likes {
		if l.CommentID != nil && *l.CommentID == id {
			delete(r.s.likes, lid)
		}
	}
	delete(r.s.comments, id)
	return nil
}

func (r commentStore) ListByVideo(_ context.Context, videoID int64, p pagination.Params) ([]model.Comment, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []model.Comment
	for _, c := range r.s.comments {
		if c.VideoID == videoID {
			matched = append(matched, r.s.commentWithOwner(c))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return newestFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})
	return pagination.Slice(matched, p), int64(len(matched)), nil
}

func (r commentStore) CountByVideos(_ context.Context, videoIDs []int64) (map[int64]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[int64]bool, len(videoIDs))
	for _, id := range videoIDs {
		want[id] = true
	}
	counts := make(map[int64]int64, len(videoIDs))
	for _, c := range r.s.comments {
		if want[c.VideoID] {
			counts[c.VideoID]++
		}
	}
	return counts, nil
}

// ---- tweets ----

type tweetStore struct{ s *MemoryStore }

func (s *MemoryStore) tweetWithOwner(t model.Tweet) model.Tweet {
	t.Owner = cloneUser(s.users[t.OwnerID])
	return t
}

func (r tweetStore) Create(_ context.Context, tweet *model.Tweet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	tweet.ID = r.s.nextID()
	tweet.CreatedAt, tweet.UpdatedAt = now, now
	r.s.tweets[tweet.ID] = *tweet
	*tweet = r.s.tweetWithOwner(*tweet)
	return nil
}

func (r tweetStore) GetByID(_ context.Context, id int64) (*model.Tweet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tweets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t = r.s.tweetWithOwner(t)
	return &t, nil
}

func (r tweetStore) UpdateContent(_ context.Context, id int64, content string) (*model.Tweet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tweets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t.Content = content
	t.UpdatedAt = r.s.now()
	r.s.tweets[id] = t
	t = r.s.tweetWithOwner(t)
	return &t, nil
}

func (r tweetStore) DeleteCascade(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tweets[id]; !ok {
		return repository.ErrNotFound
	}
	for lid, l := range r.s.likes {
		if l.TweetID != nil && *l.TweetID == id {
			delete(r.s.likes, lid)
		}
	}
	delete(r.s.tweets, id)
	return nil
}

func (r tweetStore) List(_ context.Context, ownerID *int64, p pagination.Params) ([]model.Tweet, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []model.Tweet
	for _, t := range r.s.tweets {
		if ownerID == nil || t.OwnerID == *ownerID {
			matched = append(matched, r.s.tweetWithOwner(t))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return newestFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})
	return pagination.Slice(matched, p), int64(len(matched)), nil
}

// ---- likes ----

type likeStore struct{ s *MemoryStore }

func (r likeStore) Toggle(_ context.Context, target model.LikeTarget, likerID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, l := range r.s.likes {
		if l.LikedBy == likerID && l.Target() == target {
			delete(r.s.likes, id)
			return false, nil
		}
	}
	like := model.NewLike(target, likerID)
	now := r.s.now()
	like.ID = r.s.nextID()
	like.CreatedAt, like.UpdatedAt = now, now
	r.s.likes[like.ID] = *like
	return true, nil
}

func (r likeStore) Count(_ context.Context, target model.LikeTarget) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, l := range r.s.likes {
		if l.Target() == target {
			count++
		}
	}
	return count, nil
}

func (r likeStore) CountByTargets(_ context.Context, kind model.LikeKind, ids []int64) (map[int64]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	counts := make(map[int64]int64, len(ids))
	for _, l := range r.s.likes {
		t := l.Target()
		if t.Kind == kind && want[t.ID] {
			counts[t.ID]++
		}
	}
	return counts, nil
}

func (r likeStore) LikedBy(_ context.Context, kind model.LikeKind, ids []int64, likerID int64) (map[int64]bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make(map[int64]bool, len(ids))
	for _, id := range ids {
		result[id] = false
	}
	for _, l := range r.s.likes {
		if l.LikedBy != likerID {
			continue
		}
		t := l.Target()
		if _, ok := result[t.ID]; ok && t.Kind == kind {
			result[t.ID] = true
		}
	}
	return result, nil
}

func (r likeStore) ListLikedVideoIDs(_ context.Context, likerID int64, p pagination.Params) ([]int64, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []model.Like
	for _, l := range r.s.likes {
		if l.LikedBy == likerID && l.VideoID != nil {
			matched = append(matched, l)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return newestFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})
	page := pagination.Slice(matched, p)
	ids := make([]int64, 0, len(page))
	for _, l := range page {
		ids = append(ids, *l.VideoID)
	}
	return ids, int64(len(matched)), nil
}

// ---- playlists ----

type playlistStore struct{ s *MemoryStore }

func clonePlaylist(p model.Playlist) model.Playlist {
	p.Videos = cloneInts(p.Videos)
	return p
}

func (r playlistStore) Create(_ context.Context, playlist *model.Playlist) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if playlist.Videos == nil {
		playlist.Videos = pq.Int64Array{}
	}
	now := r.s.now()
	playlist.ID = r.s.nextID()
	playlist.CreatedAt, playlist.UpdatedAt = now, now
	r.s.playlists[playlist.ID] = clonePlaylist(*playlist)
	return nil
}

func (r playlistStore) GetByID(_ context.Context, id int64) (*model.Playlist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.playlists[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = clonePlaylist(p)
	return &p, nil
}

func (r playlistStore) ListByOwner(_ context.Context, ownerID int64, p pagination.Params) ([]model.Playlist, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []model.Playlist
	for _, pl := range r.s.playlists {
		if pl.OwnerID == ownerID {
			matched = append(matched, clonePlaylist(pl))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return newestFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})
	return pagination.Slice(matched, p), int64(len(matched)), nil
}

func (r playlistStore) Update(_ context.Context, id int64, upd repository.PlaylistUpdate) (*model.Playlist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.playlists[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	p.UpdatedAt = r.s.now()
	r.s.playlists[id] = p
	p = clonePlaylist(p)
	return &p, nil
}

func (r playlistStore) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.playlists[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.playlists, id)
	return nil
}

func (r playlistStore) AddVideo(_ context.Context, id, videoID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.playlists[id]
	if !ok || containsID(p.Videos, videoID) {
		return false, nil
	}
	p.Videos = append(cloneInts(p.Videos), videoID)
	p.UpdatedAt = r.s.now()
	r.s.playlists[id] = p
	return true, nil
}

func (r playlistStore) RemoveVideo(_ context.Context, id, videoID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.playlists[id]
	if !ok || !containsID(p.Videos, videoID) {
		return false, nil
	}
	p.Videos = removeID(p.Videos, videoID)
	p.UpdatedAt = r.s.now()
	r.s.playlists[id] = p
	return true, nil
}

// ---- subscriptions ----

type subscriptionStore struct{ s *MemoryStore }

func (r subscriptionStore) Toggle(_ context.Context, subscriberID, channelID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, sub := range r.s.subs {
		if sub.SubscriberID == subscriberID && sub.ChannelID == channelID {
			delete(r.s.subs, id)
			return false, nil
		}
	}
	now := r.s.now()
	sub := model.Subscription{
		ID:           r.s.nextID(),
		SubscriberID: subscriberID,
		ChannelID:    channelID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.s.subs[sub.ID] = sub
	return true, nil
}

func (r subscriptionStore) IsSubscribed(_ context.Context, subscriberID, channelID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sub := range r.s.subs {
		if sub.SubscriberID == subscriberID && sub.ChannelID == channelID {
			return true, nil
		}
	}
	return false, nil
}

func (r subscriptionStore) CountSubscribers(_ context.Context, channelID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, sub := range r.s.subs {
		if sub.ChannelID == channelID {
			count++
		}
	}
	return count, nil
}

func (r subscriptionStore) CountSubscribedTo(_ context.Context, subscriberID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, sub := range r.s.subs {
		if sub.SubscriberID == subscriberID {
			count++
		}
	}
	return count, nil
}

func (r subscriptionStore) CountSubscribersByChannels(_ context.Context, channelIDs []int64) (map[int64]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[int64]bool, len(channelIDs))
	for _, id := range channelIDs {
		want[id] = true
	}
	counts := make(map[int64]int64, len(channelIDs))
	for _, sub := range r.s.subs {
		if want[sub.ChannelID] {
			counts[sub.ChannelID]++
		}
	}
	return counts, nil
}

func (r subscriptionStore) SubscribedChannels(_ context.Context, subscriberID int64, channelIDs []int64) (map[int64]bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make(map[int64]bool, len(channelIDs))
	for _, id := range channelIDs {
		result[id] = false
	}
	for _, sub := range r.s.subs {
		if _, ok := result[sub.ChannelID]; ok && sub.SubscriberID == subscriberID {
			result[sub.ChannelID] = true
		}
	}
	return result, nil
}

func (r subscriptionStore) ListSubscribers(_ context.Context, channelID int64, p pagination.Params) ([]model.Subscription, int64, error) {
	return r.list(func(sub model.Subscription) bool { return sub.ChannelID == channelID }, p)
}

func (r subscriptionStore) ListChannels(_ context.Context, subscriberID int64, p pagination.Params) ([]model.Subscription, int64, error) {
	return r.list(func(sub model.Subscription) bool { return sub.SubscriberID == subscriberID }, p)
}

func (r subscriptionStore) list(match func(model.Subscription) bool, p pagination.Params) ([]model.Subscription, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []model.Subscription
	for _, sub := range r.s.subs {
		if !match(sub) {
			continue
		}
		sub.Subscriber = cloneUser(r.s.users[sub.SubscriberID])
		sub.Channel = cloneUser(r.s.users[sub.ChannelID])
		matched = append(matched, sub)
	}
	sort.Slice(matched, func(i, j int) bool {
		return newestFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})
	return pagination.Slice(matched, p), int64(len(matched)), nil
}
