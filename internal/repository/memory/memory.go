// Package memory 仓储接口的内存实现，语义与 Postgres 实现保持一致，用于测试和本地开发
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tourtube/internal/model"
	"tourtube/internal/pagination"
	"tourtube/internal/repository"

	"github.com/lib/pq"
)

type viewKey struct {
	videoID   int64
	viewerKey string
}

// MemoryStore 所有表共用一把锁，单个方法内的多步修改天然是原子的
type MemoryStore struct {
	mu        sync.Mutex
	seq       int64
	users     map[int64]model.User
	videos    map[int64]model.Video
	comments  map[int64]model.Comment
	tweets    map[int64]model.Tweet
	likes     map[int64]model.Like
	playlists map[int64]model.Playlist
	subs      map[int64]model.Subscription
	views     map[viewKey]time.Time
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     map[int64]model.User{},
		videos:    map[int64]model.Video{},
		comments:  map[int64]model.Comment{},
		tweets:    map[int64]model.Tweet{},
		likes:     map[int64]model.Like{},
		playlists: map[int64]model.Playlist{},
		subs:      map[int64]model.Subscription{},
		views:     map[viewKey]time.Time{},
		now:       time.Now,
	}
}

// NewStore 返回基于内存的全部仓储
func NewStore() *repository.Store {
	return NewMemoryStore().Repositories()
}

// Repositories 以仓储接口暴露同一份内存数据
func (s *MemoryStore) Repositories() *repository.Store {
	return &repository.Store{
		Users:         userStore{s},
		Videos:        videoStore{s},
		Comments:      commentStore{s},
		Tweets:        tweetStore{s},
		Likes:         likeStore{s},
		Playlists:     playlistStore{s},
		Subscriptions: subscriptionStore{s},
		Views:         viewStore{s},
	}
}

// SetNow 替换时间源（测试使用）
func (s *MemoryStore) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) nextID() int64 {
	s.seq++
	return s.seq
}

func cloneInts(in []int64) pq.Int64Array {
	out := make(pq.Int64Array, len(in))
	copy(out, in)
	return out
}

func cloneUser(u model.User) model.User {
	u.WatchHistory = cloneInts(u.WatchHistory)
	return u
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []int64, id int64) pq.Int64Array {
	out := make(pq.Int64Array, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// newestFirst created_at 倒序，相同时间按 id 倒序
func newestFirst(aTime, bTime time.Time, aID, bID int64) bool {
	if !aTime.Equal(bTime) {
		return aTime.After(bTime)
	}
	return aID > bID
}

// ---- users ----

type userStore struct{ s *MemoryStore }

func (r userStore) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user.Username = strings.ToLower(user.Username)
	user.Email = strings.ToLower(user.Email)
	for _, u := range r.s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrConflict
		}
	}

	now := r.s.now()
	user.ID = r.s.nextID()
	user.CreatedAt, user.UpdatedAt = now, now
	if user.WatchHistory == nil {
		user.WatchHistory = pq.Int64Array{}
	}
	r.s.users[user.ID] = cloneUser(*user)
	return nil
}

func (r userStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u = cloneUser(u)
	return &u, nil
}

func (r userStore) GetByIDs(_ context.Context, ids []int64) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := make([]model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			users = append(users, cloneUser(u))
		}
	}
	return users, nil
}

func (r userStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	username = strings.ToLower(username)
	for _, u := range r.s.users {
		if u.Username == username {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userStore) GetByUsernameOrEmail(_ context.Context, username, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	username, email = strings.ToLower(username), strings.ToLower(email)
	for _, u := range r.s.users {
		if u.Username == username || u.Email == email {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userStore) Update(_ context.Context, id int64, upd repository.UserUpdate) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.Email != nil {
		email := strings.ToLower(*upd.Email)
		for otherID, other := range r.s.users {
			if otherID != id && other.Email == email {
				return nil, repository.ErrConflict
			}
		}
		u.Email = email
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Avatar != nil {
		u.Avatar = *upd.Avatar
	}
	if upd.CoverImage != nil {
		u.CoverImage = *upd.CoverImage
	}
	if upd.Password != nil {
		u.Password = *upd.Password
	}
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	u = cloneUser(u)
	return &u, nil
}

func (r userStore) SetRefreshToken(_ context.Context, id int64, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshToken = token
	r.s.users[id] = u
	return nil
}

func (r userStore) Search(_ context.Context, query string, limit int) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := strings.ToLower(query)
	var users []model.User
	for _, u := range r.s.users {
		if strings.Contains(u.Username, q) || strings.Contains(strings.ToLower(u.FullName), q) {
			users = append(users, cloneUser(u))
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r userStore) AddToWatchHistory(_ context.Context, userID, videoID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok || containsID(u.WatchHistory, videoID) {
		return nil
	}
	u.WatchHistory = append(cloneInts(u.WatchHistory), videoID)
	r.s.users[userID] = u
	return nil
}

// ---- videos ----

type videoStore struct{ s *MemoryStore }

// withOwner 模拟 Preload("Owner")，调用方需持有锁
func (s *MemoryStore) withOwner(v model.Video) model.Video {
	v.Owner = cloneUser(s.users[v.OwnerID])
	return v
}

func (r videoStore) Create(_ context.Context, video *model.Video) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	video.ID = r.s.nextID()
	video.CreatedAt, video.UpdatedAt = now, now
	r.s.videos[video.ID] = *video
	return nil
}

func (r videoStore) GetByID(_ context.Context, id int64) (*model.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.videos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v = r.s.withOwner(v)
	return &v, nil
}

func (r videoStore) GetByIDs(_ context.Context, ids []int64) ([]model.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	videos := make([]model.Video, 0, len(ids))
	for _, id := range ids {
		if v, ok := r.s.videos[id]; ok {
			videos = append(videos, r.s.withOwner(v))
		}
	}
	return videos, nil
}

func (r videoStore) List(_ context.Context, q repository.VideoQuery) ([]model.Video, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	search := strings.ToLower(q.Search)
	var matched []model.Video
	for _, v := range r.s.videos {
		if search != "" && !strings.Contains(strings.ToLower(v.Title), search) {
			continue
		}
		if q.OwnerID != nil && v.OwnerID != *q.OwnerID {
			continue
		}
		if q.PublishedOnly && !v.IsPublished {
			continue
		}
		matched = append(matched, r.s.withOwner(v))
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if q.SortDesc {
			a, b = b, a
		}
		var less, equal bool
		switch q.SortBy {
		case repository.SortByViews:
			less, equal = a.Views < b.Views, a.Views == b.Views
		case repository.SortByDuration:
			less, equal = a.Duration < b.Duration, a.Duration == b.Duration
		case repository.SortByTitle:
			less, equal = a.Title < b.Title, a.Title == b.Title
		default:
			less, equal = a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
		}
		if equal {
			less = a.ID < b.ID
		}
		return less
	})

	return pagination.Slice(matched, q.Page), int64(len(matched)), nil
}

func (r videoStore) Update(_ context.Context, id int64, upd repository.VideoUpdate) (*model.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.videos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.Title != nil {
		v.Title = *upd.Title
	}
	if upd.Description != nil {
		v.Description = *upd.Description
	}
	if upd.Thumbnail != nil {
		v.Thumbnail = *upd.Thumbnail
	}
	v.UpdatedAt = r.s.now()
	r.s.videos[id] = v
	v = r.s.withOwner(v)
	return &v, nil
}

func (r videoStore) TogglePublished(_ context.Context, id int64) (*model.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.videos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v.IsPublished = !v.IsPublished
	v.UpdatedAt = r.s.now()
	r.s.videos[id] = v
	v = r.s.withOwner(v)
	return &v, nil
}

func (r videoStore) DeleteCascade(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.videos[id]; !ok {
		return repository.ErrNotFound
	}

	for cid, c := range r.s.comments {
		if c.VideoID != id {
			continue
		}
		for lid, l := range r.s.likes {
			if l.CommentID != nil && *l.CommentID == cid {
				delete(r.s.likes, lid)
			}
		}
		delete(r.s.comments, cid)
	}
	for lid, l := range r.s.likes {
		if l.VideoID != nil && *l.VideoID == id {
			delete(r.s.likes, lid)
		}
	}
	for k := range r.s.views {
		if k.videoID == id {
			delete(r.s.views, k)
		}
	}
	for pid, p := range r.s.playlists {
		if containsID(p.Videos, id) {
			p.Videos = removeID(p.Videos, id)
			r.s.playlists[pid] = p
		}
	}
	for uid, u := range r.s.users {
		if containsID(u.WatchHistory, id) {
			u.WatchHistory = removeID(u.WatchHistory, id)
			r.s.users[uid] = u
		}
	}
	delete(r.s.videos, id)
	return nil
}

func (r videoStore) ChannelStats(_ context.Context, ownerID int64) (repository.ChannelStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var stats repository.ChannelStats
	owned := map[int64]bool{}
	for _, v := range r.s.videos {
		if v.OwnerID == ownerID {
			stats.TotalVideos++
			stats.TotalViews += v.Views
			owned[v.ID] = true
		}
	}
	for _, l := range r.s.likes {
		if l.VideoID != nil && owned[*l.VideoID] {
			stats.TotalLikes++
		}
	}
	return stats, nil
}

// ---- views ----

type viewStore struct{ s *MemoryStore }

func (r viewStore) Record(_ context.Context, videoID int64, viewerKey string, now time.Time, window time.Duration) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := viewKey{videoID: videoID, viewerKey: viewerKey}
	if last, ok := r.s.views[key]; ok && !last.Before(now.Add(-window)) {
		return false, nil
	}
	r.s.views[key] = now
	if v, ok := r.s.videos[videoID]; ok {
		v.Views++
		r.s.videos[videoID] = v
	}
	return true, nil
}

func (r viewStore) PurgeExpired(_ context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var purged int64
	for k, t := range r.s.views {
		if t.Before(cutoff) {
			delete(r.s.views, k)
			purged++
		}
	}
	return purged, nil
}
