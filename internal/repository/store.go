package repository

import "gorm.io/gorm"

// NewStore 基于 gorm 构造全部仓储，txMaxAttempts 为可串行化事务的最大尝试次数
func NewStore(db *gorm.DB, txMaxAttempts int) *Store {
	tx := txRunner{db: db, maxAttempts: txMaxAttempts}
	return &Store{
		Users:         NewUserRepository(db),
		Videos:        NewVideoRepository(db, tx),
		Comments:      NewCommentRepository(db, tx),
		Tweets:        NewTweetRepository(db, tx),
		Likes:         NewLikeRepository(db, tx),
		Playlists:     NewPlaylistRepository(db),
		Subscriptions: NewSubscriptionRepository(db, tx),
		Views:         NewViewRepository(tx),
	}
}
