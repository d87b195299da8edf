package service

import (
	"errors"

	"tourtube/internal/apperr"
	"tourtube/internal/model"
	"tourtube/internal/repository"
)

var (
	ErrUserNotFound        = apperr.New(apperr.KindNotFound, "User not found")
	ErrChannelNotFound     = apperr.New(apperr.KindNotFound, "Channel not found")
	ErrUserExists          = apperr.New(apperr.KindConflict, "User with email or username already exists")
	ErrInvalidCredentials  = apperr.New(apperr.KindUnauthenticated, "Invalid user credentials")
	ErrWrongPassword       = apperr.New(apperr.KindValidation, "Invalid old password")
	ErrAvatarRequired      = apperr.New(apperr.KindValidation, "Avatar file is required")
	ErrCoverImageRequired  = apperr.New(apperr.KindValidation, "Cover image file is required")
	ErrTokenRequired       = apperr.New(apperr.KindUnauthenticated, "Unauthorized request")
	ErrInvalidAccessToken  = apperr.New(apperr.KindUnauthenticated, "Invalid access token")
	ErrTokenRevoked        = apperr.New(apperr.KindUnauthenticated, "Access token has been revoked")
	ErrInvalidRefreshToken = apperr.New(apperr.KindUnauthenticated, "Invalid refresh token")
	ErrRefreshTokenUsed    = apperr.New(apperr.KindUnauthenticated, "Refresh token is expired or used")

	ErrVideoNotFound      = apperr.New(apperr.KindNotFound, "Video not found")
	ErrVideoForbidden     = apperr.New(apperr.KindForbidden, "You are not allowed to modify this video")
	ErrVideoFileRequired  = apperr.New(apperr.KindValidation, "Video file is required")
	ErrThumbnailRequired  = apperr.New(apperr.KindValidation, "Thumbnail is required")
	ErrNoFieldsToUpdate   = apperr.New(apperr.KindValidation, "Nothing to update")
	ErrCommentNotFound    = apperr.New(apperr.KindNotFound, "Comment not found")
	ErrCommentForbidden   = apperr.New(apperr.KindForbidden, "You are not allowed to modify this comment")
	ErrTweetNotFound      = apperr.New(apperr.KindNotFound, "Tweet not found")
	ErrTweetForbidden     = apperr.New(apperr.KindForbidden, "You are not allowed to modify this tweet")
	ErrPlaylistNotFound   = apperr.New(apperr.KindNotFound, "Playlist not found")
	ErrPlaylistForbidden  = apperr.New(apperr.KindForbidden, "You are not allowed to modify this playlist")
	ErrSelfSubscribe      = apperr.New(apperr.KindValidation, "You cannot subscribe to your own channel")
	ErrUploadFailed       = apperr.New(apperr.KindUpstream, "Failed to upload media")
	ErrUnsupportedMedia   = apperr.New(apperr.KindValidation, "Unsupported media type")
	ErrMediaTooLarge      = apperr.New(apperr.KindValidation, "Media file is too large")
)

// authorize 先判断记录是否存在，再判断所有者；不存在优先于无权限
func authorize(record model.Owned, lookupErr error, actorID int64, notFound, forbidden *apperr.Error) error {
	if lookupErr != nil {
		return notFoundAs(lookupErr, notFound)
	}
	if record.GetOwnerID() != actorID {
		return forbidden
	}
	return nil
}

// notFoundAs 把仓储层的 ErrNotFound 换成业务错误
func notFoundAs(err error, target *apperr.Error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return target
	}
	return err
}
