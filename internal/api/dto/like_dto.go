package dto

// LikeToggleData 点赞切换结果，likesCount 为切换后重新统计的值
type LikeToggleData struct {
	IsLiked    bool  `json:"isLiked"`
	LikesCount int64 `json:"likesCount"`
}
