package dto

import "tourtube/internal/pagination"

// SubscriptionToggleData 订阅切换结果
type SubscriptionToggleData struct {
	Subscribed       bool  `json:"subscribed"`
	SubscribersCount int64 `json:"subscribersCount"`
}

// SubscriberListData 频道订阅者
type SubscriberListData struct {
	pagination.Meta
	Subscribers      []ChannelSnippet `json:"subscribers"`
	TotalSubscribers int64            `json:"totalSubscribers"`
}

// SubscribedChannelListData 用户订阅的频道
type SubscribedChannelListData struct {
	pagination.Meta
	Channels      []ChannelSnippet `json:"channels"`
	TotalChannels int64            `json:"totalChannels"`
}
