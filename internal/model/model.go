package model

// Owned 有唯一所有者的记录
type Owned interface {
	GetOwnerID() int64
}

// All 返回需要迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&User{},
		&Video{},
		&Comment{},
		&Like{},
		&Tweet{},
		&Playlist{},
		&Subscription{},
		&VideoView{},
	}
}
