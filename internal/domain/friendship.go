// internal/domain/friendship.go
package domain

// FriendshipStatus состояние направленного ребра дружбы
type FriendshipStatus string

const (
	FriendshipUnconfirmed FriendshipStatus = "UNCONFIRMED"
	FriendshipConfirmed   FriendshipStatus = "CONFIRMED"
)

// FriendshipEdge направленное ребро (from -> to)
type FriendshipEdge struct {
	UserID   int64            `json:"userId" db:"user_id"`
	FriendID int64            `json:"friendId" db:"friend_id"`
	Status   FriendshipStatus `json:"status" db:"status"`
}
