package model

// VoteAction distinguishes the two directions of a toggle.
type VoteAction string

const (
	ActionLiked   VoteAction = "liked"
	ActionUnliked VoteAction = "unliked"
)

// VoteState is what a single client sees after reading or toggling a vote.
type VoteState struct {
	PinID   string `json:"pinId"`
	Count   int    `json:"count"`
	IsLiked bool   `json:"isLiked"`
}

// VoteUpdate is the broadcast payload fanned out to realtime subscribers.
// IsLiked describes the acting user only; receiving clients must recompute
// their own flag from UserID.
type VoteUpdate struct {
	Type    string     `json:"type"`
	PinID   string     `json:"pinId"`
	Count   int        `json:"count"`
	IsLiked bool       `json:"isLiked"`
	UserID  string     `json:"userId"`
	Action  VoteAction `json:"action"`
}

// VoteUpdateType is the message type tag on broadcast vote payloads.
const VoteUpdateType = "vote_update"

// VoteChannel returns the pub/sub channel name for a pin's vote updates.
func VoteChannel(pinID string) string {
	return "votes:" + pinID
}
