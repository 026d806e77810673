package transfer

type StatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=live removed"`
	Reason string `json:"reason"`
}

type BulkRemove struct {
	PostIDs []string `json:"postIds" validate:"required,min=1"`
	Reason  string   `json:"reason" validate:"required"`
}

type ArtistAssignment struct {
	ArtistID *int64 `json:"artistId"` // null clears the assignment
}

type ChildrenCheck struct {
	HasChildren bool    `json:"hasChildren"`
	Children    []Child `json:"children"`
}

type Child struct {
	PostID string `json:"postId"`
	Title  string `json:"title"`
	Status string `json:"status"`
}
