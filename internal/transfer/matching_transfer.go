package transfer

type MatchQuery struct {
	Title    string `json:"title" validate:"required"`
	PostType string `json:"postType" validate:"required"`
	Duration int64  `json:"duration"`
	AssetTag string `json:"assetTag"`
}

type Match struct {
	PostID          string `json:"postId"`
	Title           string `json:"title"`
	PostType        string `json:"postType"`
	MatchScore      int    `json:"matchScore"`
	Band            string `json:"band"` // high, medium, low
	RemovedDate     string `json:"removedDate,omitempty"`
	IterationNumber int    `json:"iterationNumber"`
	ArtistName      string `json:"artistName,omitempty"`
	SnapshotCount   int    `json:"snapshotCount"`
	EarningsCents   int64  `json:"lifetimeEarningsCents"`
}

type MatchResponse struct {
	Matches []Match `json:"matches"`
}

type LinkToPrevious struct {
	NewPostID      string `json:"newPostId" validate:"required"`
	PreviousPostID string `json:"previousPostId" validate:"required"`
}

type ReelLinkRequest struct {
	ReelPostID        string `json:"reelPostId" validate:"required"`
	ParentVideoPostID string `json:"parentVideoPostId" validate:"required"`
	InheritMetadata   bool   `json:"inheritMetadata"`
}

type ReelUnlinkRequest struct {
	ReelPostID string `json:"reelPostId" validate:"required"`
}
