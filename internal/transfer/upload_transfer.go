package transfer

type RowError struct {
	Row     int    `json:"row"`
	PostID  string `json:"post_id,omitempty"`
	Message string `json:"message"`
}

type UploadCounts struct {
	Posts     int `json:"posts"`
	Snapshots int `json:"snapshots"`
}

type UploadResult struct {
	BatchID string `json:"batch_id"`
	Results struct {
		Created UploadCounts `json:"created"`
		Updated UploadCounts `json:"updated"`
	} `json:"results"`
	Summary struct {
		NewPosts []string `json:"newPosts"`
	} `json:"summary"`
	Errors []RowError `json:"errors,omitempty"`
}

type DuplicateCheckResult struct {
	IsDuplicate  bool   `json:"isDuplicate"`
	ExistingDate string `json:"existingDate,omitempty"`
	MatchScore   int    `json:"matchScore,omitempty"`
}

type SnapshotDateUpdate struct {
	OldDate string   `json:"oldDate" validate:"required"`
	NewDate string   `json:"newDate" validate:"required"`
	PostIDs []string `json:"postIds" validate:"required,min=1"`
}
