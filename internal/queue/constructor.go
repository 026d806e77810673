package queue

import (
	"github.com/creatorpulse/analytics-api/internal/service"
)

type Queue struct {
	ms service.MatchingService
}

func NewQueue(ms service.MatchingService) *Queue {
	return &Queue{ms: ms}
}

const TaskTypeMatchScan = "match:scan"

type MatchScanPayload struct {
	BatchID string `json:"batch_id"`
}
