package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

func (q *Queue) HandleMatchScanTask(ctx context.Context, task *asynq.Task) error {
	var payload MatchScanPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	if err := q.ms.ScanBatch(ctx, payload.BatchID); err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}
