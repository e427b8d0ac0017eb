package main

import (
	"context"

	"github.com/kabili207/asakusa-tools/pkg/api"
	"github.com/kabili207/asakusa-tools/pkg/models"
)

// collectHistory pages backwards through a room, newest first, until the
// server runs out of messages or limit messages have been gathered. A
// limit of zero means no limit. The pages are stitched together so every
// message but the oldest carries a prev_id.
func collectHistory(ctx context.Context, client api.AsakusaClient, roomID string, pageSize, limit int) (models.Many[models.Message], error) {
	params := api.MessageListParams{RoomID: roomID, Count: pageSize, Order: api.OrderDesc}

	var history models.Many[models.Message]
	seen := map[string]bool{}

	for limit == 0 || len(history) < limit {
		page, err := client.MessageList(ctx, params)
		if err != nil {
			return unlinkOldest(history, seen), err
		}

		fresh := page[:0:0]
		for _, m := range page {
			if !seen[m.ID] {
				fresh = append(fresh, m)
			}
		}
		if len(fresh) == 0 {
			break
		}

		if n := len(history); n > 0 && history[n-1].PrevID == nil {
			prev := fresh[0].ID
			history[n-1].PrevID = &prev
		}

		for _, m := range fresh {
			if limit > 0 && len(history) >= limit {
				break
			}
			seen[m.ID] = true
			history = append(history, m)
		}

		params.UntilID = fresh[len(fresh)-1].ID
	}

	return unlinkOldest(history, seen), nil
}

// unlinkOldest clears the prev_id of the oldest message when it points at a
// message that was not collected.
func unlinkOldest(history models.Many[models.Message], seen map[string]bool) models.Many[models.Message] {
	if n := len(history); n > 0 {
		if prev := history[n-1].PrevID; prev != nil && !seen[*prev] {
			history[n-1].PrevID = nil
		}
	}
	return history
}
