// SPDX-License-Identifier: AGPL-3.0-or-later

package slack

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

const (
	defaultText      = "Dev update"
	historyPageSize  = 100
	historyLookahead = 5
)

// Message is a channel history entry.
type Message struct {
	TS      string `json:"ts"`
	Text    string `json:"text"`
	BotID   string `json:"bot_id,omitempty"`
	Subtype string `json:"subtype,omitempty"`
}

// FromBot reports whether the message was posted by a bot.
func (m Message) FromBot() bool {
	return m.BotID != "" || m.Subtype == "bot_message"
}

// PostMessage posts blocks to a channel. text is the notification
// fallback; empty means "Dev update". blocks is encoded as JSON.
func (c *Client) PostMessage(ctx context.Context, channelID string, blocks any, text string) (string, error) {
	if text == "" {
		text = defaultText
	}
	var resp struct {
		TS string `json:"ts"`
	}
	err := c.call(ctx, "chat.postMessage", map[string]any{
		"channel": channelID,
		"blocks":  blocks,
		"text":    text,
	}, &resp)
	return resp.TS, err
}

// DeleteMessage deletes one message. The bot can only delete its own.
func (c *Client) DeleteMessage(ctx context.Context, channelID, ts string) error {
	return c.call(ctx, "chat.delete", map[string]any{"channel": channelID, "ts": ts}, nil)
}

type historyPage struct {
	Messages []Message        `json:"messages"`
	HasMore  bool             `json:"has_more"`
	Metadata responseMetadata `json:"response_metadata"`
}

func (c *Client) history(ctx context.Context, channelID string, limit int, cursor string) (historyPage, error) {
	payload := map[string]any{"channel": channelID, "limit": limit}
	if cursor != "" {
		payload["cursor"] = cursor
	}
	var page historyPage
	err := c.call(ctx, "conversations.history", payload, &page)
	return page, err
}

func botOnly(msgs []Message) []Message {
	var out []Message
	for _, m := range msgs {
		if m.FromBot() {
			out = append(out, m)
		}
	}
	return out
}

// BotMessages returns bot messages among the latest limit messages, newest first.
func (c *Client) BotMessages(ctx context.Context, channelID string, limit int) ([]Message, error) {
	page, err := c.history(ctx, channelID, limit, "")
	if err != nil {
		return nil, err
	}
	return botOnly(page.Messages), nil
}

// DeleteBotMessages deletes up to count of the newest bot messages and
// returns how many were deleted. Individual failures are logged and skipped.
func (c *Client) DeleteBotMessages(ctx context.Context, channelID string, count int) (int, error) {
	msgs, err := c.BotMessages(ctx, channelID, count+historyLookahead)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, m := range msgs {
		if deleted >= count {
			break
		}
		if err := c.DeleteMessage(ctx, channelID, m.TS); err != nil {
			log.Warnf("Failed to delete %s: %v", m.TS, err)
			continue
		}
		deleted++
		log.Infof("Deleted message %s", m.TS)
	}
	return deleted, nil
}

// DeleteResult counts the outcome of a bulk deletion.
type DeleteResult struct {
	Deleted int
	Skipped int
}

// DeleteAllBotMessages walks the whole channel history and deletes every
// bot message. Rate-limited deletions are retried once after a pause;
// messages that still fail, or belong to other integrations, are skipped.
func (c *Client) DeleteAllBotMessages(ctx context.Context, channelID string) (DeleteResult, error) {
	var res DeleteResult
	cursor := ""
	for {
		page, err := c.history(ctx, channelID, historyPageSize, cursor)
		if err != nil {
			return res, err
		}
		bots := botOnly(page.Messages)
		if len(bots) == 0 && !page.HasMore {
			return res, nil
		}

		for _, m := range bots {
			err := c.DeleteMessage(ctx, channelID, m.TS)
			switch {
			case err == nil:
				res.Deleted++
				if err := c.sleep(ctx, c.deletePause); err != nil {
					return res, err
				}
			case errors.Is(err, ErrRateLimited):
				if err := c.sleep(ctx, c.retryPause); err != nil {
					return res, err
				}
				if err := c.DeleteMessage(ctx, channelID, m.TS); err != nil {
					res.Skipped++
				} else {
					res.Deleted++
				}
			default:
				if !isCode(err, "cant_delete_message") {
					log.Debugf("skipping %s: %v", m.TS, err)
				}
				res.Skipped++
			}
		}

		cursor = page.Metadata.NextCursor
		if cursor == "" {
			return res, nil
		}
	}
}
