// SPDX-License-Identifier: AGPL-3.0-or-later

package slack

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

const listPageSize = 200

// ListChannels returns public channel ids keyed by name, following cursors.
func (c *Client) ListChannels(ctx context.Context) (map[string]string, error) {
	channels := make(map[string]string)
	cursor := ""
	for {
		payload := map[string]any{"types": "public_channel", "limit": listPageSize}
		if cursor != "" {
			payload["cursor"] = cursor
		}
		var resp struct {
			Channels []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"channels"`
			Metadata responseMetadata `json:"response_metadata"`
		}
		if err := c.call(ctx, "conversations.list", payload, &resp); err != nil {
			return nil, err
		}
		for _, ch := range resp.Channels {
			channels[ch.Name] = ch.ID
		}
		cursor = resp.Metadata.NextCursor
		if cursor == "" {
			return channels, nil
		}
	}
}

// CreateChannel creates a public channel and returns its id. A name that is
// already taken resolves to the existing channel.
func (c *Client) CreateChannel(ctx context.Context, name string) (string, error) {
	var resp struct {
		Channel struct {
			ID string `json:"id"`
		} `json:"channel"`
	}
	err := c.call(ctx, "conversations.create", map[string]any{"name": name, "is_private": false}, &resp)
	if err == nil {
		return resp.Channel.ID, nil
	}
	if !isCode(err, "name_taken") {
		return "", err
	}
	existing, err := c.ListChannels(ctx)
	if err != nil {
		return "", err
	}
	id, ok := existing[name]
	if !ok {
		return "", fmt.Errorf("channel %q exists but not found in list", name)
	}
	return id, nil
}

// JoinChannel adds the bot to a channel. Already being a member is fine.
func (c *Client) JoinChannel(ctx context.Context, channelID string) error {
	err := c.call(ctx, "conversations.join", map[string]any{"channel": channelID}, nil)
	if err != nil && !isCode(err, "already_in_channel") {
		return err
	}
	return nil
}

// EnsureChannels creates missing channels, joins all of them and returns
// their ids keyed by name. Running it again changes nothing.
func (c *Client) EnsureChannels(ctx context.Context, names []string) (map[string]string, error) {
	existing, err := c.ListChannels(ctx)
	if err != nil {
		return nil, err
	}
	result := make(map[string]string, len(names))
	for _, name := range names {
		id, ok := existing[name]
		if !ok {
			log.Infof("Creating #%s", name)
			if id, err = c.CreateChannel(ctx, name); err != nil {
				return nil, err
			}
		}
		if err := c.JoinChannel(ctx, id); err != nil {
			return nil, err
		}
		result[name] = id
	}
	return result, nil
}
