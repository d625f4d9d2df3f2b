// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// Plugins lists the bStats plugins.
func (c *Client) Plugins(ctx context.Context) ([]Project, error) {
	data, err := GetWrapped[struct {
		Plugins *[]Project `json:"plugins"`
	}](ctx, c, "/mc/bstats")
	if err != nil {
		return nil, err
	}
	if data.Plugins == nil {
		return nil, fmt.Errorf("%w: plugin list missing", ErrMalformed)
	}
	return *data.Plugins, nil
}

func (c *Client) PluginStats(ctx context.Context, id int) (ProjectStats, error) {
	return GetWrapped[ProjectStats](ctx, c, "/mc/bstats/"+strconv.Itoa(id))
}

func (c *Client) SpigotStats(ctx context.Context, id int) (SpigotStats, error) {
	return GetWrapped[SpigotStats](ctx, c, "/mc/spigotmc/"+strconv.Itoa(id))
}

// Models lists the Hugging Face models.
func (c *Client) Models(ctx context.Context) ([]ModelStats, error) {
	data, err := GetWrapped[struct {
		Models *[]ModelStats `json:"models"`
	}](ctx, c, "/hf")
	if err != nil {
		return nil, err
	}
	if data.Models == nil {
		return nil, fmt.Errorf("%w: model list missing", ErrMalformed)
	}
	return *data.Models, nil
}

func (c *Client) ModelStats(ctx context.Context, id string) (ModelStats, error) {
	return GetWrapped[ModelStats](ctx, c, "/hf/"+escape(id))
}

// WorkshopIDs lists the Steam Workshop item ids. The endpoint has been seen
// both bare ({"workshop_ids": [...]}) and wrapped; either is accepted.
func (c *Client) WorkshopIDs(ctx context.Context) ([]string, error) {
	target := c.baseURL + "/steam"
	body, err := c.Get(ctx, "/steam")
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %s is not JSON", ErrMalformed, target)
	}

	doc := gjson.ParseBytes(body)
	if doc.Get("success").Exists() {
		if !doc.Get("success").Bool() {
			return nil, &UnsuccessfulError{URL: target, Message: doc.Get("message").String()}
		}
		doc = doc.Get("data")
	}

	ids := []string{}
	for _, id := range doc.Get("workshop_ids").Array() {
		ids = append(ids, id.String())
	}
	return ids, nil
}

// WorkshopItem fetches one Steam Workshop item. The body is normally bare.
func (c *Client) WorkshopItem(ctx context.Context, id string) (WorkshopItem, error) {
	path := "/steam/" + escape(id)
	body, err := c.Get(ctx, path)
	if err != nil {
		return WorkshopItem{}, err
	}
	return decodeMaybeWrapped[WorkshopItem](c.baseURL+path, body)
}

// Domains lists the Cloudflare zones. The body is a bare array.
func (c *Client) Domains(ctx context.Context) ([]Domain, error) {
	return GetBare[[]Domain](ctx, c, "/cloudflare")
}

func (c *Client) DomainStats(ctx context.Context, id string) (DomainStats, error) {
	return GetBare[DomainStats](ctx, c, "/cloudflare/"+escape(id))
}
