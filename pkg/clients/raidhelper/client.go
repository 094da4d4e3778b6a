// Package raidhelper fetches events from the Raid-Helper API and
// normalizes their signups into the canonical roster model. The
// raidplan endpoint is queried alongside the event to enrich signups
// with explicit group numbers; it is strictly best-effort.
package raidhelper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/veskos/raidbridge/pkg/core/model"
	"github.com/veskos/raidbridge/pkg/core/roster"
)

// ErrEventNotFound is returned when the API reports an unknown event.
var ErrEventNotFound = errors.New("event not found")

// ErrInvalidEventID is returned for event ids that are not purely
// numeric, before any request is made.
var ErrInvalidEventID = errors.New("invalid event id format")

var eventIDPattern = regexp.MustCompile(`^\d+$`)

type apiSignUp struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ClassName string `json:"className"`
	SpecName  string `json:"specName"`
	RoleName  string `json:"roleName"`
	EntryTime int64  `json:"entryTime"`
	Position  int    `json:"position"`
	Status    string `json:"status"`
	UserID    string `json:"userId"`
}

type apiEvent struct {
	ID          string      `json:"id"`
	ChannelID   string      `json:"channelId"`
	GuildID     string      `json:"guildId"`
	LeaderID    string      `json:"leaderId"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	StartTime   int64       `json:"startTime"`
	EndTime     int64       `json:"endTime"`
	SignUps     []apiSignUp `json:"signUps"`
}

type raidplanSlot struct {
	ID          string `json:"id"`
	GroupNumber *int   `json:"groupNumber"`
}

type raidplanResponse struct {
	Slots []raidplanSlot `json:"slots"`
}

// Client is a Raid-Helper API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client against the given API base URL
// (normally https://raid-helper.dev).
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

func (c *Client) getJSON(ctx context.Context, url string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, fmt.Errorf("raid-helper api returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// FetchEvent fetches and normalizes one event. The event and raidplan
// endpoints are queried concurrently; raidplan failures only cost the
// explicit group numbers.
func (c *Client) FetchEvent(ctx context.Context, eventID string) (*model.RaidEvent, error) {
	if !eventIDPattern.MatchString(eventID) {
		return nil, ErrInvalidEventID
	}

	var event apiEvent
	groupByUser := make(map[string]int)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		status, err := c.getJSON(gctx, fmt.Sprintf("%s/api/v2/events/%s", c.baseURL, eventID), &event)
		if status == http.StatusNotFound {
			return fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
		}
		return err
	})
	g.Go(func() error {
		var plan raidplanResponse
		if _, err := c.getJSON(gctx, fmt.Sprintf("%s/api/raidplan/%s", c.baseURL, eventID), &plan); err != nil {
			c.logger.Debug("raidplan unavailable", zap.String("event_id", eventID), zap.Error(err))
			return nil
		}
		for _, slot := range plan.Slots {
			if slot.ID != "" && slot.GroupNumber != nil {
				groupByUser[slot.ID] = *slot.GroupNumber
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	signups := make([]model.RaidSignup, 0, len(event.SignUps))
	for _, raw := range event.SignUps {
		signup, ok := roster.Normalize(roster.RawSignup{
			Name:      raw.Name,
			ClassName: raw.ClassName,
			SpecName:  raw.SpecName,
			RoleName:  raw.RoleName,
			EntryTime: raw.EntryTime,
			Position:  raw.Position,
			Status:    raw.Status,
			UserID:    raw.UserID,
		})
		if !ok {
			continue
		}
		if group, ok := groupByUser[raw.UserID]; ok {
			signup.GroupNumber = group
		}
		signups = append(signups, signup)
	}

	c.logger.Info("event fetched",
		zap.String("event_id", event.ID),
		zap.String("title", event.Title),
		zap.Int("signups", len(signups)),
		zap.Int("raidplan_slots", len(groupByUser)))

	result := &model.RaidEvent{
		EventID:     event.ID,
		ServerID:    event.GuildID,
		ChannelID:   event.ChannelID,
		Title:       event.Title,
		Description: event.Description,
		StartTime:   time.Unix(event.StartTime, 0).UTC(),
		Signups:     signups,
		CreatedBy:   event.LeaderID,
	}
	if event.EndTime > 0 {
		result.EndTime = time.Unix(event.EndTime, 0).UTC()
	}
	return result, nil
}
