package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/grouptodo/gtd/group"
)

// Profile fetches the caller's profile from the backend.
func (c *Client) Profile(ctx context.Context) (User, error) {
	var user User
	if err := c.get(ctx, "/api/v1/users/profile", nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// ProfileUpdate describes a profile change. Image and ImageURL are mutually
// exclusive; leave both unset to keep the current picture.
type ProfileUpdate struct {
	Nickname     string
	Introduction string
	Image        *Upload
	ImageURL     string
}

// UpdateProfile changes the caller's nickname, introduction, and picture.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (User, error) {
	fields := []formField{
		{name: "nickname", value: update.Nickname},
		{name: "introduction", value: update.Introduction},
	}
	contentType, body, err := buildMultipart(fields, "profileImage", update.Image, update.ImageURL)
	if err != nil {
		return User{}, err
	}

	a := &attempt{
		method:      http.MethodPost,
		path:        "/api/v1/users/me/profile",
		body:        body,
		contentType: contentType,
	}

	var user User
	if err := c.do(ctx, a, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Stats fetches the caller's lifetime todo statistics.
func (c *Client) Stats(ctx context.Context) (UserStats, error) {
	var stats UserStats
	if err := c.get(ctx, "/api/v1/users/stats", nil, &stats); err != nil {
		return UserStats{}, err
	}
	return stats, nil
}

// WeeklyStats fetches the caller's weekly overview, one entry per day.
func (c *Client) WeeklyStats(ctx context.Context) ([]WeekDay, error) {
	var days []WeekDay
	if err := c.get(ctx, "/api/v1/users/me/week", nil, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// ActivityReport fetches the backend's periodic summary for the caller.
func (c *Client) ActivityReport(ctx context.Context) (Report, error) {
	var report Report
	if err := c.get(ctx, "/api/v1/users/me/report", nil, &report); err != nil {
		return Report{}, err
	}
	return report, nil
}

// RecentActivities fetches the caller's recent-activity feed.
func (c *Client) RecentActivities(ctx context.Context) ([]Activity, error) {
	var activities []Activity
	if err := c.get(ctx, "/api/v1/users/me/activities/recent", nil, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// Achievements fetches the caller's badges, earned and in progress.
func (c *Client) Achievements(ctx context.Context) ([]Achievement, error) {
	var achievements []Achievement
	if err := c.get(ctx, "/api/v1/users/achievements", nil, &achievements); err != nil {
		return nil, err
	}
	return achievements, nil
}

// MyGroups fetches the groups the caller belongs to.
func (c *Client) MyGroups(ctx context.Context) ([]group.Group, error) {
	var groups []group.Group
	if err := c.get(ctx, "/api/v1/users/me/groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// DeleteAccount removes the caller's account and clears local credentials.
func (c *Client) DeleteAccount(ctx context.Context) error {
	if err := c.delete(ctx, "/api/v1/users/me", nil); err != nil {
		return err
	}
	if err := c.creds.Clear(); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
