package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/grouptodo/gtd/group"
)

// GroupChange describes a group create or update. Image and ImageURL are
// mutually exclusive; when neither is set the image fields are omitted from
// the request entirely.
type GroupChange struct {
	Name        string
	Description string
	Scope       group.Scope
	Category    group.Category
	Image       *Upload
	ImageURL    string
}

func (gc GroupChange) fields() []formField {
	return []formField{
		{name: "groupName", value: gc.Name},
		{name: "description", value: gc.Description},
		{name: "scope", value: string(gc.Scope)},
		{name: "category", value: string(gc.Category)},
	}
}

// PublicGroups fetches the public groups open for joining.
func (c *Client) PublicGroups(ctx context.Context) ([]group.Group, error) {
	var groups []group.Group
	if err := c.get(ctx, "/api/v1/groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Groups fetches the caller's groups from the group service.
func (c *Client) Groups(ctx context.Context) ([]group.Group, error) {
	var groups []group.Group
	if err := c.get(ctx, "/api/v1/groups/me", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Group fetches one group by ID.
func (c *Client) Group(ctx context.Context, groupID int64) (group.Group, error) {
	var g group.Group
	if err := c.get(ctx, fmt.Sprintf("/api/v1/groups/%d", groupID), nil, &g); err != nil {
		return group.Group{}, err
	}
	return g, nil
}

// CreateGroup creates a group and returns it.
func (c *Client) CreateGroup(ctx context.Context, change GroupChange) (group.Group, error) {
	contentType, body, err := buildMultipart(change.fields(), "image", change.Image, change.ImageURL)
	if err != nil {
		return group.Group{}, err
	}

	a := &attempt{
		method:      http.MethodPost,
		path:        "/api/v1/groups",
		body:        body,
		contentType: contentType,
	}

	var g group.Group
	if err := c.do(ctx, a, &g); err != nil {
		return group.Group{}, err
	}
	return g, nil
}

// UpdateGroup replaces a group's details.
func (c *Client) UpdateGroup(ctx context.Context, groupID int64, change GroupChange) (group.Group, error) {
	contentType, body, err := buildMultipart(change.fields(), "image", change.Image, change.ImageURL)
	if err != nil {
		return group.Group{}, err
	}

	a := &attempt{
		method:      http.MethodPatch,
		path:        fmt.Sprintf("/api/v1/groups/%d", groupID),
		body:        body,
		contentType: contentType,
	}

	var g group.Group
	if err := c.do(ctx, a, &g); err != nil {
		return group.Group{}, err
	}
	return g, nil
}

// DeleteGroup removes a group. Only the creator may do this.
func (c *Client) DeleteGroup(ctx context.Context, groupID int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/v1/groups/%d", groupID), nil)
}

// JoinGroup adds the caller to a group.
func (c *Client) JoinGroup(ctx context.Context, groupID int64) error {
	return c.post(ctx, fmt.Sprintf("/api/v1/groups/%d", groupID), nil, nil)
}

// LeaveGroup removes the caller from a group.
func (c *Client) LeaveGroup(ctx context.Context, groupID int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/v1/groups/%d/members", groupID), nil)
}

// GroupMembers fetches a group's member list sorted by role rank then
// nickname.
func (c *Client) GroupMembers(ctx context.Context, groupID int64) ([]group.Member, error) {
	var members []group.Member
	if err := c.get(ctx, fmt.Sprintf("/api/v1/groups/%d/members", groupID), nil, &members); err != nil {
		return nil, err
	}
	group.SortMembers(members)
	return members, nil
}

// Member fetches one member of a group.
func (c *Client) Member(ctx context.Context, groupID, memberID int64) (group.Member, error) {
	var member group.Member
	path := fmt.Sprintf("/api/v1/groups/%d/members/%d", groupID, memberID)
	if err := c.get(ctx, path, nil, &member); err != nil {
		return group.Member{}, err
	}
	return member, nil
}

// UpdateMemberNickname changes a member's nickname within a group.
func (c *Client) UpdateMemberNickname(ctx context.Context, groupID, memberID int64, nickname string) error {
	payload := struct {
		MemberID int64  `json:"memberId"`
		Nickname string `json:"nickname"`
	}{MemberID: memberID, Nickname: nickname}
	return c.patch(ctx, fmt.Sprintf("/api/v1/groups/%d/members", groupID), payload, nil)
}

// UpdateMemberRole changes a member's role. Only roles that outrank the
// target may do this; the backend enforces the rule and answers 403.
func (c *Client) UpdateMemberRole(ctx context.Context, groupID, memberID int64, role group.Role) error {
	payload := struct {
		Role group.Role `json:"role"`
	}{Role: role}
	path := fmt.Sprintf("/api/v1/groups/%d/members/%d", groupID, memberID)
	return c.patch(ctx, path, payload, nil)
}
