// Package group defines groups, membership roles, and their ordering.
package group

import "sort"

// Role is a member's privilege level within a group.
type Role string

const (
	// RoleCreator is the single member who created the group.
	RoleCreator Role = "CREATOR"

	// RoleAdmin can manage todos and member nicknames.
	RoleAdmin Role = "ADMIN"

	// RoleMember is the base privilege level.
	RoleMember Role = "MEMBER"
)

// ValidRoles returns all valid role values.
func ValidRoles() []Role {
	return []Role{RoleCreator, RoleAdmin, RoleMember}
}

// IsValid returns true if the role is a known valid value.
func (r Role) IsValid() bool {
	for _, valid := range ValidRoles() {
		if r == valid {
			return true
		}
	}
	return false
}

// Rank returns the sort rank for a role. Lower ranks outrank higher ones.
func (r Role) Rank() int {
	switch r {
	case RoleCreator:
		return 0
	case RoleAdmin:
		return 1
	case RoleMember:
		return 2
	default:
		return 3
	}
}

// CanManageTodos reports whether the role may add, edit, or delete group
// todos.
func (r Role) CanManageTodos() bool {
	return r == RoleCreator || r == RoleAdmin
}

// CanManageMembers reports whether the role may change other members' roles.
// Only the creator can.
func (r Role) CanManageMembers() bool {
	return r == RoleCreator
}

// Label returns a human-readable name for the role.
func (r Role) Label() string {
	switch r {
	case RoleCreator:
		return "creator"
	case RoleAdmin:
		return "admin"
	case RoleMember:
		return "member"
	default:
		return string(r)
	}
}

// Scope controls group visibility.
type Scope string

const (
	ScopePublic  Scope = "PUBLIC"
	ScopePrivate Scope = "PRIVATE"
)

// Category tags a group's purpose.
type Category string

const (
	CategoryStudy   Category = "STUDY"
	CategoryProject Category = "PROJECT"
	CategoryWork    Category = "WORK"
	CategoryOther   Category = "OTHER"
)

// ValidCategories returns all valid category values.
func ValidCategories() []Category {
	return []Category{CategoryStudy, CategoryProject, CategoryWork, CategoryOther}
}

// IsValid returns true if the category is a known valid value.
func (c Category) IsValid() bool {
	for _, valid := range ValidCategories() {
		if c == valid {
			return true
		}
	}
	return false
}

// Group is a server-shaped group record.
type Group struct {
	ID          int64    `json:"id"`
	Name        string   `json:"groupName"`
	Description string   `json:"description"`
	Scope       Scope    `json:"scope"`
	Category    Category `json:"category"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	MemberCount int      `json:"numMember"`
	CreatorID   int64    `json:"creatorId,omitempty"`
}

// Member is a user's membership in one group.
type Member struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"userId"`
	GroupID      int64  `json:"groupId"`
	Nickname     string `json:"nickname"`
	Role         Role   `json:"role"`
	Email        string `json:"email,omitempty"`
	Introduction string `json:"introduction,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
}

// SortMembers orders members by role rank, then nickname. The creator sorts
// first.
func SortMembers(members []Member) {
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].Role.Rank() != members[j].Role.Rank() {
			return members[i].Role.Rank() < members[j].Role.Rank()
		}
		return members[i].Nickname < members[j].Nickname
	})
}

// DefaultGroupNames are the implicit groups every user gets; they cannot be
// deleted or left.
var DefaultGroupNames = []string{"Mine", "Favorite"}

// IsDefault reports whether the group is one of the implicit per-user groups.
func (g Group) IsDefault() bool {
	for _, name := range DefaultGroupNames {
		if g.Name == name {
			return true
		}
	}
	return false
}
