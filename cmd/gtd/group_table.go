package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grouptodo/gtd/group"
	"github.com/grouptodo/gtd/internal/markdown"
	"github.com/grouptodo/gtd/internal/ui"
)

// printGroupTable prints groups in a table format.
func printGroupTable(groups []group.Group) {
	if len(groups) == 0 {
		fmt.Println("No groups found.")
		return
	}
	fmt.Print(formatGroupTable(groups))
}

func formatGroupTable(groups []group.Group) string {
	builder := ui.NewTableBuilder([]string{"ID", "NAME", "CATEGORY", "SCOPE", "MEMBERS"}, len(groups))
	for _, g := range groups {
		builder.AddRow([]string{
			strconv.FormatInt(g.ID, 10),
			ui.TruncateTableCell(g.Name),
			string(g.Category),
			string(g.Scope),
			strconv.Itoa(g.MemberCount),
		})
	}
	return builder.String()
}

const detailLineWidth = 80

// printGroupDetail prints detailed information about a group.
func printGroupDetail(g group.Group) {
	fmt.Printf("ID:       %d\n", g.ID)
	fmt.Printf("Name:     %s\n", ui.Bold(g.Name))
	fmt.Printf("Category: %s\n", g.Category)
	fmt.Printf("Scope:    %s\n", g.Scope)
	fmt.Printf("Members:  %d\n", g.MemberCount)

	if g.CreatedAt != "" {
		fmt.Printf("Created:  %s\n", g.CreatedAt)
	}

	if g.Description != "" {
		fmt.Printf("\nDescription:\n%s\n", renderMarkdownOrDash(g.Description, detailLineWidth))
	}
}

// printMemberTable prints a group's members in a table format.
func printMemberTable(members []group.Member) {
	if len(members) == 0 {
		fmt.Println("No members found.")
		return
	}

	builder := ui.NewTableBuilder([]string{"ID", "NICKNAME", "ROLE"}, len(members))
	for _, m := range members {
		builder.AddRow([]string{
			strconv.FormatInt(m.ID, 10),
			ui.TruncateTableCell(m.Nickname),
			m.Role.Label(),
		})
	}
	fmt.Print(builder.String())
}

// printMemberDetail prints detailed information about one member.
func printMemberDetail(m group.Member) {
	fmt.Printf("ID:       %d\n", m.ID)
	fmt.Printf("Nickname: %s\n", ui.Bold(m.Nickname))
	fmt.Printf("Role:     %s\n", m.Role.Label())
	if m.Email != "" {
		fmt.Printf("Email:    %s\n", m.Email)
	}
	if m.Introduction != "" {
		fmt.Printf("\nIntroduction:\n%s\n", renderMarkdownOrDash(m.Introduction, detailLineWidth))
	}
}

func renderMarkdownOrDash(value string, width int) string {
	if width < 1 {
		width = 1
	}
	formatted := markdown.Render(value, width)
	if strings.TrimSpace(formatted) == "" {
		return "-"
	}
	return formatted
}
