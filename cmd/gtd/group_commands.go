package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/grouptodo/gtd/api"
	"github.com/grouptodo/gtd/group"
	"github.com/spf13/cobra"
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage groups and their members",
}

// group list
var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List public groups open for joining",
	Args:  cobra.NoArgs,
	RunE:  runGroupList,
}

var groupListJSON bool

// group mine
var groupMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List the groups you belong to",
	Args:  cobra.NoArgs,
	RunE:  runGroupMine,
}

var groupMineJSON bool

// group show
var groupShowCmd = &cobra.Command{
	Use:   "show <group-id>",
	Short: "Show a group's details",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupShow,
}

var groupShowJSON bool

// group create
var groupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a group",
	Args:  cobra.NoArgs,
	RunE:  runGroupCreate,
}

// group update
var groupUpdateCmd = &cobra.Command{
	Use:   "update <group-id>",
	Short: "Update a group's details",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupUpdate,
}

var (
	groupChangeName        string
	groupChangeDescription string
	groupChangeScope       string
	groupChangeCategory    string
	groupChangeImageFile   string
	groupChangeImageURL    string
)

// group join
var groupJoinCmd = &cobra.Command{
	Use:   "join <group-id>",
	Short: "Join a public group",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupJoin,
}

// group leave
var groupLeaveCmd = &cobra.Command{
	Use:   "leave <group-id>",
	Short: "Leave a group",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupLeave,
}

// group delete
var groupDeleteCmd = &cobra.Command{
	Use:   "delete <group-id>",
	Short: "Delete a group (creator only)",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupDelete,
}

// group member
var groupMemberCmd = &cobra.Command{
	Use:   "member",
	Short: "Manage the members of a group",
}

var groupMemberListCmd = &cobra.Command{
	Use:   "list <group-id>",
	Short: "List a group's members",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupMemberList,
}

var groupMemberListJSON bool

var groupMemberShowCmd = &cobra.Command{
	Use:   "show <group-id> <member-id>",
	Short: "Show one member",
	Args:  cobra.ExactArgs(2),
	RunE:  runGroupMemberShow,
}

var groupMemberShowJSON bool

var groupMemberNickCmd = &cobra.Command{
	Use:   "nick <group-id> <member-id> <nickname>",
	Short: "Change a member's nickname within the group",
	Args:  cobra.ExactArgs(3),
	RunE:  runGroupMemberNick,
}

var groupMemberRoleCmd = &cobra.Command{
	Use:   "role <group-id> <member-id> <role>",
	Short: "Change a member's role (creator only)",
	Args:  cobra.ExactArgs(3),
	RunE:  runGroupMemberRole,
}

func init() {
	rootCmd.AddCommand(groupCmd)
	groupCmd.AddCommand(groupListCmd, groupMineCmd, groupShowCmd, groupCreateCmd, groupUpdateCmd,
		groupJoinCmd, groupLeaveCmd, groupDeleteCmd, groupMemberCmd)
	groupMemberCmd.AddCommand(groupMemberListCmd, groupMemberShowCmd, groupMemberNickCmd, groupMemberRoleCmd)
	addDescriptionFlagAliases(groupCreateCmd, groupUpdateCmd)

	groupListCmd.Flags().BoolVar(&groupListJSON, "json", false, "Output as JSON")
	groupMineCmd.Flags().BoolVar(&groupMineJSON, "json", false, "Output as JSON")
	groupShowCmd.Flags().BoolVar(&groupShowJSON, "json", false, "Output as JSON")
	groupMemberListCmd.Flags().BoolVar(&groupMemberListJSON, "json", false, "Output as JSON")
	groupMemberShowCmd.Flags().BoolVar(&groupMemberShowJSON, "json", false, "Output as JSON")

	for _, cmd := range []*cobra.Command{groupCreateCmd, groupUpdateCmd} {
		cmd.Flags().StringVar(&groupChangeName, "name", "", "Group name")
		cmd.Flags().StringVarP(&groupChangeDescription, "description", "d", "", "Group description")
		cmd.Flags().StringVar(&groupChangeScope, "scope", "PUBLIC", "Visibility (PUBLIC, PRIVATE)")
		cmd.Flags().StringVar(&groupChangeCategory, "category", "OTHER", "Category (STUDY, PROJECT, WORK, OTHER)")
		cmd.Flags().StringVar(&groupChangeImageFile, "image", "", "Path to a group image")
		cmd.Flags().StringVar(&groupChangeImageURL, "image-url", "", "URL of a group image")
	}
	groupCreateCmd.MarkFlagRequired("name")
}

func parseID(value, what string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, value)
	}
	return id, nil
}

func groupChangeFromFlags() (api.GroupChange, error) {
	change := api.GroupChange{
		Name:        groupChangeName,
		Description: groupChangeDescription,
		Scope:       group.Scope(groupChangeScope),
		Category:    group.Category(groupChangeCategory),
		ImageURL:    groupChangeImageURL,
	}
	if change.Scope != group.ScopePublic && change.Scope != group.ScopePrivate {
		return api.GroupChange{}, fmt.Errorf("invalid scope %q: must be PUBLIC or PRIVATE", groupChangeScope)
	}
	if !change.Category.IsValid() {
		return api.GroupChange{}, fmt.Errorf("invalid category %q", groupChangeCategory)
	}
	if groupChangeImageFile != "" {
		content, err := os.ReadFile(groupChangeImageFile)
		if err != nil {
			return api.GroupChange{}, fmt.Errorf("read image: %w", err)
		}
		change.Image = &api.Upload{Filename: groupChangeImageFile, Content: content}
	}
	return change, nil
}

func runGroupList(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	groups, err := client.PublicGroups(cmd.Context())
	if err != nil {
		return err
	}

	if groupListJSON {
		return encodeJSONToStdout(groups)
	}
	printGroupTable(groups)
	return nil
}

func runGroupMine(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	groups, err := client.MyGroups(cmd.Context())
	if err != nil {
		return err
	}

	if groupMineJSON {
		return encodeJSONToStdout(groups)
	}
	printGroupTable(groups)
	return nil
}

func runGroupShow(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	groupID, err := parseID(args[0], "group id")
	if err != nil {
		return err
	}

	g, err := client.Group(cmd.Context(), groupID)
	if err != nil {
		return err
	}

	if groupShowJSON {
		return encodeJSONToStdout(g)
	}
	printGroupDetail(g)
	return nil
}

func runGroupCreate(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	change, err := groupChangeFromFlags()
	if err != nil {
		return err
	}

	created, err := client.CreateGroup(cmd.Context(), change)
	if err != nil {
		return err
	}
	fmt.Printf("Created group %d: %s\n", created.ID, created.Name)
	return nil
}

func runGroupUpdate(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	groupID, err := parseID(args[0], "group id")
	if err != nil {
		return err
	}
	change, err := groupChangeFromFlags()
	if err != nil {
		return err
	}

	updated, err := client.UpdateGroup(cmd.Context(), groupID, change)
	if err != nil {
		return describePermissionError(err, "update this group")
	}
	fmt.Printf("Updated group %d: %s\n", updated.ID, updated.Name)
	return nil
}

func runGroupJoin(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	groupID, err := parseID(args[0], "group id")
	if err != nil {
		return err
	}

	if err := client.JoinGroup(cmd.Context(), groupID); err != nil {
		return err
	}
	fmt.Printf("Joined group %d\n", groupID)
	return nil
}

func runGroupLeave(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	groupID, err := parseID(args[0], "group id")
	if err != nil {
		return err
	}

	if err := client.LeaveGroup(cmd.Context(), groupID); err != nil {
		return err
	}
	fmt.Printf("Left group %d\n", groupID)
	return nil
}

func runGroupDelete(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	groupID, err := parseID(args[0], "group id")
	if err != nil {
		return err
	}

	if err := client.DeleteGroup(cmd.Context(), groupID); err != nil {
		return describePermissionError(err, "delete this group; only the creator can")
	}
	fmt.Printf("Deleted group %d\n", groupID)
	return nil
}

func runGroupMemberList(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	groupID, err := parseID(args[0], "group id")
	if err != nil {
		return err
	}

	members, err := client.GroupMembers(cmd.Context(), groupID)
	if err != nil {
		return err
	}

	if groupMemberListJSON {
		return encodeJSONToStdout(members)
	}
	printMemberTable(members)
	return nil
}

func runGroupMemberShow(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	groupID, err := parseID(args[0], "group id")
	if err != nil {
		return err
	}
	memberID, err := parseID(args[1], "member id")
	if err != nil {
		return err
	}

	member, err := client.Member(cmd.Context(), groupID, memberID)
	if err != nil {
		return err
	}

	if groupMemberShowJSON {
		return encodeJSONToStdout(member)
	}
	printMemberDetail(member)
	return nil
}

func runGroupMemberNick(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	groupID, err := parseID(args[0], "group id")
	if err != nil {
		return err
	}
	memberID, err := parseID(args[1], "member id")
	if err != nil {
		return err
	}

	if err := client.UpdateMemberNickname(cmd.Context(), groupID, memberID, args[2]); err != nil {
		return describePermissionError(err, "rename this member")
	}
	fmt.Printf("Renamed member %d to %s\n", memberID, args[2])
	return nil
}

func runGroupMemberRole(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	groupID, err := parseID(args[0], "group id")
	if err != nil {
		return err
	}
	memberID, err := parseID(args[1], "member id")
	if err != nil {
		return err
	}
	role := group.Role(args[2])
	if !role.IsValid() || role == group.RoleCreator {
		return fmt.Errorf("invalid role %q: must be ADMIN or MEMBER", args[2])
	}

	if err := client.UpdateMemberRole(cmd.Context(), groupID, memberID, role); err != nil {
		return describePermissionError(err, "change member roles; only the creator can")
	}
	fmt.Printf("Changed member %d role to %s\n", memberID, role.Label())
	return nil
}
