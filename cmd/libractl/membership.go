// cmd/libractl/membership.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"libraclient/internal/session"
)

func (a *app) membersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Manage library members (staff only)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all members",
		RunE: func(c *cobra.Command, _ []string) error {
			members, err := a.client.Members(c.Context())
			if err != nil {
				return a.apiErr(err)
			}
			fmt.Printf("%-36s %-25s %-30s %s\n", "ID", "Name", "Email", "Role")
			for _, m := range members {
				fmt.Printf("%-36s %-25s %-30s %s\n",
					m.ID, truncateString(m.Name, 25), truncateString(m.Email, 30), m.Role)
			}
			return nil
		},
	})

	var name, email, role string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a member account",
		RunE: func(c *cobra.Command, _ []string) error {
			password, err := readPassword("Initial password: ")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			member, err := a.client.AddMember(c.Context(), name, email, password, session.Role(role))
			if err != nil {
				return a.apiErr(err)
			}
			fmt.Printf("Created %s <%s> (%s)\n", member.Name, member.Email, member.Role)
			return nil
		},
	}
	addCmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	addCmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	addCmd.Flags().StringVarP(&role, "role", "r", string(session.RoleMember), "role (ADMIN, STAFF or MEMBER)")
	addCmd.MarkFlagRequired("name")
	addCmd.MarkFlagRequired("email")
	cmd.AddCommand(addCmd)

	var upName, upEmail, upRole string
	updateCmd := &cobra.Command{
		Use:   "update <member-id>",
		Short: "Update a member's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			member, err := a.client.UpdateMember(c.Context(), args[0], upName, upEmail, session.Role(upRole))
			if err != nil {
				return a.apiErr(err)
			}
			fmt.Printf("Updated %s <%s> (%s)\n", member.Name, member.Email, member.Role)
			return nil
		},
	}
	updateCmd.Flags().StringVarP(&upName, "name", "n", "", "display name")
	updateCmd.Flags().StringVarP(&upEmail, "email", "e", "", "email address")
	updateCmd.Flags().StringVarP(&upRole, "role", "r", "", "role (ADMIN, STAFF or MEMBER)")
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <member-id>",
		Short: "Delete a member account",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if err := a.client.DeleteMember(c.Context(), args[0]); err != nil {
				return a.apiErr(err)
			}
			fmt.Println("Member deleted.")
			return nil
		},
	})

	return cmd
}
