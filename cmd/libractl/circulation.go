// cmd/libractl/circulation.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show your loan and reservation overview",
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := a.currentUser()
			if err != nil {
				return err
			}

			stats, err := a.client.DashboardStats(cmd.Context(), u.ID)
			if err != nil {
				return a.apiErr(err)
			}

			fmt.Printf("Active loans:         %d\n", stats.ActiveLoans)
			fmt.Printf("Pending reservations: %d\n", stats.PendingReservations)
			fmt.Printf("Books read:           %d\n", stats.BooksRead)
			fmt.Printf("Overdue:              %d\n", stats.Overdue)

			due, err := a.client.UpcomingDueDates(cmd.Context(), u.ID)
			if err != nil {
				return a.apiErr(err)
			}
			if len(due) > 0 {
				fmt.Println("\nDue soon:")
				for _, d := range due {
					fmt.Printf("  %-30s due %s\n", truncateString(d.Book, 30), d.DueDate)
				}
			}
			return nil
		},
	}
}

func (a *app) loansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loans",
		Short: "List and manage your loans",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your loans",
		RunE: func(c *cobra.Command, _ []string) error {
			u, err := a.currentUser()
			if err != nil {
				return err
			}
			loans, err := a.client.LoansByMember(c.Context(), u.ID)
			if err != nil {
				return a.apiErr(err)
			}
			if len(loans) == 0 {
				fmt.Println("No loans.")
				return nil
			}
			fmt.Printf("%-36s %-36s %-10s %-12s %-12s\n", "ID", "Book", "Status", "Loaned", "Due")
			for _, l := range loans {
				fmt.Printf("%-36s %-36s %-10s %-12s %-12s\n",
					l.ID, truncateString(l.BookID, 36), l.Status, l.LoanDate, l.DueDate)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "extend <loan-id>",
		Short: "Extend a loan's due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			loan, err := a.client.ExtendLoan(c.Context(), args[0])
			if err != nil {
				return a.apiErr(err)
			}
			fmt.Printf("Loan extended, now due %s\n", loan.DueDate)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "return <loan-id>",
		Short: "Return a borrowed book",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			loan, err := a.client.ReturnLoan(c.Context(), args[0])
			if err != nil {
				return a.apiErr(err)
			}
			fmt.Printf("Returned on %s\n", loan.ReturnDate)
			return nil
		},
	})

	return cmd
}

func (a *app) reservationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reservations",
		Short: "List and manage your reservations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your reservations",
		RunE: func(c *cobra.Command, _ []string) error {
			u, err := a.currentUser()
			if err != nil {
				return err
			}
			reservations, err := a.client.ReservationsByMember(c.Context(), u.ID)
			if err != nil {
				return a.apiErr(err)
			}
			if len(reservations) == 0 {
				fmt.Println("No reservations.")
				return nil
			}
			fmt.Printf("%-36s %-30s %-10s %-12s\n", "ID", "Book", "Status", "Reserved")
			for _, r := range reservations {
				fmt.Printf("%-36s %-30s %-10s %-12s\n",
					r.ID, truncateString(r.Book, 30), r.Status, r.ReservationDate)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "cancel <reservation-id>",
		Short: "Cancel a pending reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			u, err := a.currentUser()
			if err != nil {
				return err
			}
			res, err := a.client.CancelReservation(c.Context(), args[0], u.ID)
			if err != nil {
				return a.apiErr(err)
			}
			fmt.Printf("Reservation for %q is now %s\n", res.Book, res.Status)
			return nil
		},
	})

	return cmd
}
