// cmd/libractl/catalog.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"libraclient/internal/gateway"
)

func (a *app) booksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Browse and manage the catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the catalog",
		RunE: func(c *cobra.Command, _ []string) error {
			if _, err := a.currentUser(); err != nil {
				return err
			}
			books, err := a.client.Books(c.Context())
			if err != nil {
				return a.apiErr(err)
			}
			if len(books) == 0 {
				fmt.Println("The catalog is empty.")
				return nil
			}
			fmt.Printf("%-36s %-30s %-25s %-10s %s\n", "ID", "Title", "Author", "Copies", "Available")
			for _, b := range books {
				fmt.Printf("%-36s %-30s %-25s %3d/%-6d %t\n",
					b.ID, truncateString(b.Title, 30), truncateString(b.Author, 25),
					b.AvailableCopies, b.Quantity, b.Available)
			}
			return nil
		},
	})

	var params gateway.BookParams
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the catalog (staff only)",
		RunE: func(c *cobra.Command, _ []string) error {
			book, err := a.client.AddBook(c.Context(), params)
			if err != nil {
				return a.apiErr(err)
			}
			fmt.Printf("Added %q (%s)\n", book.Title, book.ID)
			return nil
		},
	}
	addBookFlags(addCmd, &params)
	addCmd.MarkFlagRequired("title")
	cmd.AddCommand(addCmd)

	var updateParams gateway.BookParams
	updateCmd := &cobra.Command{
		Use:   "update <book-id>",
		Short: "Update a catalog entry (staff only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			book, err := a.client.UpdateBook(c.Context(), args[0], updateParams)
			if err != nil {
				return a.apiErr(err)
			}
			fmt.Printf("Updated %q, %d of %d copies available\n",
				book.Title, book.AvailableCopies, book.Quantity)
			return nil
		},
	}
	addBookFlags(updateCmd, &updateParams)
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <book-id>",
		Short: "Remove a book from the catalog (staff only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if err := a.client.RemoveBook(c.Context(), args[0]); err != nil {
				return a.apiErr(err)
			}
			fmt.Println("Book removed.")
			return nil
		},
	})

	return cmd
}

func addBookFlags(cmd *cobra.Command, params *gateway.BookParams) {
	cmd.Flags().StringVar(&params.Title, "title", "", "book title")
	cmd.Flags().StringVar(&params.Author, "author", "", "author name")
	cmd.Flags().StringVar(&params.ISBN, "isbn", "", "ISBN")
	cmd.Flags().StringVar(&params.PublishedDate, "published", "", "publication date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&params.Quantity, "quantity", 1, "number of copies")
}
