// internal/gateway/domain.go
package gateway

import "libraclient/internal/session"

// The remote service owns all of these shapes and their invariants (e.g.
// available copies never exceed quantity). The client decodes them for
// display and does no cross-entity validation.

// LoanStatus transitions are owned by the remote service; the client only
// displays a status and requests extend/return.
type LoanStatus string

const (
	LoanActive   LoanStatus = "ACTIVE"
	LoanReturned LoanStatus = "RETURNED"
	LoanOverdue  LoanStatus = "OVERDUE"
)

// ReservationStatus is server-owned except for the client-initiated
// pending→canceled request.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCanceled  ReservationStatus = "CANCELED"
)

// Book is a catalog entry.
type Book struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	CoverImage      string `json:"coverImage,omitempty"`
	PublishedDate   string `json:"publishedDate"`
	Available       bool   `json:"available"`
	Quantity        int    `json:"quantity"`
	AvailableCopies int    `json:"availableCopies"`
}

// Loan records one borrowing of a book by a user.
type Loan struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	BookID     string     `json:"bookId"`
	Status     LoanStatus `json:"status"`
	LoanDate   string     `json:"loanDate"`
	DueDate    string     `json:"dueDate"`
	ReturnDate string     `json:"returnDate,omitempty"`
}

// Reservation holds a pending claim on a book, referenced by name.
type Reservation struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Book             string            `json:"book"`
	Status           ReservationStatus `json:"status"`
	ReservationDate  string            `json:"reservationDate"`
	ConfirmationDate string            `json:"confirmationDate,omitempty"`
}

// DueDate is one upcoming-due-date entry on the member dashboard.
type DueDate struct {
	ID      string `json:"id"`
	Book    string `json:"book"`
	DueDate string `json:"dueDate"`
}

// DashboardStats are the per-member counters on the dashboard overview.
type DashboardStats struct {
	ActiveLoans         int `json:"activeLoans"`
	PendingReservations int `json:"pendingReservations"`
	BooksRead           int `json:"booksRead"`
	Overdue             int `json:"overdue"`
}

// AuthResponse is the sign-in/sign-up payload: the user's fields at the top
// level plus the bearer token to store for subsequent requests.
type AuthResponse struct {
	session.User
	Token string `json:"token"`
}

// BookParams carries the writable fields of a book for add/update requests.
type BookParams struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	ISBN          string `json:"isbn"`
	PublishedDate string `json:"published_date"`
	Quantity      int    `json:"quantity"`
}
