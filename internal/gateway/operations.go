// internal/gateway/operations.go
package gateway

import (
	"context"
	"net/http"
	"net/url"

	"libraclient/internal/session"
)

// SignIn authenticates with the remote service and returns the user plus
// the bearer token to persist for subsequent requests.
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}

	var resp AuthResponse
	if err := c.do(ctx, "sign_in", http.MethodPost, "/sign_in", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SignUp registers a new account and signs it in.
func (c *Client) SignUp(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	req := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{name, email, password}

	var resp AuthResponse
	if err := c.do(ctx, "sign_up", http.MethodPost, "/sign_up", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DashboardStats fetches the dashboard counters for a user.
func (c *Client) DashboardStats(ctx context.Context, userID string) (*DashboardStats, error) {
	var stats DashboardStats
	query := url.Values{"user_id": {userID}}
	if err := c.do(ctx, "dashboard_stats", http.MethodGet, "/dashboard/stats", query, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// LoansByMember lists a member's loans.
func (c *Client) LoansByMember(ctx context.Context, memberID string) ([]Loan, error) {
	var loans []Loan
	query := url.Values{"member_id": {memberID}}
	if err := c.do(ctx, "loans_by_member", http.MethodGet, "/get_loans_by_member/", query, nil, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// UpcomingDueDates lists a member's loans due soon.
func (c *Client) UpcomingDueDates(ctx context.Context, memberID string) ([]DueDate, error) {
	var due []DueDate
	query := url.Values{"member_id": {memberID}}
	if err := c.do(ctx, "upcoming_due_dates", http.MethodGet, "/get_upcoming_due_dates/", query, nil, &due); err != nil {
		return nil, err
	}
	return due, nil
}

// ExtendLoan asks the service to push out a loan's due date.
func (c *Client) ExtendLoan(ctx context.Context, loanID string) (*Loan, error) {
	req := struct {
		LoanID string `json:"loan_id"`
	}{loanID}

	var loan Loan
	if err := c.do(ctx, "extend_loan", http.MethodPost, "/loans/extend/", nil, req, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// ReturnLoan asks the service to mark a loan returned.
func (c *Client) ReturnLoan(ctx context.Context, loanID string) (*Loan, error) {
	req := struct {
		LoanID string `json:"loan_id"`
	}{loanID}

	var loan Loan
	if err := c.do(ctx, "return_loan", http.MethodPost, "/loans/return/", nil, req, &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// ReservationsByMember lists a member's reservations.
func (c *Client) ReservationsByMember(ctx context.Context, memberID string) ([]Reservation, error) {
	var reservations []Reservation
	query := url.Values{"member_id": {memberID}}
	if err := c.do(ctx, "reservations_by_member", http.MethodGet, "/get_reservations_by_member/member/", query, nil, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

// CancelReservation requests cancellation. The request is forwarded whatever
// the reservation's current status; whether it may be canceled is the
// service's call, and its rejection propagates unchanged.
func (c *Client) CancelReservation(ctx context.Context, reservationID, userID string) (*Reservation, error) {
	req := struct {
		ID     string `json:"id"`
		UserID string `json:"user_id"`
	}{reservationID, userID}

	var reservation Reservation
	if err := c.do(ctx, "cancel_reservation", http.MethodPut, "/cancel_reservation/", nil, req, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Books lists the catalog.
func (c *Client) Books(ctx context.Context) ([]Book, error) {
	var books []Book
	if err := c.do(ctx, "books", http.MethodGet, "/get_books/", nil, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// AddBook creates a catalog entry.
func (c *Client) AddBook(ctx context.Context, params BookParams) (*Book, error) {
	var book Book
	if err := c.do(ctx, "add_book", http.MethodPost, "/books/add_book/", nil, params, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateBook replaces a catalog entry's writable fields.
func (c *Client) UpdateBook(ctx context.Context, bookID string, params BookParams) (*Book, error) {
	var book Book
	if err := c.do(ctx, "update_book", http.MethodPut, "/update_book/"+bookID, nil, params, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// RemoveBook deletes a catalog entry.
func (c *Client) RemoveBook(ctx context.Context, bookID string) error {
	return c.do(ctx, "remove_book", http.MethodDelete, "/remove_book/"+bookID, nil, nil, nil)
}

// Members lists every registered member.
func (c *Client) Members(ctx context.Context) ([]session.User, error) {
	var members []session.User
	if err := c.do(ctx, "members", http.MethodGet, "/get_all_members", nil, nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// AddMember creates a member account.
func (c *Client) AddMember(ctx context.Context, name, email, password string, role session.Role) (*session.User, error) {
	req := struct {
		Name     string       `json:"name"`
		Email    string       `json:"email"`
		Password string       `json:"password"`
		Role     session.Role `json:"role"`
	}{name, email, password, role}

	var member session.User
	if err := c.do(ctx, "add_member", http.MethodPost, "/create_member", nil, req, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// UpdateMember updates a member's profile fields.
func (c *Client) UpdateMember(ctx context.Context, memberID, name, email string, role session.Role) (*session.User, error) {
	req := struct {
		Name  string       `json:"name"`
		Email string       `json:"email"`
		Role  session.Role `json:"role"`
	}{name, email, role}

	var member session.User
	if err := c.do(ctx, "update_member", http.MethodPut, "/update_member/"+memberID, nil, req, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// DeleteMember removes a member account.
func (c *Client) DeleteMember(ctx context.Context, memberID string) error {
	return c.do(ctx, "delete_member", http.MethodDelete, "/delete_member/"+memberID, nil, nil, nil)
}
