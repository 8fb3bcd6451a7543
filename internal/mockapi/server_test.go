// internal/mockapi/server_test.go
package mockapi

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"libraclient/internal/gateway"
	"libraclient/internal/session"
)

// tokenBox is a mutable token source for driving the client through an
// auth handshake.
type tokenBox struct{ token string }

func (b *tokenBox) Token() string { return b.token }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer("test-secret", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return s
}

func newTestClient(t *testing.T, s *Server) (*gateway.Client, *tokenBox) {
	t.Helper()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	box := &tokenBox{}
	client := gateway.NewClient(ts.URL+"/api", box,
		gateway.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return client, box
}

func signInAdmin(t *testing.T, client *gateway.Client, box *tokenBox) *session.User {
	t.Helper()
	resp, err := client.SignIn(context.Background(), "admin@example.com", "admin")
	require.NoError(t, err)
	box.token = resp.Token
	return &resp.User
}

func TestSignInSeededAdmin(t *testing.T) {
	s := newTestServer(t)
	client, _ := newTestClient(t, s)

	resp, err := client.SignIn(context.Background(), "admin@example.com", "admin")
	require.NoError(t, err)
	assert.Equal(t, session.RoleAdmin, resp.Role)
	assert.NotEmpty(t, resp.Token)

	claims, err := s.parseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, claims.UserID)
	assert.Equal(t, session.RoleAdmin, claims.Role)
}

func TestSignInWrongPassword(t *testing.T) {
	s := newTestServer(t)
	client, _ := newTestClient(t, s)

	_, err := client.SignIn(context.Background(), "admin@example.com", "nope")
	assert.ErrorIs(t, err, gateway.ErrUnauthorized)
}

func TestSignInRateLimited(t *testing.T) {
	s := newTestServer(t)
	s.loginLimiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	client, _ := newTestClient(t, s)

	_, err := client.SignIn(context.Background(), "admin@example.com", "admin")
	require.NoError(t, err)

	_, err = client.SignIn(context.Background(), "admin@example.com", "admin")
	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 429, apiErr.Status)
}

func TestSignUpThenSignIn(t *testing.T) {
	s := newTestServer(t)
	client, _ := newTestClient(t, s)
	ctx := context.Background()

	resp, err := client.SignUp(ctx, "Ann", "ann@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Ann", resp.Name)
	assert.Equal(t, session.RoleMember, resp.Role)
	assert.NotEmpty(t, resp.Token)

	again, err := client.SignIn(ctx, "ann@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, resp.ID, again.ID)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	client, _ := newTestClient(t, s)
	ctx := context.Background()

	_, err := client.SignUp(ctx, "Ann", "ann@example.com", "s3cret")
	require.NoError(t, err)

	_, err = client.SignUp(ctx, "Other Ann", "ann@example.com", "different")
	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.Status)
}

func TestRequestWithoutTokenRejected(t *testing.T) {
	s := newTestServer(t)
	client, _ := newTestClient(t, s)

	_, err := client.Books(context.Background())
	assert.ErrorIs(t, err, gateway.ErrUnauthorized)
}

func TestMemberCannotManageCatalog(t *testing.T) {
	s := newTestServer(t)
	client, box := newTestClient(t, s)
	ctx := context.Background()

	resp, err := client.SignUp(ctx, "Ann", "ann@example.com", "s3cret")
	require.NoError(t, err)
	box.token = resp.Token

	_, err = client.AddBook(ctx, gateway.BookParams{Title: "Hamlet", Quantity: 1})
	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.Status)
}

func TestBookLifecycle(t *testing.T) {
	s := newTestServer(t)
	client, box := newTestClient(t, s)
	ctx := context.Background()
	signInAdmin(t, client, box)

	book, err := client.AddBook(ctx, gateway.BookParams{
		Title: "Hamlet", Author: "William Shakespeare",
		ISBN: "9780743477123", PublishedDate: "1603-01-01", Quantity: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, book.AvailableCopies)
	assert.True(t, book.Available)

	books, err := client.Books(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 4) // three seeded plus the new one

	updated, err := client.UpdateBook(ctx, book.ID, gateway.BookParams{
		Title: "Hamlet", Author: "William Shakespeare",
		ISBN: "9780743477123", PublishedDate: "1603-01-01", Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Quantity)
	assert.Equal(t, 2, updated.AvailableCopies)

	require.NoError(t, client.RemoveBook(ctx, book.ID))

	books, err = client.Books(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 3)
}

func TestUpdateBookCannotDropBelowLoanedCopies(t *testing.T) {
	s := newTestServer(t)
	client, box := newTestClient(t, s)
	ctx := context.Background()
	signInAdmin(t, client, box)

	book, err := client.AddBook(ctx, gateway.BookParams{Title: "Hamlet", Quantity: 3})
	require.NoError(t, err)

	s.mu.Lock()
	s.books[book.ID].AvailableCopies = 1 // two copies out on loan
	s.mu.Unlock()

	_, err = client.UpdateBook(ctx, book.ID, gateway.BookParams{Title: "Hamlet", Quantity: 1})
	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.Status)
}

func TestLoanLifecycle(t *testing.T) {
	s := newTestServer(t)
	client, box := newTestClient(t, s)
	ctx := context.Background()
	admin := signInAdmin(t, client, box)

	var bookID string
	s.mu.Lock()
	for id, b := range s.books {
		if b.Title == "1984" {
			bookID = id
			b.AvailableCopies--
		}
	}
	loan := &gateway.Loan{
		ID:       uuid.NewString(),
		UserID:   admin.ID,
		BookID:   bookID,
		Status:   gateway.LoanActive,
		LoanDate: time.Now().Format(dateLayout),
		DueDate:  time.Now().AddDate(0, 0, 3).Format(dateLayout),
	}
	s.loans[loan.ID] = loan
	s.mu.Unlock()

	loans, err := client.LoansByMember(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, gateway.LoanActive, loans[0].Status)

	due, err := client.UpcomingDueDates(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "1984", due[0].Book)

	extended, err := client.ExtendLoan(ctx, loan.ID)
	require.NoError(t, err)
	wantDue := time.Now().AddDate(0, 0, 17).Format(dateLayout)
	assert.Equal(t, wantDue, extended.DueDate)

	// Pushed past the seven-day horizon, so no longer upcoming.
	due, err = client.UpcomingDueDates(ctx, admin.ID)
	require.NoError(t, err)
	assert.Empty(t, due)

	returned, err := client.ReturnLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, gateway.LoanReturned, returned.Status)
	assert.NotEmpty(t, returned.ReturnDate)

	s.mu.Lock()
	assert.Equal(t, s.books[bookID].Quantity, s.books[bookID].AvailableCopies)
	s.mu.Unlock()

	_, err = client.ExtendLoan(ctx, loan.ID)
	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.Status)
}

func TestDashboardStats(t *testing.T) {
	s := newTestServer(t)
	client, box := newTestClient(t, s)
	ctx := context.Background()
	admin := signInAdmin(t, client, box)

	s.mu.Lock()
	for _, status := range []gateway.LoanStatus{
		gateway.LoanActive, gateway.LoanActive, gateway.LoanReturned, gateway.LoanOverdue,
	} {
		id := uuid.NewString()
		s.loans[id] = &gateway.Loan{ID: id, UserID: admin.ID, Status: status}
	}
	s.reservations["r1"] = &reservation{
		Reservation: gateway.Reservation{ID: "r1", Status: gateway.ReservationPending},
		userID:      admin.ID,
	}
	s.reservations["r2"] = &reservation{
		Reservation: gateway.Reservation{ID: "r2", Status: gateway.ReservationConfirmed},
		userID:      admin.ID,
	}
	s.mu.Unlock()

	stats, err := client.DashboardStats(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ActiveLoans)
	assert.Equal(t, 1, stats.PendingReservations)
	assert.Equal(t, 1, stats.BooksRead)
	assert.Equal(t, 1, stats.Overdue)
}

func TestCancelReservation(t *testing.T) {
	s := newTestServer(t)
	client, box := newTestClient(t, s)
	ctx := context.Background()
	admin := signInAdmin(t, client, box)

	s.mu.Lock()
	s.reservations["r1"] = &reservation{
		Reservation: gateway.Reservation{
			ID: "r1", Name: admin.Name, Book: "Dune",
			Status: gateway.ReservationPending, ReservationDate: "2026-08-20",
		},
		userID: admin.ID,
	}
	s.mu.Unlock()

	res, err := client.CancelReservation(ctx, "r1", admin.ID)
	require.NoError(t, err)
	assert.Equal(t, gateway.ReservationCanceled, res.Status)

	// A second cancel finds a non-pending reservation.
	_, err = client.CancelReservation(ctx, "r1", admin.ID)
	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.Status)
	assert.Contains(t, apiErr.Body, "reservation is not pending")
}

func TestCancelReservationOfAnotherMember(t *testing.T) {
	s := newTestServer(t)
	client, box := newTestClient(t, s)
	ctx := context.Background()
	signInAdmin(t, client, box)

	s.mu.Lock()
	s.reservations["r1"] = &reservation{
		Reservation: gateway.Reservation{ID: "r1", Status: gateway.ReservationPending},
		userID:      "someone-else",
	}
	s.mu.Unlock()

	_, err := client.CancelReservation(ctx, "r1", "not-the-owner")
	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.Status)
}

func TestMemberManagement(t *testing.T) {
	s := newTestServer(t)
	client, box := newTestClient(t, s)
	ctx := context.Background()
	signInAdmin(t, client, box)

	member, err := client.AddMember(ctx, "Ann", "ann@example.com", "s3cret", session.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, session.RoleStaff, member.Role)

	members, err := client.Members(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	updated, err := client.UpdateMember(ctx, member.ID, "Ann B", "annb@example.com", session.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, "Ann B", updated.Name)
	assert.Equal(t, "annb@example.com", updated.Email)
	assert.Equal(t, session.RoleMember, updated.Role)

	// The member signs in under the new address, and the new credentials work.
	_, err = client.SignIn(ctx, "annb@example.com", "s3cret")
	require.NoError(t, err)

	require.NoError(t, client.DeleteMember(ctx, member.ID))

	members, err = client.Members(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, salt, err := hashPassword("s3cret")
	require.NoError(t, err)

	ok, err := verifyPassword("s3cret", salt, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = verifyPassword("wrong", salt, hash)
	require.NoError(t, err)
	assert.False(t, ok)
}
