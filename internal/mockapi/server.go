// internal/mockapi/server.go
//
// An in-memory rendition of the remote library service, covering exactly the
// surface the client consumes. It exists so the client can be developed and
// demonstrated without the real backend; it is not that backend.
package mockapi

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"libraclient/internal/gateway"
	"libraclient/internal/session"
)

const dateLayout = "2006-01-02"

// account pairs a public user with its credential material.
type account struct {
	user session.User
	hash string
	salt string
}

// reservation tracks the owning member alongside the wire shape.
type reservation struct {
	gateway.Reservation
	userID string
}

// Server holds all state behind a guarded set of maps.
type Server struct {
	mu           sync.Mutex
	accounts     map[string]*account // keyed by email
	books        map[string]*gateway.Book
	loans        map[string]*gateway.Loan
	reservations map[string]*reservation

	secret       []byte
	loginLimiter *rate.Limiter
	logger       *slog.Logger
}

// NewServer builds a server signing tokens with secret, pre-seeded with a
// small catalog and an administrator account (admin@example.com / admin).
func NewServer(secret string, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		accounts:     make(map[string]*account),
		books:        make(map[string]*gateway.Book),
		loans:        make(map[string]*gateway.Loan),
		reservations: make(map[string]*reservation),
		secret:       []byte(secret),
		loginLimiter: rate.NewLimiter(rate.Every(time.Second), 10),
		logger:       logger,
	}
	if err := s.seed(); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler returns the routed HTTP surface under /api.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/sign_in", s.handleSignIn)
		r.Post("/sign_up", s.handleSignUp)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/dashboard/stats", s.handleDashboardStats)
			r.Get("/get_loans_by_member/", s.handleLoansByMember)
			r.Get("/get_upcoming_due_dates/", s.handleUpcomingDueDates)
			r.Post("/loans/extend/", s.handleExtendLoan)
			r.Post("/loans/return/", s.handleReturnLoan)
			r.Get("/get_reservations_by_member/member/", s.handleReservationsByMember)
			r.Put("/cancel_reservation/", s.handleCancelReservation)
			r.Get("/get_books/", s.handleBooks)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Post("/books/add_book/", s.handleAddBook)
			r.Put("/update_book/{id}", s.handleUpdateBook)
			r.Delete("/remove_book/{id}", s.handleRemoveBook)
			r.Get("/get_all_members", s.handleMembers)
			r.Post("/create_member", s.handleCreateMember)
			r.Put("/update_member/{id}", s.handleUpdateMember)
			r.Delete("/delete_member/{id}", s.handleDeleteMember)
		})
	})
	return r
}

func (s *Server) seed() error {
	if _, err := s.createAccount("Admin", "admin@example.com", "admin", session.RoleAdmin); err != nil {
		return err
	}

	seedBooks := []gateway.Book{
		{Title: "Pride and Prejudice", Author: "Jane Austen", ISBN: "9780141439518", PublishedDate: "1813-01-28", Quantity: 5},
		{Title: "1984", Author: "George Orwell", ISBN: "9780451524935", PublishedDate: "1949-06-08", Quantity: 3},
		{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593", PublishedDate: "1965-08-01", Quantity: 2},
	}
	for _, b := range seedBooks {
		b.ID = uuid.NewString()
		b.AvailableCopies = b.Quantity
		b.Available = true
		book := b
		s.books[b.ID] = &book
	}
	return nil
}

// createAccount registers a user. Caller must not hold s.mu.
func (s *Server) createAccount(name, email, password string, role session.Role) (*session.User, error) {
	hash, salt, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[email]; exists {
		return nil, errEmailTaken
	}
	acct := &account{
		user: session.User{ID: uuid.NewString(), Email: email, Name: name, Role: role},
		hash: hash,
		salt: salt,
	}
	s.accounts[email] = acct
	return &acct.user, nil
}
