// internal/mockapi/handlers.go
package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"libraclient/internal/gateway"
	"libraclient/internal/session"
)

var errEmailTaken = errors.New("email already registered")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if !s.loginLimiter.Allow() {
		http.Error(w, "too many sign-in attempts", http.StatusTooManyRequests)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[req.Email]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	match, err := verifyPassword(req.Password, acct.salt, acct.hash)
	if err != nil || !match {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := s.mintToken(acct.user)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.logger.Info("member signed in", "email", req.Email)
	writeJSON(w, http.StatusOK, gateway.AuthResponse{User: acct.user, Token: token})
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}

	user, err := s.createAccount(req.Name, req.Email, req.Password, session.RoleMember)
	if errors.Is(err, errEmailTaken) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	token, err := s.mintToken(*user)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.logger.Info("member registered", "email", req.Email)
	writeJSON(w, http.StatusCreated, gateway.AuthResponse{User: *user, Token: token})
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")

	s.mu.Lock()
	defer s.mu.Unlock()

	var stats gateway.DashboardStats
	for _, l := range s.loans {
		if l.UserID != userID {
			continue
		}
		switch l.Status {
		case gateway.LoanActive:
			stats.ActiveLoans++
		case gateway.LoanReturned:
			stats.BooksRead++
		case gateway.LoanOverdue:
			stats.Overdue++
		}
	}
	for _, res := range s.reservations {
		if res.userID == userID && res.Status == gateway.ReservationPending {
			stats.PendingReservations++
		}
	}

	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleLoansByMember(w http.ResponseWriter, r *http.Request) {
	memberID := r.URL.Query().Get("member_id")

	s.mu.Lock()
	defer s.mu.Unlock()

	loans := []gateway.Loan{}
	for _, l := range s.loans {
		if l.UserID == memberID {
			loans = append(loans, *l)
		}
	}
	sort.Slice(loans, func(i, j int) bool { return loans[i].LoanDate < loans[j].LoanDate })

	writeJSON(w, http.StatusOK, loans)
}

func (s *Server) handleUpcomingDueDates(w http.ResponseWriter, r *http.Request) {
	memberID := r.URL.Query().Get("member_id")
	horizon := time.Now().AddDate(0, 0, 7)

	s.mu.Lock()
	defer s.mu.Unlock()

	due := []gateway.DueDate{}
	for _, l := range s.loans {
		if l.UserID != memberID || l.Status != gateway.LoanActive {
			continue
		}
		d, err := time.Parse(dateLayout, l.DueDate)
		if err != nil || d.After(horizon) {
			continue
		}
		due = append(due, gateway.DueDate{ID: l.ID, Book: s.bookTitle(l.BookID), DueDate: l.DueDate})
	}
	sort.Slice(due, func(i, j int) bool { return due[i].DueDate < due[j].DueDate })

	writeJSON(w, http.StatusOK, due)
}

// bookTitle resolves a book ID for display. Caller must hold s.mu.
func (s *Server) bookTitle(bookID string) string {
	if b, ok := s.books[bookID]; ok {
		return b.Title
	}
	return bookID
}

func (s *Server) handleExtendLoan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LoanID string `json:"loan_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loan, ok := s.loans[req.LoanID]
	if !ok {
		http.Error(w, "loan not found", http.StatusNotFound)
		return
	}
	if loan.Status != gateway.LoanActive {
		http.Error(w, "only active loans can be extended", http.StatusConflict)
		return
	}

	d, err := time.Parse(dateLayout, loan.DueDate)
	if err != nil {
		http.Error(w, "loan has an invalid due date", http.StatusInternalServerError)
		return
	}
	loan.DueDate = d.AddDate(0, 0, 14).Format(dateLayout)

	writeJSON(w, http.StatusOK, loan)
}

func (s *Server) handleReturnLoan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LoanID string `json:"loan_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loan, ok := s.loans[req.LoanID]
	if !ok {
		http.Error(w, "loan not found", http.StatusNotFound)
		return
	}
	if loan.Status == gateway.LoanReturned {
		http.Error(w, "loan is already returned", http.StatusConflict)
		return
	}

	loan.Status = gateway.LoanReturned
	loan.ReturnDate = time.Now().Format(dateLayout)

	if b, ok := s.books[loan.BookID]; ok && b.AvailableCopies < b.Quantity {
		b.AvailableCopies++
		b.Available = true
	}

	writeJSON(w, http.StatusOK, loan)
}

func (s *Server) handleReservationsByMember(w http.ResponseWriter, r *http.Request) {
	memberID := r.URL.Query().Get("member_id")

	s.mu.Lock()
	defer s.mu.Unlock()

	reservations := []gateway.Reservation{}
	for _, res := range s.reservations {
		if res.userID == memberID {
			reservations = append(reservations, res.Reservation)
		}
	}
	sort.Slice(reservations, func(i, j int) bool {
		return reservations[i].ReservationDate < reservations[j].ReservationDate
	})

	writeJSON(w, http.StatusOK, reservations)
}

func (s *Server) handleCancelReservation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     string `json:"id"`
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[req.ID]
	if !ok {
		http.Error(w, "reservation not found", http.StatusNotFound)
		return
	}
	if res.userID != req.UserID {
		http.Error(w, "reservation belongs to another member", http.StatusForbidden)
		return
	}
	if res.Status != gateway.ReservationPending {
		http.Error(w, "reservation is not pending", http.StatusConflict)
		return
	}

	res.Status = gateway.ReservationCanceled
	writeJSON(w, http.StatusOK, res.Reservation)
}

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books := []gateway.Book{}
	for _, b := range s.books {
		books = append(books, *b)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })

	writeJSON(w, http.StatusOK, books)
}

func (s *Server) handleAddBook(w http.ResponseWriter, r *http.Request) {
	var params gateway.BookParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if params.Title == "" || params.Quantity < 1 {
		http.Error(w, "a title and a positive quantity are required", http.StatusBadRequest)
		return
	}

	book := &gateway.Book{
		ID:              uuid.NewString(),
		Title:           params.Title,
		Author:          params.Author,
		ISBN:            params.ISBN,
		PublishedDate:   params.PublishedDate,
		Quantity:        params.Quantity,
		AvailableCopies: params.Quantity,
		Available:       true,
	}

	s.mu.Lock()
	s.books[book.ID] = book
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, book)
}

func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	var params gateway.BookParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[chi.URLParam(r, "id")]
	if !ok {
		http.Error(w, "book not found", http.StatusNotFound)
		return
	}

	borrowed := book.Quantity - book.AvailableCopies
	if params.Quantity < borrowed {
		http.Error(w, "quantity cannot drop below copies on loan", http.StatusConflict)
		return
	}

	book.Title = params.Title
	book.Author = params.Author
	book.ISBN = params.ISBN
	book.PublishedDate = params.PublishedDate
	book.Quantity = params.Quantity
	book.AvailableCopies = params.Quantity - borrowed
	book.Available = book.AvailableCopies > 0

	writeJSON(w, http.StatusOK, book)
}

func (s *Server) handleRemoveBook(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	if _, ok := s.books[id]; !ok {
		http.Error(w, "book not found", http.StatusNotFound)
		return
	}
	delete(s.books, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	members := []session.User{}
	for _, acct := range s.accounts {
		members = append(members, acct.user)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })

	writeJSON(w, http.StatusOK, members)
}

func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string       `json:"name"`
		Email    string       `json:"email"`
		Password string       `json:"password"`
		Role     session.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = session.RoleMember
	}

	user, err := s.createAccount(req.Name, req.Email, req.Password, req.Role)
	if errors.Is(err, errEmailTaken) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string       `json:"name"`
		Email string       `json:"email"`
		Role  session.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct := s.accountByID(chi.URLParam(r, "id"))
	if acct == nil {
		http.Error(w, "member not found", http.StatusNotFound)
		return
	}

	if req.Email != "" && req.Email != acct.user.Email {
		if _, taken := s.accounts[req.Email]; taken {
			http.Error(w, errEmailTaken.Error(), http.StatusConflict)
			return
		}
		delete(s.accounts, acct.user.Email)
		acct.user.Email = req.Email
		s.accounts[req.Email] = acct
	}
	if req.Name != "" {
		acct.user.Name = req.Name
	}
	if req.Role != "" {
		acct.user.Role = req.Role
	}

	writeJSON(w, http.StatusOK, acct.user)
}

func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct := s.accountByID(chi.URLParam(r, "id"))
	if acct == nil {
		http.Error(w, "member not found", http.StatusNotFound)
		return
	}
	delete(s.accounts, acct.user.Email)
	w.WriteHeader(http.StatusNoContent)
}

// accountByID scans accounts for a matching user ID. Caller must hold s.mu.
func (s *Server) accountByID(id string) *account {
	for _, acct := range s.accounts {
		if acct.user.ID == id {
			return acct
		}
	}
	return nil
}
