// Package crmfake is an in-process CRM API used by tests.
package crmfake

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/jrsteele09/go-booking-sync/crm"
)

// Call is one request the fake received.
type Call struct {
	Op    string
	Path  string
	Query string
	Body  []byte
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	calls    []Call
	contacts map[string]*crm.ContactSummary // keyed by email
	failures map[string]int
	emailErr map[string]int // keyed by op + " " + email
	nextID   int64
}

func New() *Server {
	s := &Server{
		contacts: make(map[string]*crm.ContactSummary),
		failures: make(map[string]int),
		emailErr: make(map[string]int),
		nextID:   100,
	}

	r := chi.NewRouter()
	r.Get("/contacts", s.search)
	r.Put("/contacts", s.upsert)
	r.Post("/contacts/{id}/tags", s.tags)
	r.Post("/notes", s.note)
	s.Server = httptest.NewServer(r)
	return s
}

// AddContact stores a contact whose booking id custom field (514) holds bookingID.
func (s *Server) AddContact(email, bookingID string) int64 {
	return s.AddContactWithFields(email, crm.CustomField{ID: 514, Content: bookingID})
}

// AddContactWithFields stores a contact carrying exactly the given custom fields.
func (s *Server) AddContactWithFields(email string, fields ...crm.CustomField) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.contacts[email] = &crm.ContactSummary{
		ID:             s.nextID,
		EmailAddresses: []crm.EmailAddress{{Email: email, Field: "EMAIL1"}},
		CustomFields:   fields,
	}
	return s.nextID
}

// Fail makes every call of op ("search", "upsert", "tags", "note") answer with status.
func (s *Server) Fail(op string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = status
}

// FailFor makes calls of op that concern the contact with this email answer
// with status. Other contacts are unaffected.
func (s *Server) FailFor(op, email string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emailErr[op+" "+email] = status
}

// Calls returns the recorded calls for op, or all calls when op is empty.
func (s *Server) Calls(op string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Call
	for _, c := range s.calls {
		if op == "" || c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// record stores the call and returns the status it should fail with, 0 for
// none. emailOf names the contact the call concerns; it runs under the lock.
func (s *Server) record(op string, r *http.Request, emailOf func(body []byte) string) ([]byte, int) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: op, Path: r.URL.Path, Query: r.URL.RawQuery, Body: body})
	if status := s.failures[op]; status != 0 {
		return body, status
	}
	return body, s.emailErr[op+" "+emailOf(body)]
}

// emailByID must be called with mu held.
func (s *Server) emailByID(id int64) string {
	for email, c := range s.contacts {
		if c.ID == id {
			return email
		}
	}
	return ""
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if _, status := s.record("search", r, func([]byte) string { return email }); status != 0 {
		writeJSON(w, status, map[string]string{"message": "search failed"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	result := crm.SearchResult{Contacts: []crm.ContactSummary{}}
	if c, ok := s.contacts[email]; ok {
		result.Count = 1
		result.Contacts = append(result.Contacts, *c)
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) upsert(w http.ResponseWriter, r *http.Request) {
	body, status := s.record("upsert", r, func(body []byte) string {
		var contact crm.Contact
		_ = json.Unmarshal(body, &contact)
		return contact.PrimaryEmail()
	})
	if status != 0 {
		writeJSON(w, status, map[string]string{"message": "upsert failed"})
		return
	}

	var contact crm.Contact
	if err := json.Unmarshal(body, &contact); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	email := contact.PrimaryEmail()
	existing, ok := s.contacts[email]
	status = http.StatusOK
	if !ok {
		s.nextID++
		existing = &crm.ContactSummary{ID: s.nextID, EmailAddresses: contact.EmailAddresses}
		s.contacts[email] = existing
		status = http.StatusCreated
	}
	existing.GivenName = contact.GivenName
	existing.FamilyName = contact.FamilyName
	existing.CustomFields = contact.CustomFields
	writeJSON(w, status, map[string]any{"id": existing.ID, "given_name": existing.GivenName})
}

func (s *Server) tags(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if _, status := s.record("tags", r, func([]byte) string { return s.emailByID(id) }); status != 0 {
		writeJSON(w, status, map[string]string{"message": "tags failed"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "unknown contact"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{})
}

func (s *Server) note(w http.ResponseWriter, r *http.Request) {
	emailOf := func(body []byte) string {
		var note struct {
			ContactID int64 `json:"contact_id"`
		}
		_ = json.Unmarshal(body, &note)
		return s.emailByID(note.ContactID)
	}
	if _, status := s.record("note", r, emailOf); status != 0 {
		writeJSON(w, status, map[string]string{"message": "note failed"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": 1})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) AccessToken(context.Context) (string, error) {
	return string(t), nil
}
