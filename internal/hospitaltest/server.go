// Package hospitaltest implementa un doble in-memory del API remoto del
// hospital, con la misma superficie HTTP que consume el cliente. Lo usan los
// tests de adapters/view-model y cmd/fakeapi para desarrollo local.
package hospitaltest

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pet-hospital-client/internal/domain/records"
)

type user struct {
	passwordHash []byte
	email        string
}

type photo struct {
	data        []byte
	contentType string
}

// Server guarda todo en memoria, protegido por mutex (los tests disparan
// requests concurrentes).
type Server struct {
	mu     sync.RWMutex
	now    func() time.Time
	users  map[string]user
	tokens map[string]string // token -> username
	pets   map[string]records.Record
	photos map[string]photo
}

func New() *Server {
	return &Server{
		now:    time.Now,
		users:  make(map[string]user),
		tokens: make(map[string]string),
		pets:   make(map[string]records.Record),
		photos: make(map[string]photo),
	}
}

// SetNow fija el reloj (createdDate determinístico en tests).
func (s *Server) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SeedToken registra un token válido para un usuario, sin pasar por login.
func (s *Server) SeedToken(username string) string {
	token := newToken()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = username
	return token
}

// RevokeToken invalida un token emitido (para simular expiración).
func (s *Server) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// Handler arma el router con la superficie completa del API:
// auth JSON, intake multipart público, y gestión autenticada.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	// Intake público: el form de alta no requiere sesión.
	r.Post("/pets", s.handleCreate)
	r.Get("/pets/photo/{filename}", s.handlePhoto)

	// Gestión: requiere bearer token.
	r.Group(func(pr chi.Router) {
		pr.Use(s.requireAuth)
		pr.Get("/pets", s.handleList)
		pr.Patch("/pets/{petID}", s.handleUpdate)
		pr.Delete("/pets/{petID}", s.handleDelete)
	})

	return r
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeMessage(w, http.StatusUnauthorized, "Missing or invalid token")
			return
		}
		s.mu.RLock()
		_, ok := s.tokens[token]
		s.mu.RUnlock()
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Missing or invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "username and password required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "hash failed")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Username]; exists {
		writeMessage(w, http.StatusConflict, "Username already exists")
		return
	}
	s.users[req.Username] = user{passwordHash: hash, email: req.Email}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[strings.TrimSpace(req.Username)]
	if !ok || bcrypt.CompareHashAndPassword(u.passwordHash, []byte(req.Password)) != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token := newToken()
	s.tokens[token] = req.Username

	writeJSON(w, http.StatusOK, map[string]string{"accessToken": token})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.readRecordForm(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = uuid.NewString()
	rec.CreatedDate = s.now().UTC().Format(time.RFC3339)
	s.pets[rec.ID] = rec

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]records.Record, 0, len(s.pets))
	for _, p := range s.pets {
		out = append(out, p)
	}
	// Orden estable por fecha de creación (desempate por id).
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedDate != out[j].CreatedDate {
			return out[i].CreatedDate < out[j].CreatedDate
		}
		return out[i].ID < out[j].ID
	})

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "petID")

	s.mu.RLock()
	existing, ok := s.pets[id]
	s.mu.RUnlock()
	if !ok {
		writeMessage(w, http.StatusNotFound, "pet not found")
		return
	}

	rec, okForm := s.readRecordForm(w, r)
	if !okForm {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// id y createdDate son inmutables; la foto previa se conserva si no
	// vino part nuevo.
	rec.ID = existing.ID
	rec.CreatedDate = existing.CreatedDate
	if rec.PhotoRef == "" {
		rec.PhotoRef = existing.PhotoRef
	}
	s.pets[id] = rec

	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "petID")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pets[id]; !ok {
		writeMessage(w, http.StatusNotFound, "pet not found")
		return
	}
	delete(s.pets, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePhoto(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")

	s.mu.RLock()
	ph, ok := s.photos[name]
	s.mu.RUnlock()
	if !ok {
		writeMessage(w, http.StatusNotFound, "photo not found")
		return
	}

	w.Header().Set("Content-Type", ph.contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(ph.data)
}

// readRecordForm parsea el multipart del form: campos de texto + petPhoto
// opcional. Si viene foto, la almacena y deja la referencia en PhotoRef.
func (s *Server) readRecordForm(w http.ResponseWriter, r *http.Request) (records.Record, bool) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid multipart form")
		return records.Record{}, false
	}

	rec := records.Record{
		PetName:        r.FormValue("petName"),
		OwnerName:      r.FormValue("ownerName"),
		ContactNumber:  r.FormValue("contactNumber"),
		DateOfBirth:    r.FormValue("dateOfBirth"),
		Weight:         r.FormValue("weight"),
		MedicalHistory: r.FormValue("medicalHistory"),
	}

	f, header, err := r.FormFile("petPhoto")
	if err == nil {
		defer f.Close()
		data, readErr := io.ReadAll(f)
		if readErr != nil {
			writeMessage(w, http.StatusBadRequest, "invalid photo part")
			return records.Record{}, false
		}

		name := uuid.NewString() + filepath.Ext(header.Filename)
		ct := header.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		s.mu.Lock()
		s.photos[name] = photo{data: data, contentType: ct}
		s.mu.Unlock()

		rec.PhotoRef = "/pets/photo/" + name
	}

	return rec, true
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func newToken() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
