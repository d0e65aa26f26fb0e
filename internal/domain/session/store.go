package session

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"pet-hospital-client/internal/platform/logger"
	"pet-hospital-client/internal/ports/api"
	"pet-hospital-client/internal/ports/tokenstore"
)

// Errores locales de reglas, con los textos que ve el usuario.
// Gana la primera regla violada: username antes que password.
var (
	ErrCredentialsRequired = errors.New("Username and password are required.")
	ErrUsernameTooShort    = errors.New("Username must be at least 3 characters long.")
	ErrUsernameTooLong     = errors.New("Username must not exceed 10 characters.")
	ErrPasswordTooShort    = errors.New("Password must be at least 6 characters long.")
	ErrPasswordTooLong     = errors.New("Password must not exceed 20 characters.")
)

// Mensajes genéricos cuando el server no manda uno propio.
var (
	errLoginFallback    = errors.New("Failed to login")
	errRegisterFallback = errors.New("Failed to register")
	errNetworkFallback  = errors.New("Something went wrong. Please try again.")
)

// Store es el único dueño del token de sesión. Los demás componentes lo
// reciben inyectado y le piden el token en el momento del call; nadie lee
// storage por su cuenta.
//
// Ciclo: Anonymous -> Authenticated (login ok) -> Anonymous (logout).
// Register NUNCA autentica: requiere un Login explícito después.
type Store struct {
	storage tokenstore.Storage
	auth    api.AuthAPI
	log     logger.Logger
}

func NewStore(storage tokenstore.Storage, auth api.AuthAPI, log logger.Logger) *Store {
	return &Store{
		storage: storage,
		auth:    auth,
		log:     log,
	}
}

// Login valida que vengan ambas credenciales, llama al endpoint remoto y
// persiste el accessToken. En fallo remoto retorna el mensaje del server
// o un fallback genérico.
func (s *Store) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrCredentialsRequired
	}

	token, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return remoteFailure(err, errLoginFallback)
	}

	if err := s.storage.Save(token); err != nil {
		return err
	}
	s.info("session started", map[string]any{"username": username})
	return nil
}

// Register chequea las reglas locales antes de tocar la red (primera regla
// violada gana) y llama al endpoint remoto. No persiste nada.
func (s *Store) Register(ctx context.Context, username, password, email string) error {
	username = strings.TrimSpace(username)

	if utf8.RuneCountInString(username) < 3 {
		return ErrUsernameTooShort
	}
	if utf8.RuneCountInString(username) > 10 {
		return ErrUsernameTooLong
	}
	if utf8.RuneCountInString(password) < 6 {
		return ErrPasswordTooShort
	}
	if utf8.RuneCountInString(password) > 20 {
		return ErrPasswordTooLong
	}

	if err := s.auth.Register(ctx, username, password, email); err != nil {
		return remoteFailure(err, errRegisterFallback)
	}
	s.info("user registered", map[string]any{"username": username})
	return nil
}

// Logout borra el token persistido. No afecta calls ya emitidos (el token
// viaja por valor); los próximos calls autenticados fallan con
// ErrUnauthenticated antes de tocar la red.
func (s *Store) Logout() error {
	if err := s.storage.Clear(); err != nil {
		return err
	}
	s.info("session ended", nil)
	return nil
}

// HasSession es una lectura pura del storage: gate de affordances de UI
// y de qué calls son legales.
func (s *Store) HasSession() bool {
	_, ok := s.storage.Load()
	return ok
}

// Token retorna el token vigente, si hay sesión.
func (s *Store) Token() (string, bool) {
	return s.storage.Load()
}

func (s *Store) info(msg string, fields map[string]any) {
	if s.log == nil {
		return
	}
	s.log.Info(msg, fields)
}

// remoteFailure traduce un error del adapter al mensaje que ve el usuario:
// message del server si vino, fallback de la operación si no, y mensaje
// genérico de red cuando ni siquiera hubo respuesta HTTP.
func remoteFailure(err error, fallback error) error {
	se, ok := api.AsSubmissionError(err)
	if !ok {
		return err
	}
	if se.StatusCode == 0 {
		return errNetworkFallback
	}
	if msg := strings.TrimSpace(se.Message); msg != "" {
		return errors.New(msg)
	}
	return fallback
}
