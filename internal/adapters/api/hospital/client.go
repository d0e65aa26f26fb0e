package hospital

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	"pet-hospital-client/internal/domain/records"
	"pet-hospital-client/internal/platform/httpclient"
	"pet-hospital-client/internal/platform/logger"
	"pet-hospital-client/internal/ports/api"
)

// Config del cliente contra el API del hospital.
// BaseURL normalmente viene de env (API_BASE_URL) vía config.Load.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implementa api.RecordsAPI y api.AuthAPI sobre HTTP.
// Ninguna operación reintenta ni hace backoff: un call por invocación,
// el error se resuelve sincrónicamente hacia el caller.
type Client struct {
	hc  *httpclient.Client
	log logger.Logger
}

var (
	_ api.RecordsAPI = (*Client)(nil)
	_ api.AuthAPI    = (*Client)(nil)
)

func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("hospital: base url required")
	}
	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{hc: hc, log: log}, nil
}

// Create sube una ficha nueva como multipart. Intake público: sin token.
// El caller ya validó la ficha; acá no se re-valida.
func (c *Client) Create(ctx context.Context, rec records.Record) (records.Record, error) {
	var out records.Record
	err := c.hc.DoMultipart(ctx, http.MethodPost, "/pets", nil, formFields(rec), formFile(rec), &out)
	if err != nil {
		c.warn("create record failed", err)
		return records.Record{}, submissionError(err)
	}
	return out, nil
}

// Update reenvía la ficha completa como multipart PATCH.
// Retorna la ficha canónica del server: el caller DEBE reemplazar su copia
// local con ella (el server es la fuente de verdad de campos derivados).
func (c *Client) Update(ctx context.Context, token, id string, rec records.Record) (records.Record, error) {
	if strings.TrimSpace(token) == "" {
		return records.Record{}, api.ErrUnauthenticated
	}
	var out records.Record
	err := c.hc.DoMultipart(ctx, http.MethodPatch, "/pets/"+id,
		httpclient.BearerHeader(token), formFields(rec), formFile(rec), &out)
	if err != nil {
		c.warn("update record failed", err)
		return records.Record{}, submissionError(err)
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, token, id string) error {
	if strings.TrimSpace(token) == "" {
		return api.ErrUnauthenticated
	}
	err := c.hc.DoJSON(ctx, http.MethodDelete, "/pets/"+id,
		httpclient.BearerHeader(token), nil, nil)
	if err != nil {
		c.warn("delete record failed", err)
		return submissionError(err)
	}
	return nil
}

func (c *Client) List(ctx context.Context, token string) ([]records.Record, error) {
	if strings.TrimSpace(token) == "" {
		return nil, api.ErrUnauthenticated
	}
	out := make([]records.Record, 0)
	err := c.hc.DoJSON(ctx, http.MethodGet, "/pets",
		httpclient.BearerHeader(token), nil, &out)
	if err != nil {
		c.warn("list records failed", err)
		return nil, submissionError(err)
	}
	return out, nil
}

// FetchPhoto baja la foto a partir de la referencia guardada en petPhoto.
// El server expone la foto por basename, no por el path completo.
func (c *Client) FetchPhoto(ctx context.Context, ref string) ([]byte, string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, "", errors.New("hospital: empty photo ref")
	}
	data, ct, err := c.hc.DoRaw(ctx, "/pets/photo/"+path.Base(ref), nil)
	if err != nil {
		return nil, "", submissionError(err)
	}
	return data, ct, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	in := map[string]string{
		"username": username,
		"password": password,
	}
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	err := c.hc.DoJSON(ctx, http.MethodPost, "/auth/login", nil, in, &out)
	if err != nil {
		c.warn("login failed", err)
		return "", submissionError(err)
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return "", errors.New("hospital: login response missing accessToken")
	}
	return out.AccessToken, nil
}

func (c *Client) Register(ctx context.Context, username, password, email string) error {
	in := map[string]string{
		"username": username,
		"password": password,
		"email":    email,
	}
	err := c.hc.DoJSON(ctx, http.MethodPost, "/auth/register", nil, in, nil)
	if err != nil {
		c.warn("register failed", err)
		return submissionError(err)
	}
	return nil
}

func (c *Client) warn(msg string, err error) {
	if c.log == nil {
		return
	}
	c.log.Warn(msg, map[string]any{"error": err.Error()})
}

// Orden fijo de campos, igual que el form original.
func formFields(rec records.Record) []httpclient.FormField {
	return []httpclient.FormField{
		{Name: "petName", Value: rec.PetName},
		{Name: "ownerName", Value: rec.OwnerName},
		{Name: "contactNumber", Value: rec.ContactNumber},
		{Name: "dateOfBirth", Value: rec.DateOfBirth},
		{Name: "weight", Value: rec.Weight},
		{Name: "medicalHistory", Value: rec.MedicalHistory},
	}
}

func formFile(rec records.Record) *httpclient.FormFile {
	if rec.Photo == nil {
		return nil
	}
	name := rec.Photo.Filename
	if name == "" {
		name = "photo"
	}
	return &httpclient.FormFile{
		Name:        "petPhoto",
		Filename:    name,
		ContentType: rec.Photo.ContentType,
		Data:        rec.Photo.Data,
	}
}

// submissionError normaliza errores del transporte al taxonomy del port:
// non-2xx conserva el status y el message del server (si vino como {message}),
// fallo de red queda con status 0.
func submissionError(err error) error {
	var he *httpclient.HTTPError
	if errors.As(err, &he) {
		return &api.SubmissionError{
			StatusCode: he.StatusCode,
			Message:    serverMessage(he.Body),
		}
	}
	return &api.SubmissionError{Message: err.Error()}
}

func serverMessage(body string) string {
	var out struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &out); err == nil && strings.TrimSpace(out.Message) != "" {
		return out.Message
	}
	return body
}
