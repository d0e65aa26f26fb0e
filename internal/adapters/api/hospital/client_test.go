package hospital_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"pet-hospital-client/internal/adapters/api/hospital"
	"pet-hospital-client/internal/domain/records"
	"pet-hospital-client/internal/hospitaltest"
	"pet-hospital-client/internal/ports/api"
)

func newClient(t *testing.T) (*hospital.Client, *hospitaltest.Server, func()) {
	t.Helper()

	srv := hospitaltest.New()
	ts := httptest.NewServer(srv.Handler())

	c, err := hospital.NewClient(hospital.Config{
		BaseURL: ts.URL,
		Timeout: 5 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	return c, srv, ts.Close
}

func sampleRecord() records.Record {
	return records.Record{
		PetName:        "Milo",
		OwnerName:      "Jo Doe",
		ContactNumber:  "1234567890",
		DateOfBirth:    "2020-01-01",
		Weight:         "12.50",
		MedicalHistory: "vaccinated",
	}
}

func TestCreateThenList_RoundTrip(t *testing.T) {
	c, srv, done := newClient(t)
	defer done()
	ctx := context.Background()

	srv.SetNow(func() time.Time {
		return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	})

	// Intake público: sin token.
	created, err := c.Create(ctx, sampleRecord())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.ID == "" || created.CreatedDate == "" {
		t.Fatalf("expected server-assigned id/createdDate, got %#v", created)
	}

	token := srv.SeedToken("alice")
	list, err := c.List(ctx, token)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}

	// La ficha creada aparece exactamente una vez, campos de texto verbatim.
	count := 0
	for _, r := range list {
		if r.ID != created.ID {
			continue
		}
		count++
		want := sampleRecord()
		if r.PetName != want.PetName || r.OwnerName != want.OwnerName ||
			r.ContactNumber != want.ContactNumber || r.DateOfBirth != want.DateOfBirth ||
			r.Weight != want.Weight || r.MedicalHistory != want.MedicalHistory {
			t.Fatalf("text fields not preserved verbatim: %#v", r)
		}
		if r.CreatedDate != "2026-08-30T12:00:00Z" {
			t.Fatalf("unexpected createdDate %q", r.CreatedDate)
		}
	}
	if count != 1 {
		t.Fatalf("expected created record exactly once, got %d", count)
	}
}

func TestCreate_WithPhoto_ThenFetch(t *testing.T) {
	c, _, done := newClient(t)
	defer done()
	ctx := context.Background()

	rec := sampleRecord()
	rec.SetPendingPhoto(&records.PendingPhoto{
		Filename:    "milo.png",
		ContentType: "image/png",
		Data:        []byte{0x89, 'P', 'N', 'G', 1, 2, 3},
	})

	created, err := c.Create(ctx, rec)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.PhotoRef == "" {
		t.Fatalf("expected server photo reference, got %#v", created)
	}

	data, ct, err := c.FetchPhoto(ctx, created.PhotoRef)
	if err != nil {
		t.Fatalf("FetchPhoto error: %v", err)
	}
	if ct != "image/png" {
		t.Fatalf("expected image/png, got %q", ct)
	}
	if len(data) != 7 || data[1] != 'P' {
		t.Fatalf("photo bytes not preserved: %v", data)
	}
}

func TestUpdate_ReturnsCanonicalRecord(t *testing.T) {
	c, srv, done := newClient(t)
	defer done()
	ctx := context.Background()

	created, err := c.Create(ctx, sampleRecord())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	token := srv.SeedToken("alice")

	edited := created
	edited.PetName = "Milo Updated"

	canonical, err := c.Update(ctx, token, created.ID, edited)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if canonical.PetName != "Milo Updated" {
		t.Fatalf("expected updated name, got %q", canonical.PetName)
	}
	// id y createdDate son inmutables del lado del server.
	if canonical.ID != created.ID || canonical.CreatedDate != created.CreatedDate {
		t.Fatalf("expected immutable id/createdDate, got %#v", canonical)
	}
}

func TestUpdate_KeepsPhotoWhenNoNewPart(t *testing.T) {
	c, srv, done := newClient(t)
	defer done()
	ctx := context.Background()

	rec := sampleRecord()
	rec.SetPendingPhoto(&records.PendingPhoto{
		Filename:    "milo.png",
		ContentType: "image/png",
		Data:        []byte{1, 2, 3},
	})
	created, err := c.Create(ctx, rec)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	token := srv.SeedToken("alice")
	edited := created
	edited.Photo = nil // sin part nuevo
	edited.MedicalHistory = "updated"

	canonical, err := c.Update(ctx, token, created.ID, edited)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if canonical.PhotoRef != created.PhotoRef {
		t.Fatalf("expected previous photo kept, got %q want %q", canonical.PhotoRef, created.PhotoRef)
	}
}

func TestAuthenticatedOps_RequireToken_BeforeNetwork(t *testing.T) {
	// BaseURL inválida a propósito: si algo llegara a la red, fallaría
	// con otro error, no con ErrUnauthenticated.
	c, err := hospital.NewClient(hospital.Config{BaseURL: "http://127.0.0.1:1"}, nil)
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	ctx := context.Background()

	if _, err := c.List(ctx, ""); !errors.Is(err, api.ErrUnauthenticated) {
		t.Fatalf("List: expected ErrUnauthenticated, got %v", err)
	}
	if _, err := c.Update(ctx, "", "id", sampleRecord()); !errors.Is(err, api.ErrUnauthenticated) {
		t.Fatalf("Update: expected ErrUnauthenticated, got %v", err)
	}
	if err := c.Delete(ctx, "", "id"); !errors.Is(err, api.ErrUnauthenticated) {
		t.Fatalf("Delete: expected ErrUnauthenticated, got %v", err)
	}
}

func TestRevokedToken_SurfacesStatus(t *testing.T) {
	c, srv, done := newClient(t)
	defer done()
	ctx := context.Background()

	token := srv.SeedToken("alice")
	srv.RevokeToken(token)

	_, err := c.List(ctx, token)
	se, ok := api.AsSubmissionError(err)
	if !ok || se.StatusCode != 401 {
		t.Fatalf("expected SubmissionError 401, got %v", err)
	}
}

func TestUpdateDelete_VanishedID_ReportsNotFound(t *testing.T) {
	c, srv, done := newClient(t)
	defer done()
	ctx := context.Background()
	token := srv.SeedToken("alice")

	// Mutar un id que ya no existe server-side: fallo reportado, no crash.
	_, err := c.Update(ctx, token, "ghost", sampleRecord())
	if se, ok := api.AsSubmissionError(err); !ok || se.StatusCode != 404 {
		t.Fatalf("Update: expected SubmissionError 404, got %v", err)
	}

	err = c.Delete(ctx, token, "ghost")
	if se, ok := api.AsSubmissionError(err); !ok || se.StatusCode != 404 {
		t.Fatalf("Delete: expected SubmissionError 404, got %v", err)
	}
}

func TestDelete_RemovesRecord(t *testing.T) {
	c, srv, done := newClient(t)
	defer done()
	ctx := context.Background()

	created, err := c.Create(ctx, sampleRecord())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	token := srv.SeedToken("alice")

	if err := c.Delete(ctx, token, created.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	list, err := c.List(ctx, token)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list after delete, got %#v", list)
	}
}

func TestRegisterThenLogin_Flow(t *testing.T) {
	c, _, done := newClient(t)
	defer done()
	ctx := context.Background()

	if err := c.Register(ctx, "alice", "secret1", "alice@example.com"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	// Username duplicado: el message del server viaja en el error.
	err := c.Register(ctx, "alice", "secret1", "alice@example.com")
	se, ok := api.AsSubmissionError(err)
	if !ok || se.Message != "Username already exists" {
		t.Fatalf("expected duplicate-username message, got %v", err)
	}

	// Password equivocada.
	if _, err := c.Login(ctx, "alice", "wrong"); err == nil {
		t.Fatalf("expected login failure")
	}

	token, err := c.Login(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected accessToken")
	}

	// El token emitido sirve para operaciones autenticadas.
	if _, err := c.List(ctx, token); err != nil {
		t.Fatalf("List with issued token error: %v", err)
	}
}
