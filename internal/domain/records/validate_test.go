package records

import (
	"testing"
	"time"
)

// Reloj fijo para que "hoy"/"mañana" sean determinísticos.
var testNow = time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)

func validRecord() Record {
	return Record{
		PetName:        "Bo",
		OwnerName:      "Jo",
		ContactNumber:  "1234567890",
		Weight:         "12.50",
		DateOfBirth:    "2020-01-01",
		MedicalHistory: "",
	}
}

func TestValidateAt_ValidRecord_EmptyErrorMap(t *testing.T) {
	errs := ValidateAt(validRecord(), testNow)
	if !errs.Valid() {
		t.Fatalf("expected valid, got %#v", errs)
	}
}

func TestValidateAt_PetName_Rules(t *testing.T) {
	r := validRecord()

	r.PetName = "B"
	errs := ValidateAt(r, testNow)
	if errs[FieldPetName] != "Pet name must be at least 2 characters long" {
		t.Fatalf("expected min-length message, got %q", errs[FieldPetName])
	}

	// Largo ok pero con caracteres fuera del set: gana la segunda regla.
	r.PetName = "Bo!"
	errs = ValidateAt(r, testNow)
	if errs[FieldPetName] != "Pet name must not contain special characters." {
		t.Fatalf("expected charset message, got %q", errs[FieldPetName])
	}

	r.PetName = "Bo 2"
	errs = ValidateAt(r, testNow)
	if _, ok := errs[FieldPetName]; ok {
		t.Fatalf("letters/digits/spaces should be accepted, got %q", errs[FieldPetName])
	}
}

func TestValidateAt_OwnerName_Rules(t *testing.T) {
	r := validRecord()

	r.OwnerName = "J"
	errs := ValidateAt(r, testNow)
	if errs[FieldOwnerName] != "Owner Name must be at least 2 characters long" {
		t.Fatalf("expected min-length message, got %q", errs[FieldOwnerName])
	}

	r.OwnerName = "Jo&Co"
	errs = ValidateAt(r, testNow)
	if errs[FieldOwnerName] != "Owner Name must not contain special characters." {
		t.Fatalf("expected charset message, got %q", errs[FieldOwnerName])
	}
}

func TestValidateAt_ContactNumber_FirstFailingRuleWins(t *testing.T) {
	r := validRecord()

	r.ContactNumber = "12345"
	errs := ValidateAt(r, testNow)
	if errs[FieldContactNumber] != "Contact number must be exactly 10 digits" {
		t.Fatalf("expected exactly-10 message, got %q", errs[FieldContactNumber])
	}
	// Solo contactNumber debe fallar con este cambio.
	if len(errs) != 1 {
		t.Fatalf("expected only contactNumber error, got %#v", errs)
	}

	// 10 caracteres pero no todos dígitos: gana la regla de patrón.
	r.ContactNumber = "12345abcde"
	errs = ValidateAt(r, testNow)
	if errs[FieldContactNumber] != "Contact number must contain exactly 10 digits and no other characters." {
		t.Fatalf("expected digits-only message, got %q", errs[FieldContactNumber])
	}
}

func TestValidateAt_Weight_Boundaries(t *testing.T) {
	r := validRecord()

	accepted := []string{"0", "7", "42.50", "99.99", "100", "100.0", "100.00", "0.5"}
	for _, w := range accepted {
		r.Weight = w
		if errs := ValidateAt(r, testNow); !errs.Valid() {
			t.Fatalf("weight %q should be accepted, got %#v", w, errs)
		}
	}

	rejected := []string{"", "100.001", "100.50", "100.01", "101", "-1", "12,50", "abc", "1000"}
	for _, w := range rejected {
		r.Weight = w
		errs := ValidateAt(r, testNow)
		if errs[FieldWeight] != "Weight must contain only number (0 to 100) with 2 digits." {
			t.Fatalf("weight %q should be rejected, got %#v", w, errs)
		}
	}
}

func TestValidateAt_DateOfBirth_NotInFuture(t *testing.T) {
	r := validRecord()

	r.DateOfBirth = "not-a-date"
	errs := ValidateAt(r, testNow)
	if errs[FieldDateOfBirth] != "Invalid date format. Use DD-MM-YYYY." {
		t.Fatalf("expected format message, got %q", errs[FieldDateOfBirth])
	}

	// Hoy: aceptado.
	r.DateOfBirth = testNow.Format("2006-01-02")
	errs = ValidateAt(r, testNow)
	if _, ok := errs[FieldDateOfBirth]; ok {
		t.Fatalf("today should be accepted, got %q", errs[FieldDateOfBirth])
	}

	// Mañana: rechazado.
	r.DateOfBirth = testNow.AddDate(0, 0, 1).Format("2006-01-02")
	errs = ValidateAt(r, testNow)
	if errs[FieldDateOfBirth] != "Date of birth cannot be in the future." {
		t.Fatalf("expected future-date message, got %q", errs[FieldDateOfBirth])
	}
}

func TestValidateAt_PetPhoto_Union(t *testing.T) {
	r := validRecord()

	// Ausente: válido.
	if errs := ValidateAt(r, testNow); !errs.Valid() {
		t.Fatalf("absent photo should be valid, got %#v", errs)
	}

	// Referencia del server: sin restricción.
	r.PhotoRef = "/pets/photo/abc.png"
	if errs := ValidateAt(r, testNow); !errs.Valid() {
		t.Fatalf("server ref should be valid, got %#v", errs)
	}

	// Binario pendiente con content type no imagen: rechazado.
	r = validRecord()
	r.SetPendingPhoto(&PendingPhoto{Filename: "x.pdf", ContentType: "application/pdf"})
	errs := ValidateAt(r, testNow)
	if errs[FieldPetPhoto] != "Only image files are allowed." {
		t.Fatalf("expected image-only message, got %q", errs[FieldPetPhoto])
	}

	// Binario imagen: aceptado.
	r.SetPendingPhoto(&PendingPhoto{Filename: "x.png", ContentType: "image/png"})
	if errs := ValidateAt(r, testNow); !errs.Valid() {
		t.Fatalf("image binary should be valid, got %#v", errs)
	}
}

func TestValidateAt_MedicalHistoryOptional(t *testing.T) {
	r := validRecord()
	r.MedicalHistory = ""
	if errs := ValidateAt(r, testNow); !errs.Valid() {
		t.Fatalf("empty medicalHistory should be valid, got %#v", errs)
	}
}

func TestSetPendingPhoto_ReleasesPrevious_AndClearsRef(t *testing.T) {
	released := 0
	r := validRecord()
	r.PhotoRef = "/pets/photo/old.png"

	first := &PendingPhoto{ContentType: "image/png", OnRelease: func() { released++ }}
	r.SetPendingPhoto(first)
	if r.PhotoRef != "" {
		t.Fatalf("pending photo must clear server ref")
	}

	r.SetPendingPhoto(&PendingPhoto{ContentType: "image/jpeg"})
	if released != 1 {
		t.Fatalf("expected previous preview released once, got %d", released)
	}

	// Release es idempotente.
	first.Release()
	if released != 1 {
		t.Fatalf("expected release to be idempotent, got %d", released)
	}
}
