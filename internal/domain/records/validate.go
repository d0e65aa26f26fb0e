package records

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const dateLayout = "2006-01-02"

var (
	nameCharsRe = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)
	contactRe   = regexp.MustCompile(`^\d{10}$`)
	// 0..100 con hasta 2 decimales ("7", "42.50", "100", "100.00"; no "100.50").
	weightRe = regexp.MustCompile(`^(100(\.0{1,2})?|\d{1,2}(\.\d{1,2})?)$`)
)

// Validate aplica el schema de campos contra la fecha actual.
// Ver ValidateAt para la semántica.
func Validate(r Record) FieldErrors {
	return ValidateAt(r, time.Now())
}

// ValidateAt es puro: ficha + reloj => mapa de errores (a lo sumo un mensaje
// por campo, gana la primera regla violada). Mapa vacío == válida.
// No toca red ni estado.
func ValidateAt(r Record, now time.Time) FieldErrors {
	errs := FieldErrors{}

	if utf8.RuneCountInString(r.PetName) < 2 {
		errs[FieldPetName] = "Pet name must be at least 2 characters long"
	} else if !nameCharsRe.MatchString(r.PetName) {
		errs[FieldPetName] = "Pet name must not contain special characters."
	}

	if utf8.RuneCountInString(r.OwnerName) < 2 {
		errs[FieldOwnerName] = "Owner Name must be at least 2 characters long"
	} else if !nameCharsRe.MatchString(r.OwnerName) {
		errs[FieldOwnerName] = "Owner Name must not contain special characters."
	}

	if utf8.RuneCountInString(r.ContactNumber) != 10 {
		errs[FieldContactNumber] = "Contact number must be exactly 10 digits"
	} else if !contactRe.MatchString(r.ContactNumber) {
		errs[FieldContactNumber] = "Contact number must contain exactly 10 digits and no other characters."
	}

	if !weightRe.MatchString(r.Weight) {
		errs[FieldWeight] = "Weight must contain only number (0 to 100) with 2 digits."
	}

	if dob, err := time.Parse(dateLayout, r.DateOfBirth); err != nil {
		errs[FieldDateOfBirth] = "Invalid date format. Use DD-MM-YYYY."
	} else {
		// Comparación por día calendario: hoy es válido, mañana no.
		y, m, d := now.Date()
		today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if dob.After(today) {
			errs[FieldDateOfBirth] = "Date of birth cannot be in the future."
		}
	}

	// medicalHistory: opcional, sin reglas.

	if r.Photo != nil && !strings.HasPrefix(r.Photo.ContentType, "image/") {
		errs[FieldPetPhoto] = "Only image files are allowed."
	}

	return errs
}
