package records

// Field nombra los campos editables de una ficha. Set cerrado: el view-model
// rechaza cualquier otro string (nada de asignación dinámica por nombre).
const (
	FieldPetName        = "petName"
	FieldOwnerName      = "ownerName"
	FieldContactNumber  = "contactNumber"
	FieldDateOfBirth    = "dateOfBirth"
	FieldWeight         = "weight"
	FieldMedicalHistory = "medicalHistory"
	FieldPetPhoto       = "petPhoto"
)

// Record representa una ficha de hospital de mascota.
// ID y CreatedDate los asigna el server: una ficha en construcción no tiene
// ninguno de los dos. PhotoRef y Photo son mutuamente excluyentes (referencia
// ya almacenada vs binario local pendiente de envío).
type Record struct {
	ID             string `json:"id,omitempty"`
	PetName        string `json:"petName"`
	OwnerName      string `json:"ownerName"`
	ContactNumber  string `json:"contactNumber"`
	DateOfBirth    string `json:"dateOfBirth"` // YYYY-MM-DD
	Weight         string `json:"weight"`      // decimal 0..100, hasta 2 decimales
	MedicalHistory string `json:"medicalHistory"`
	PhotoRef       string `json:"petPhoto,omitempty"`
	CreatedDate    string `json:"createdDate,omitempty"`

	// Photo es el binario local aún no enviado. Nunca viaja en JSON;
	// el adapter lo serializa como part multipart.
	Photo *PendingPhoto `json:"-"`
}

// Persisted indica si el server ya reconoció esta ficha.
func (r Record) Persisted() bool {
	return r.ID != ""
}

// SetPendingPhoto adjunta un binario local y descarta la referencia previa,
// manteniendo la exclusión mutua PhotoRef/Photo. Libera el preview anterior
// si lo había.
func (r *Record) SetPendingPhoto(p *PendingPhoto) {
	if r.Photo != nil {
		r.Photo.Release()
	}
	r.Photo = p
	if p != nil {
		r.PhotoRef = ""
	}
}

// PendingPhoto es una foto seleccionada localmente, todavía no subida.
type PendingPhoto struct {
	Filename    string
	ContentType string
	Data        []byte

	// OnRelease libera el recurso de preview asociado (si existe).
	OnRelease func()

	released bool
}

// Release libera el preview local. Idempotente.
func (p *PendingPhoto) Release() {
	if p == nil || p.released {
		return
	}
	p.released = true
	if p.OnRelease != nil {
		p.OnRelease()
	}
}

// FieldErrors mapea campo -> primer mensaje de error. Vacío == válido.
type FieldErrors map[string]string

func (e FieldErrors) Valid() bool {
	return len(e) == 0
}
