package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"pet-hospital-client/internal/domain/records"
	"pet-hospital-client/internal/domain/session"
	"pet-hospital-client/internal/platform/logger"
	"pet-hospital-client/internal/ports/api"
)

var (
	ErrNotEditing   = errors.New("not in edit mode")
	ErrUnknownField = errors.New("unknown field")
	// ErrValidation indica que el draft no pasó el schema: los detalles
	// quedan en FieldErrors(). Nunca llega a la red.
	ErrValidation = errors.New("validation failed")
)

// ViewModel mantiene la colección en memoria, la selección actual y el draft
// en edición, y reconcilia estado local tras cada mutación exitosa.
//
// Reglas de reconciliación:
//   - Load reemplaza la colección COMPLETA (nunca merge incremental); en fallo
//     queda colección vacía + error de colección, sin restos del load anterior.
//   - Mutaciones solo reemplazan/quitan por id, nunca append/clear ciego, para
//     que requests en vuelo concurrentes no corrompan la colección.
//   - Un Load viejo se descarta si se emitió otro más nuevo mientras volvía
//     (token de secuencia monótono: gana el último emitido).
type ViewModel struct {
	mu      sync.Mutex
	session *session.Store
	api     api.RecordsAPI
	log     logger.Logger
	now     func() time.Time

	collection  []records.Record
	selected    *records.Record
	draft       *records.Record
	editMode    bool
	fieldErrors records.FieldErrors
	loadErr     error

	loadSeq      uint64
	deleteTarget string
}

func NewViewModel(sess *session.Store, recordsAPI api.RecordsAPI, log logger.Logger) *ViewModel {
	return &ViewModel{
		session:     sess,
		api:         recordsAPI,
		log:         log,
		now:         time.Now,
		collection:  make([]records.Record, 0),
		fieldErrors: records.FieldErrors{},
	}
}

// Load trae la colección completa. Requiere sesión: sin token falla con
// ErrUnauthenticated antes de emitir el request, dejando colección vacía.
func (vm *ViewModel) Load(ctx context.Context) error {
	token, ok := vm.session.Token()
	if !ok {
		vm.mu.Lock()
		vm.collection = make([]records.Record, 0)
		vm.loadErr = api.ErrUnauthenticated
		vm.mu.Unlock()
		return api.ErrUnauthenticated
	}

	vm.mu.Lock()
	vm.loadSeq++
	seq := vm.loadSeq
	vm.mu.Unlock()

	list, err := vm.api.List(ctx, token)

	vm.mu.Lock()
	defer vm.mu.Unlock()

	// Respuesta vieja: ya se emitió un Load más nuevo, descartar.
	if seq != vm.loadSeq {
		return nil
	}

	if err != nil {
		vm.collection = make([]records.Record, 0)
		vm.loadErr = err
		vm.warn("load failed", err)
		return err
	}

	vm.collection = list
	vm.loadErr = nil
	return nil
}

// Records retorna una copia de la colección visible.
func (vm *ViewModel) Records() []records.Record {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	out := make([]records.Record, len(vm.collection))
	copy(out, vm.collection)
	return out
}

// CollectionError retorna el error del último Load fallido, si lo hubo.
func (vm *ViewModel) CollectionError() error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.loadErr
}

// SelectForView abre el detalle en modo lectura. No muta nada persistido.
func (vm *ViewModel) SelectForView(rec records.Record) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.releaseDraftLocked()
	sel := rec
	vm.selected = &sel
	vm.editMode = false
	vm.fieldErrors = records.FieldErrors{}
}

// SelectForEdit abre el detalle en modo edición: el draft es un snapshot
// desacoplado de la colección hasta que se guarde.
func (vm *ViewModel) SelectForEdit(rec records.Record) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.releaseDraftLocked()
	sel := rec
	draft := rec
	vm.selected = &sel
	vm.draft = &draft
	vm.editMode = true
	vm.fieldErrors = records.FieldErrors{}
}

// ApplyFieldEdit muta un campo de texto del draft. Solo legal en modo edición
// y solo sobre el set cerrado de campos; la foto va por AttachPhoto.
func (vm *ViewModel) ApplyFieldEdit(field, value string) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if !vm.editMode || vm.draft == nil {
		return ErrNotEditing
	}

	switch field {
	case records.FieldPetName:
		vm.draft.PetName = value
	case records.FieldOwnerName:
		vm.draft.OwnerName = value
	case records.FieldContactNumber:
		vm.draft.ContactNumber = value
	case records.FieldDateOfBirth:
		vm.draft.DateOfBirth = value
	case records.FieldWeight:
		vm.draft.Weight = value
	case records.FieldMedicalHistory:
		vm.draft.MedicalHistory = value
	default:
		return ErrUnknownField
	}
	return nil
}

// AttachPhoto adjunta un binario local al draft, liberando el preview del
// anterior si lo había.
func (vm *ViewModel) AttachPhoto(p *records.PendingPhoto) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if !vm.editMode || vm.draft == nil {
		return ErrNotEditing
	}
	vm.draft.SetPendingPhoto(p)
	return nil
}

// Draft retorna el draft vigente (copia), si hay edición activa.
func (vm *ViewModel) Draft() (records.Record, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.draft == nil {
		return records.Record{}, false
	}
	return *vm.draft, true
}

// Selected retorna la ficha seleccionada (copia), si hay alguna.
func (vm *ViewModel) Selected() (records.Record, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.selected == nil {
		return records.Record{}, false
	}
	return *vm.selected, true
}

// EditMode indica si hay una edición activa.
func (vm *ViewModel) EditMode() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.editMode
}

// FieldErrors retorna el mapa de errores de la última validación.
func (vm *ViewModel) FieldErrors() records.FieldErrors {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	out := records.FieldErrors{}
	for k, v := range vm.fieldErrors {
		out[k] = v
	}
	return out
}

// SaveDraft valida el draft y, si pasa, lo envía como update. En fallo de
// validación popula FieldErrors y NO toca la red; la edición sigue activa.
// En éxito reemplaza la entrada de la colección con la ficha canónica del
// server y sale de modo edición. Sin draft activo es un no-op (un re-render
// no re-emite el request).
func (vm *ViewModel) SaveDraft(ctx context.Context) error {
	vm.mu.Lock()
	if !vm.editMode || vm.draft == nil {
		vm.mu.Unlock()
		return nil
	}

	draft := *vm.draft
	errs := records.ValidateAt(draft, vm.now())
	if !errs.Valid() {
		vm.fieldErrors = errs
		vm.mu.Unlock()
		return ErrValidation
	}
	vm.fieldErrors = records.FieldErrors{}
	vm.mu.Unlock()

	token, ok := vm.session.Token()
	if !ok {
		return api.ErrUnauthenticated
	}

	canonical, err := vm.api.Update(ctx, token, draft.ID, draft)
	if err != nil {
		vm.warn("save draft failed", err)
		return err
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.replaceByIDLocked(canonical)

	// Solo cerrar la edición si el draft sigue siendo el que se envió
	// (pudo haberse abierto otra edición mientras volvía el response).
	if vm.draft != nil && vm.draft.ID == draft.ID {
		vm.releaseDraftLocked()
		sel := canonical
		vm.selected = &sel
		vm.editMode = false
	}
	return nil
}

// SubmitNew valida una ficha nueva y la crea vía intake público (sin token).
// En éxito incorpora la ficha canónica del server a la colección (upsert
// por id) y la retorna.
func (vm *ViewModel) SubmitNew(ctx context.Context, rec records.Record) (records.Record, error) {
	errs := records.ValidateAt(rec, vm.now())
	if !errs.Valid() {
		vm.mu.Lock()
		vm.fieldErrors = errs
		vm.mu.Unlock()
		return records.Record{}, ErrValidation
	}

	vm.mu.Lock()
	vm.fieldErrors = records.FieldErrors{}
	vm.mu.Unlock()

	canonical, err := vm.api.Create(ctx, rec)
	if err != nil {
		vm.warn("submit new failed", err)
		return records.Record{}, err
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if !vm.replaceByIDLocked(canonical) {
		vm.collection = append(vm.collection, canonical)
	}
	return canonical, nil
}

// RequestDelete marca una ficha para borrar y cierra el detalle. El call
// real recién sale en ConfirmDelete.
func (vm *ViewModel) RequestDelete(id string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.deleteTarget = id
	vm.releaseDraftLocked()
	vm.selected = nil
	vm.editMode = false
}

// CancelDelete descarta la confirmación pendiente.
func (vm *ViewModel) CancelDelete() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.deleteTarget = ""
}

// PendingDelete retorna el id esperando confirmación, si hay uno.
func (vm *ViewModel) PendingDelete() (string, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.deleteTarget == "" {
		return "", false
	}
	return vm.deleteTarget, true
}

// ConfirmDelete ejecuta el borrado pendiente. Requiere sesión (falla antes
// de la red si no hay token). En éxito quita la entrada por id; en fallo
// reporta sin reintentar. En ambos casos limpia el target.
func (vm *ViewModel) ConfirmDelete(ctx context.Context) error {
	vm.mu.Lock()
	id := vm.deleteTarget
	vm.deleteTarget = ""
	vm.mu.Unlock()

	if id == "" {
		return nil
	}

	token, ok := vm.session.Token()
	if !ok {
		return api.ErrUnauthenticated
	}

	if err := vm.api.Delete(ctx, token, id); err != nil {
		vm.warn("delete failed", err)
		return err
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	out := vm.collection[:0]
	for _, r := range vm.collection {
		if r.ID != id {
			out = append(out, r)
		}
	}
	vm.collection = out
	return nil
}

// CloseDetail cierra el popup de detalle/edición y libera el preview local.
func (vm *ViewModel) CloseDetail() {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.releaseDraftLocked()
	vm.selected = nil
	vm.editMode = false
	vm.deleteTarget = ""
	vm.fieldErrors = records.FieldErrors{}
}

// replaceByIDLocked reemplaza la entrada con el mismo id. Retorna false si
// no estaba (colección stale: se tolera, no se inventa un append).
func (vm *ViewModel) replaceByIDLocked(rec records.Record) bool {
	for i := range vm.collection {
		if vm.collection[i].ID == rec.ID {
			vm.collection[i] = rec
			return true
		}
	}
	return false
}

func (vm *ViewModel) releaseDraftLocked() {
	if vm.draft != nil && vm.draft.Photo != nil {
		vm.draft.Photo.Release()
	}
	vm.draft = nil
}

func (vm *ViewModel) warn(msg string, err error) {
	if vm.log == nil {
		return
	}
	vm.log.Warn(msg, map[string]any{"error": err.Error()})
}
