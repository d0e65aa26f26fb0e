package api

import (
	"context"

	"pet-hospital-client/internal/domain/records"
)

// RecordsAPI es el contrato contra el API remoto de fichas.
// Create es intake público (sin token). Update/Delete/List requieren token:
// si token viene vacío, la implementación debe fallar con ErrUnauthenticated
// sin emitir el request.
//
// Ninguna operación reintenta: un solo call best-effort por invocación.
type RecordsAPI interface {
	Create(ctx context.Context, rec records.Record) (records.Record, error)
	Update(ctx context.Context, token, id string, rec records.Record) (records.Record, error)
	Delete(ctx context.Context, token, id string) error
	List(ctx context.Context, token string) ([]records.Record, error)

	// FetchPhoto resuelve la foto almacenada a partir de la referencia que
	// guarda el server en petPhoto. Retorna bytes + content type.
	FetchPhoto(ctx context.Context, ref string) ([]byte, string, error)
}
