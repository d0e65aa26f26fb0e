package tokenstore

// Storage persiste el bearer token de la sesión (análogo a un single key
// en storage local). Ausencia de token == sesión anónima.
type Storage interface {
	// Save guarda el token, reemplazando el anterior si existía.
	Save(token string) error
	// Load retorna el token persistido; ok=false si no hay sesión.
	Load() (token string, ok bool)
	// Clear borra el token. Es idempotente.
	Clear() error
}
