package cache

import (
	"context"
)

// TombstoneVersion es mayor que cualquier versión real y cabe exacto en un
// double (los scripts Lua de Redis comparan números como double).
const TombstoneVersion int64 = 1 << 53

// Cache define la interfaz para una caché de clave-valor versionada.
type Cache interface {
	// Get intenta poblar 'dest' (que debe ser un puntero) con el valor asociado a la 'key'.
	// Devuelve (true, nil) si hay un 'hit' y 'dest' fue rellenado.
	// Devuelve (false, nil) si es un 'miss'.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// SetIfNewer guarda el valor solo si no hay una versión guardada mayor.
	// Devuelve false si la escritura se descartó. TTL en segundos (0 = por defecto).
	SetIfNewer(ctx context.Context, key string, version int64, val interface{}, ttlSecs int) (bool, error)

	// Delete elimina la 'key' de la caché.
	Delete(ctx context.Context, key string) error
}
