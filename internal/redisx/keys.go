package redisx

import "time"

const (
	// Active catalog snapshot: pos:catalog:active -> JSON []domain.Product
	KeyCatalogActive = "pos:catalog:active"

	// Finalize idempotency: pos:idem:finalize:{session_id}:{key} -> order JSON
	KeyIdemFinalize = "pos:idem:finalize:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
)
