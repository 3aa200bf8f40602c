// Package services defines the [RoutineGateway] interface for the routines REST backend and implements it over HTTP.
//
// # Gateway Interface
//
// Sessions, the backup engine and the CLI depend on [RoutineGateway] only, so tests substitute an in-memory mock.
// Every method performs exactly one request. There are no retries and no caching at this layer.
//
// # HTTP Implementation
//
// [RoutineService] wraps [APIService], which performs raw requests and keeps the whole response body.
// [APIService] is also used directly by the `rutinas api` debugging commands.
//
// # Error Handling
//
// Non-2xx answers are mapped onto the shared error taxonomy:
//   - no response, 5xx or an unstructured body : [shared.TransportError]
//   - 404 : [shared.NotFoundError]
//   - other 4xx with a FastAPI "detail" : [shared.ValidationError] with code [shared.CodeServerRejected]
//
// Callers branch with errors.Is against [shared.ErrTransport], [shared.ErrNotFound] and [shared.ErrValidation].
//
// # API Mappings
//
//   - List      : GET    /api/rutinas?nombre=&dia=&page=&size=
//   - Search    : GET    /api/rutinas/buscar?nombre=&dia=
//   - Get       : GET    /api/rutinas/{id}
//   - Create    : POST   /api/rutinas
//   - Update    : PUT    /api/rutinas/{id}
//   - Delete    : DELETE /api/rutinas/{id}
//   - Duplicate : POST   /api/rutinas/{id}/duplicar
//   - Export    : GET    /api/rutinas/export?format=csv|pdf
//   - Stats     : GET    /api/rutinas/stats
package services
