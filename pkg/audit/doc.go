// Package audit defines the transform application audit trail: the
// record type, the storage backend contract, and query filters.
//
// Every rule application attempt produces one Record describing the
// entity, the transform, the outcome and the before/after flags. The
// recorder subpackage captures records asynchronously so slow storage
// never stalls transform application; the storage subpackage provides
// in-memory and SQLite backends; the retention subpackage prunes old
// records on a schedule.
package audit
