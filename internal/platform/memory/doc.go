// Package memory provides process-local implementations of the store
// interfaces. State lives in maps guarded by a single sync.RWMutex and is
// lost when the process exits. It backs database.driver=memory and the
// service and API tests.
package memory
