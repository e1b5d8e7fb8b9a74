// Package store defines the persistence interfaces consumed by the service
// layer, along with the sentinel errors those interfaces return. Concrete
// implementations live under internal/platform; services depend only on
// these interfaces so the storage technology stays swappable.
package store
