// Package model maps application records onto a distributed key-value store.
//
// A record type is described by a [Definition]: the bucket its records live in and
// the attributes it declares. Records are created in memory, populated through
// name-validated setters and persisted with [Record.Save]. Store commands are built
// from the record's state:
//
//   - a new record is stored into its bucket and the store assigns the key
//   - a persisted record is stored at its bound location, preserving the key
//
// # Record Types
//
// Concrete types wrap a [Record] and expose typed accessors:
//
//	var userDef = model.Define("users", model.Attr("name"), model.Attr("email"))
//
//	type User struct{ *model.Record }
//
//	func NewUser(cfg model.Config) (*User, error) {
//	    r, err := model.New(userDef, cfg)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &User{r}, nil
//	}
//
//	func (u *User) Name() string {
//	    v, _ := u.Get("name")
//	    s, _ := v.(string)
//	    return s
//	}
//
// # Lifecycle
//
// Records move from [StateNew] to [StatePersisted] on the first successful save or
// load, and to [StateDeleted] after a successful delete. Deleted records reject every
// further store command with [ErrIllegalState]. Once bound, a record's location never
// changes.
//
// # Store Client
//
// [New] binds records to a process-wide [kv.Cluster] per node set, created on first
// use by [Connect] and released by [Shutdown]. [NewWithDriver] binds an explicit
// client instead.
//
// # Errors
//
// Programmer errors are returned as errors:
//
//   - [ErrNoNodes] - no store node configured
//   - [ErrInvalidKey] - load with an empty key
//   - [ErrIllegalState] - command not allowed in the record's state
//
// Store outcomes are ordinary results: Save and Update report a non-success status
// with ok == false, Load reports a missing object with found == false and Delete
// reports an unconfirmed delete with false. The record is left unchanged in each case.
package model
