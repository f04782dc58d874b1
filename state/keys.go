// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

const (
	Read     Permissions = 1
	Allocate             = 1<<1 | Read
	Write                = 1<<2 | Read

	None Permissions = 0
	All              = Read | Allocate | Write
)

// Permissions is the access a view has to one key.
type Permissions byte

// Keys maps each key a view may touch to its permissions.
type Keys map[string]Permissions

// ForAccount grants full access to a single account record, the only key a
// message execution may touch.
func ForAccount(key []byte) Keys {
	return Keys{string(key): All}
}

// Add unions [permission] into the permissions already held for [name].
func (k Keys) Add(name string, permission Permissions) {
	k[name] |= permission
}

// Has returns true if [p] has all the permissions that are contained in require
func (p Permissions) Has(require Permissions) bool {
	return require&^p == 0
}
