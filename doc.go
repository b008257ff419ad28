// Package evexml is a lazy client for the EVE Online XML API.
//
// Entities are cheap handles: construction never touches the network. The
// first read of an unset field resolves the entity with at most one remote
// call (two for characters under a covering key), fields are write-once,
// and every resolved field set is shared through per-kind identity caches,
// so a second handle on the same id costs nothing. Lookup-table kinds
// (skill tree, certificate tree, alliance directory) load their whole
// collection at most once per Client and support case-insensitive lookup
// by name.
//
// A Client serves the public endpoints on its own; binding an API key pair
// with Session unlocks the account-gated surface:
//
//	session := evexml.NewSession(keyID, vCode)
//	chars, err := session.Characters(ctx)
//	if err != nil {
//		return err
//	}
//	for _, ch := range chars {
//		name, err := ch.Name(ctx) // resolves lazily, once
//		...
//	}
package evexml
