// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import "errors"

// Sentinel errors surfaced to the transport layer. Both indicate client
// input problems; neither is retried internally.
var (
	// ErrValidation covers every malformed-batch case: duplicate ids,
	// bad parent references, kind switches, invalid prices, and
	// reparenting a node under its own subtree.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a delete or query targets an id
	// with no live node.
	ErrNotFound = errors.New("item not found")
)
