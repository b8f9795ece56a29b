package tree

import "errors"

// ErrNodeNotFound is returned by the removals when the value is absent.
// The tree is left unmodified.
var ErrNodeNotFound = errors.New("[rbtree] node not found")
