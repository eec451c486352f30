package mathml

import "errors"

// ErrSkipChildren may be returned by a WalkFunc to skip the children of the
// current node without stopping the walk.
var ErrSkipChildren = errors.New("skip children")

// WalkFunc is called for each node. Return a non-nil error to stop.
type WalkFunc func(n Node) error

// Walk visits root and its descendants in document order.
func Walk(root Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}

	if err := walkFunc(root); err != nil {
		if errors.Is(err, ErrSkipChildren) {
			return nil
		}
		return err
	}

	for _, child := range root.Children() {
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
	}
	return nil
}

// Count returns how many nodes under root, root included, have the kind.
func Count(root Node, kind Kind) int {
	count := 0
	_ = Walk(root, func(n Node) error {
		if n.Kind() == kind {
			count++
		}
		return nil
	})
	return count
}
