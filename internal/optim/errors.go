package optim

import "errors"

// Errors returned by learning rules. They are always wrapped with context;
// match them with errors.Is.
var (
	// ErrConfiguration reports a hyperparameter outside its valid domain.
	ErrConfiguration = errors.New("invalid optimizer configuration")

	// ErrInvalidState reports a call that is not valid in the rule's current
	// lifecycle state: allocating state twice, or updating before allocation.
	ErrInvalidState = errors.New("invalid optimizer state")

	// ErrShapeMismatch reports parameters, gradients and state buffers whose
	// count or shapes disagree.
	ErrShapeMismatch = errors.New("parameter/gradient shape mismatch")

	// ErrDTypeMismatch reports a tensor whose precision disagrees with the
	// parameter it is paired with or was bound with, or that is not floating
	// point.
	ErrDTypeMismatch = errors.New("parameter/gradient dtype mismatch")

	// ErrInvalidStep reports a negative step index.
	ErrInvalidStep = errors.New("invalid step index")
)
