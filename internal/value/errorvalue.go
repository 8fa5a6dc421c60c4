package value

import (
	"github.com/naab-lang/naab/internal/errtax"
	"github.com/naab-lang/naab/internal/types"
)

// ErrorObject is a thrown value: every runtime error is first-class and
// catchable (spec §7). It wraps an *errtax.Error, which already carries
// kind, message, source location, and a stack-frame snapshot.
type ErrorObject struct {
	RefCounted
	Err     *errtax.Error
	Payload Value // optional user-attached payload from `throw`
}

func NewErrorObject(err *errtax.Error) *ErrorObject {
	return &ErrorObject{Err: err}
}

func (*ErrorObject) RuntimeKind() types.RuntimeKind   { return types.RKError }
func (*ErrorObject) StructTypeName() string           { return "" }
func (*ErrorObject) ListElements() []types.ValueShape { return nil }
func (*ErrorObject) DictValues() []types.ValueShape   { return nil }

func (e *ErrorObject) String() string { return e.Err.Error() }

// Error satisfies the Go error interface so an ErrorObject can be returned
// directly from evaluator methods that use Go's native error-propagation
// convention internally, alongside being thrown as a naab value.
func (e *ErrorObject) Error() string { return e.Err.Error() }
