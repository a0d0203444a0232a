package user

import (
	"errors"

	"github.com/go-playground/validator/v10"

	pkgerrors "user-crud-service/pkg/errors"
	"user-crud-service/pkg/security"
)

// Client-facing validation messages.
const (
	MsgRequired     = "Name and email are required"
	MsgEmpty        = "Name and email cannot be empty"
	MsgTooLong      = "Name and email must not exceed 50 characters"
	MsgInvalidEmail = "Invalid email format"
	MsgInvalidID    = "Valid user ID is required"
)

// userFields is validated rule by rule; the tag order on each field
// mirrors the order in which the rules are reported.
type userFields struct {
	Name  string `validate:"required,notblank,fieldmax"`
	Email string `validate:"required,notblank,fieldmax,emailfmt"`
}

// ruleRank orders the tags so the earliest failing rule wins across fields.
var ruleRank = map[string]int{
	"required":              0,
	security.TagNotBlank:    1,
	security.TagMaxLength:   2,
	security.TagEmailFormat: 3,
}

var ruleMessage = map[string]string{
	"required":              MsgRequired,
	security.TagNotBlank:    MsgEmpty,
	security.TagMaxLength:   MsgTooLong,
	security.TagEmailFormat: MsgInvalidEmail,
}

// validateInput checks in against the name/email rules and returns a
// ValidationError for the first rule that fails for either field.
func validateInput(v *validator.Validate, in UserInput) error {
	fields := userFields{Name: deref(in.Name), Email: deref(in.Email)}

	err := v.Struct(fields)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	first := verrs[0]
	for _, fe := range verrs[1:] {
		if ruleRank[fe.Tag()] < ruleRank[first.Tag()] {
			first = fe
		}
	}

	msg, ok := ruleMessage[first.Tag()]
	if !ok {
		msg = MsgRequired
	}
	return pkgerrors.NewValidationError(first.Field(), msg)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
