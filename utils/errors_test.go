package utils

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestPreconditionError(t *testing.T) {
	err := NewPreconditionError("bounding box %v outside image", "(0,0)-(5,5)")
	test.That(t, IsPreconditionError(err), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "bounding box (0,0)-(5,5) outside image")
	test.That(t, IsPreconditionError(errors.Wrap(err, "object 4")), test.ShouldBeTrue)
	test.That(t, IsPreconditionError(errors.New("other")), test.ShouldBeFalse)
}

func TestConfigValidationErrors(t *testing.T) {
	err := NewConfigValidationFieldRequiredError("haralick", "greylevels")
	test.That(t, err.Error(), test.ShouldEqual, `error validating "haralick": "greylevels" is required`)
}

func TestNewPanicError(t *testing.T) {
	test.That(t, NewPanicError("boom").Error(), test.ShouldEqual, "recovered from panic: boom")
	test.That(t, NewPanicError(errors.New("bad")).Error(), test.ShouldEqual, "recovered from panic: bad")
}
