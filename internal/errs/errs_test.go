package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode_FollowsWrapChain(t *testing.T) {
	cause := errors.New("no such file")
	err := fmt.Errorf("render: %w", MissingAsset("assets/frame.png", cause))

	assert.True(t, HasCode(err, CodeMissingAsset))
	assert.False(t, HasCode(err, CodeEncoding))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeMissingAsset, CodeOf(err))
}

func TestHasCode_NilAndPlainErrors(t *testing.T) {
	assert.False(t, HasCode(nil, CodeTransport))
	assert.False(t, HasCode(errors.New("plain"), CodeTransport))
	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "MALFORMED_EVENT: no extractable message (entry[0] missing)",
		MalformedEvent("entry[0] missing").Error())
	assert.Equal(t, "TICKET_LAYOUT_INVALID: qr does not fit frame",
		(&Error{Code: CodeLayout, Message: "qr does not fit frame"}).Error())
}
