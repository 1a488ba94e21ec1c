package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("translate: %w", MissingCopy())
	require.True(t, IsMissingCopy(err))
	require.False(t, IsUnsupportedInstruction(err))
	require.Equal(t, CodeMissingCopy, Code(err))
}

func TestCodeOfPlainError(t *testing.T) {
	require.Equal(t, "", Code(fmt.Errorf("plain")))
	require.Equal(t, "", Code(nil))
}

func TestInstructionErrorsCarryLine(t *testing.T) {
	err := InvalidInstruction(3, "CMD /bin/", "CMD must reference a file")
	require.True(t, IsInvalidInstruction(err))
	require.Equal(t, "line 3: CMD must reference a file: CMD /bin/", err.Error())

	err = UnsupportedInstruction(7, "RUN make")
	require.True(t, IsUnsupportedInstruction(err))
	require.Contains(t, err.Error(), "RUN make")
}
