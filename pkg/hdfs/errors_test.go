package hdfs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorSideString(t *testing.T) {
	assert.Equal(t, "invalid source", SideSrc.String())
	assert.Equal(t, "invalid destination", SideDst.String())
	assert.Equal(t, "failed operation", SideOp.String())
}

func TestErrorUnwrap(t *testing.T) {
	cause := &NotFoundError{Path: "/a"}
	err := srcErr(cause)

	var wrapped *Error
	require.ErrorAs(t, err, &wrapped)
	assert.Equal(t, SideSrc, wrapped.Side)
	assert.True(t, errors.Is(err, err))
	assert.Same(t, cause, errors.Unwrap(err))
}

func TestSrcDstOpErrNilPassthrough(t *testing.T) {
	assert.NoError(t, srcErr(nil))
	assert.NoError(t, dstErr(nil))
	assert.NoError(t, opErr(nil))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&NotFoundError{Path: "/a"}))
	assert.True(t, IsNotFound(srcErr(&NotFoundError{Path: "/a"})))
	assert.False(t, IsNotFound(&NotDirError{Path: "/a"}))
	assert.False(t, IsNotFound(dstErr(&FileExistsError{Path: "/a"})))
}

func TestNotFoundErrorMessage(t *testing.T) {
	err := &NotFoundError{Path: "/missing"}
	assert.Equal(t, "`/missing': No such file or directory", err.Error())
}

func TestNotDirErrorMessage(t *testing.T) {
	err := &NotDirError{Path: "/file"}
	assert.Equal(t, "`/file': Is not a directory", err.Error())
}

func TestFileExistsErrorMessage(t *testing.T) {
	err := &FileExistsError{Path: "/dup"}
	assert.Equal(t, "`/dup': File exists", err.Error())
}
