package hdfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/gohdfs/pkg/wire/rpcpb"
)

func TestTagSide(t *testing.T) {
	cause := assert.AnError

	var srcWrapped *Error
	require.ErrorAs(t, tagSide(SideSrc, cause), &srcWrapped)
	assert.Equal(t, SideSrc, srcWrapped.Side)

	var dstWrapped *Error
	require.ErrorAs(t, tagSide(SideDst, cause), &dstWrapped)
	assert.Equal(t, SideDst, dstWrapped.Side)

	var opWrapped *Error
	require.ErrorAs(t, tagSide(SideOp, cause), &opWrapped)
	assert.Equal(t, SideOp, opWrapped.Side)
}

func TestEnsureDir(t *testing.T) {
	dir := &rpcpb.HdfsFileStatus{FileType: rpcpb.IsDir}
	assert.NoError(t, ensureDir(dir, "/d", SideSrc))

	file := &rpcpb.HdfsFileStatus{FileType: rpcpb.IsFile}
	err := ensureDir(file, "/d/f", SideSrc)
	require.Error(t, err)
	var nd *NotDirError
	require.ErrorAs(t, err, &nd)
	assert.Equal(t, "/d/f", nd.Path)
}

func TestEnsureNotExists(t *testing.T) {
	t.Run("absent is ok", func(t *testing.T) {
		err := ensureNotExists(nil, &NotFoundError{Path: "/x"}, "/x", SideSrc)
		assert.NoError(t, err)
	})

	t.Run("present is an error", func(t *testing.T) {
		fi := &rpcpb.HdfsFileStatus{FileType: rpcpb.IsDir}
		err := ensureNotExists(fi, nil, "/x", SideSrc)
		require.Error(t, err)
		var fe *FileExistsError
		require.ErrorAs(t, err, &fe)
	})

	t.Run("other rpc failure propagates", func(t *testing.T) {
		err := ensureNotExists(nil, assert.AnError, "/x", SideDst)
		require.Error(t, err)
		var wrapped *Error
		require.ErrorAs(t, err, &wrapped)
		assert.Equal(t, SideDst, wrapped.Side)
	})
}
