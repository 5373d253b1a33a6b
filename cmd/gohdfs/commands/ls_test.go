package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marmos91/gohdfs/pkg/wire/rpcpb"
)

func TestEntryTypeDir(t *testing.T) {
	assert.Equal(t, "d", entryType(rpcpb.HdfsFileStatus{FileType: rpcpb.IsDir}))
}

func TestEntryTypeSymlink(t *testing.T) {
	assert.Equal(t, "l", entryType(rpcpb.HdfsFileStatus{FileType: rpcpb.IsSymlink}))
}

func TestEntryTypeFile(t *testing.T) {
	assert.Equal(t, "-", entryType(rpcpb.HdfsFileStatus{FileType: rpcpb.IsFile}))
}

func TestEntryListHeaders(t *testing.T) {
	assert.Equal(t, []string{"TYPE", "PERMISSION", "OWNER", "GROUP", "LENGTH", "NAME"}, entryList(nil).Headers())
}

func TestEntryListRows(t *testing.T) {
	entries := entryList{
		{
			FileType:   rpcpb.IsFile,
			Path:       []byte("report.csv"),
			Length:     2048,
			Permission: rpcpb.FsPermission{Perm: 0o644},
			Owner:      "alice",
			Group:      "staff",
		},
	}
	rows := entries.Rows()
	assert.Len(t, rows, 1)
	assert.Equal(t, []string{"-", "644", "alice", "staff", "2048", "report.csv"}, rows[0])
}
