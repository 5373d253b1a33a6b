package rpcpb

import "google.golang.org/protobuf/encoding/protowire"

// GetListingRequest asks for one page of directory entries starting
// strictly after startAfter (an empty cursor requests the first page).
type GetListingRequest struct {
	Src          string
	StartAfter   []byte
	NeedLocation bool
}

func (r *GetListingRequest) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, r.Src)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, r.StartAfter)
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, boolVarint(r.NeedLocation))
	return b
}

// GetListingResponse carries one page of listing results. A nil DirList
// means the target path does not exist.
type GetListingResponse struct {
	DirList *DirectoryListing
}

func UnmarshalGetListingResponse(b []byte) (GetListingResponse, error) {
	var resp GetListingResponse
	err := rangeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			d, err := UnmarshalDirectoryListing(raw)
			if err != nil {
				return 0, err
			}
			resp.DirList = &d
			return n, nil
		}
		return 0, nil
	})
	return resp, err
}

// MkdirsRequest creates a directory (and, if CreateParent, any missing
// ancestors) with the given permission bits.
type MkdirsRequest struct {
	Src          string
	Masked       FsPermission
	CreateParent bool
}

func (r *MkdirsRequest) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, r.Src)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, r.Masked.Marshal())
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, boolVarint(r.CreateParent))
	return b
}

// MkdirsResponse reports whether the directory was created; false
// typically means it already existed.
type MkdirsResponse struct {
	Result bool
}

func UnmarshalMkdirsResponse(b []byte) (MkdirsResponse, error) {
	var resp MkdirsResponse
	err := rangeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			resp.Result = v != 0
			return n, nil
		}
		return 0, nil
	})
	return resp, err
}

// DeleteRequest removes a path, optionally recursively.
type DeleteRequest struct {
	Src       string
	Recursive bool
}

func (r *DeleteRequest) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, r.Src)
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, boolVarint(r.Recursive))
	return b
}

// DeleteResponse reports whether anything was deleted.
type DeleteResponse struct {
	Result bool
}

func UnmarshalDeleteResponse(b []byte) (DeleteResponse, error) {
	var resp DeleteResponse
	resp.Result = true // optional field, absent means true per ClientProtocol semantics
	err := rangeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			resp.Result = v != 0
			return n, nil
		}
		return 0, nil
	})
	return resp, err
}

// RenameRequest moves src to dst.
type RenameRequest struct {
	Src string
	Dst string
}

func (r *RenameRequest) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, r.Src)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, r.Dst)
	return b
}

// RenameResponse reports whether the rename succeeded.
type RenameResponse struct {
	Result bool
}

func UnmarshalRenameResponse(b []byte) (RenameResponse, error) {
	var resp RenameResponse
	err := rangeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			resp.Result = v != 0
			return n, nil
		}
		return 0, nil
	})
	return resp, err
}

// GetFileInfoRequest asks for the status of a single path.
type GetFileInfoRequest struct {
	Src string
}

func (r *GetFileInfoRequest) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, r.Src)
	return b
}

// GetFileInfoResponse carries the path's status, or a nil Fs if the path
// does not exist.
type GetFileInfoResponse struct {
	Fs *HdfsFileStatus
}

func UnmarshalGetFileInfoResponse(b []byte) (GetFileInfoResponse, error) {
	var resp GetFileInfoResponse
	err := rangeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			s, err := UnmarshalHdfsFileStatus(raw)
			if err != nil {
				return 0, err
			}
			resp.Fs = &s
			return n, nil
		}
		return 0, nil
	})
	return resp, err
}

// GetBlockLocationsRequest asks for the block-location manifest for a
// range of a file.
type GetBlockLocationsRequest struct {
	Src    string
	Offset uint64
	Length uint64
}

func (r *GetBlockLocationsRequest) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, r.Src)
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, r.Offset)
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, r.Length)
	return b
}

// GetBlockLocationsResponse carries the requested block-location
// manifest, or a nil Locations if the path has no blocks (or does not
// exist).
type GetBlockLocationsResponse struct {
	Locations *LocatedBlocks
}

func UnmarshalGetBlockLocationsResponse(b []byte) (GetBlockLocationsResponse, error) {
	var resp GetBlockLocationsResponse
	err := rangeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			l, err := UnmarshalLocatedBlocks(raw)
			if err != nil {
				return 0, err
			}
			resp.Locations = &l
			return n, nil
		}
		return 0, nil
	})
	return resp, err
}

// GetFsStatsResponse is the cluster-wide (or nameservice-wide) capacity
// summary returned by getFsStats.
type GetFsStatsResponse struct {
	Capacity             uint64
	Used                 uint64
	Remaining            uint64
	UnderReplicated      uint64
	CorruptBlocks        uint64
	MissingBlocks        uint64
	MissingReplOneBlocks uint64
}

func UnmarshalGetFsStatsResponse(b []byte) (GetFsStatsResponse, error) {
	var resp GetFsStatsResponse
	err := rangeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		v, n, err := consumeVarint(b)
		if err != nil {
			return 0, err
		}
		switch num {
		case 1:
			resp.Capacity = v
		case 2:
			resp.Used = v
		case 3:
			resp.Remaining = v
		case 4:
			resp.UnderReplicated = v
		case 5:
			resp.CorruptBlocks = v
		case 6:
			resp.MissingBlocks = v
		case 7:
			resp.MissingReplOneBlocks = v
		}
		return n, nil
	})
	return resp, err
}

// SetPermissionRequest changes a path's permission bits.
type SetPermissionRequest struct {
	Src        string
	Permission FsPermission
}

func (r *SetPermissionRequest) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, r.Src)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, r.Permission.Marshal())
	return b
}

// SetOwnerRequest changes a path's owning user and/or group. An empty
// string leaves that attribute unchanged.
type SetOwnerRequest struct {
	Src       string
	Username  string
	Groupname string
}

func (r *SetOwnerRequest) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, r.Src)
	if r.Username != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, r.Username)
	}
	if r.Groupname != "" {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendString(b, r.Groupname)
	}
	return b
}

// SetTimesRequest changes a path's modification and access times
// (milliseconds since the epoch; -1 leaves a timestamp unchanged).
type SetTimesRequest struct {
	Src   string
	Mtime uint64
	Atime uint64
}

func (r *SetTimesRequest) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, r.Src)
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, r.Mtime)
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, r.Atime)
	return b
}

func boolVarint(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}
