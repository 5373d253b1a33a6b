package rpcpb

import "google.golang.org/protobuf/encoding/protowire"

// FileType mirrors HdfsFileStatusProto.FileType.
type FileType int32

const (
	IsDir     FileType = 1
	IsFile    FileType = 2
	IsSymlink FileType = 3
)

// FsPermission is the 16-bit (really 9+ sticky/setuid/setgid bits) Unix
// permission mode, carried as a single varint field.
type FsPermission struct {
	Perm uint32
}

func (p FsPermission) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(p.Perm))
	return b
}

func unmarshalFsPermission(b []byte) (FsPermission, error) {
	var p FsPermission
	err := rangeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			p.Perm = uint32(v)
			return n, nil
		}
		return 0, nil
	})
	return p, err
}

// FileEncryptionInfo describes the encryption zone key material attached
// to a file inside an encryption zone. Carried opaquely: this client
// projects it but never interprets the key bytes.
type FileEncryptionInfo struct {
	Suite             string
	CryptoProtocolVer string
	Key               []byte
	IV                []byte
	KeyName           string
	EzKeyVersionName  string
}

func unmarshalFileEncryptionInfo(b []byte) (FileEncryptionInfo, error) {
	var f FileEncryptionInfo
	err := rangeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			f.Suite = cipherSuiteName(uint32(v))
			return n, nil
		case 2:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			f.CryptoProtocolVer = cryptoProtocolVersionName(uint32(v))
			return n, nil
		case 3:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			f.Key = v
			return n, nil
		case 4:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			f.IV = v
			return n, nil
		case 5:
			v, n, err := consumeString(b)
			if err != nil {
				return 0, err
			}
			f.KeyName = v
			return n, nil
		case 6:
			v, n, err := consumeString(b)
			if err != nil {
				return 0, err
			}
			f.EzKeyVersionName = v
			return n, nil
		default:
			return 0, nil
		}
	})
	return f, err
}

func cipherSuiteName(v uint32) string {
	switch v {
	case 1:
		return "AES_CTR_NOPADDING"
	default:
		return "UNKNOWN"
	}
}

func cryptoProtocolVersionName(v uint32) string {
	switch v {
	case 1:
		return "CryptoProtocolVersion1"
	default:
		return "UNKNOWN"
	}
}

// ErasureCodingPolicy describes the EC policy a file or directory uses.
// Carried opaquely: the system-wide policy table itself is out of scope.
type ErasureCodingPolicy struct {
	ID       uint32
	Name     string
	CellSize uint64
	State    string
}

func unmarshalErasureCodingPolicy(b []byte) (ErasureCodingPolicy, error) {
	var p ErasureCodingPolicy
	err := rangeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeString(b)
			if err != nil {
				return 0, err
			}
			p.Name = v
			return n, nil
		case 3:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			p.CellSize = v
			return n, nil
		case 4:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			p.ID = uint32(v)
			return n, nil
		case 5:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			p.State = ecPolicyStateName(uint32(v))
			return n, nil
		default:
			return 0, nil
		}
	})
	return p, err
}

func ecPolicyStateName(v uint32) string {
	switch v {
	case 1:
		return "DISABLED"
	case 2:
		return "ENABLED"
	case 3:
		return "REMOVED"
	default:
		return "UNKNOWN"
	}
}

// ExtendedBlock identifies one block instance: its owning block pool,
// block id, generation stamp, and (for located blocks) its length.
type ExtendedBlock struct {
	PoolID          string
	BlockID         uint64
	GenerationStamp uint64
	NumBytes        uint64
}

func unmarshalExtendedBlock(b []byte) (ExtendedBlock, error) {
	var e ExtendedBlock
	err := rangeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeString(b)
			if err != nil {
				return 0, err
			}
			e.PoolID = v
			return n, nil
		case 2:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			e.BlockID = v
			return n, nil
		case 3:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			e.GenerationStamp = v
			return n, nil
		case 4:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			e.NumBytes = v
			return n, nil
		default:
			return 0, nil
		}
	})
	return e, err
}

// AdminState is a datanode's administrative lifecycle state.
type AdminState int32

const (
	AdminNormal                 AdminState = 0
	AdminDecommissionInProgress AdminState = 1
	AdminDecommissioned         AdminState = 2
	AdminEnteringMaintenance    AdminState = 3
	AdminInMaintenance          AdminState = 4
)

// DatanodeInfo is one replica location returned inside a LocatedBlock.
type DatanodeInfo struct {
	IPAddr         string
	HostName       string
	DatanodeUUID   string
	XferPort       uint32
	InfoPort       uint32
	IPCPort        uint32
	InfoSecurePort uint32
	Capacity       uint64
	DfsUsed        uint64
	Remaining      uint64
	AdminState     AdminState
}

func unmarshalDatanodeInfo(b []byte) (DatanodeInfo, error) {
	var d DatanodeInfo
	err := rangeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1: // DatanodeIDProto id
			id, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			if err := rangeFields(id, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
				switch num {
				case 1:
					v, n, err := consumeString(b)
					if err != nil {
						return 0, err
					}
					d.IPAddr = v
					return n, nil
				case 2:
					v, n, err := consumeString(b)
					if err != nil {
						return 0, err
					}
					d.HostName = v
					return n, nil
				case 3:
					v, n, err := consumeString(b)
					if err != nil {
						return 0, err
					}
					d.DatanodeUUID = v
					return n, nil
				case 4:
					v, n, err := consumeVarint(b)
					if err != nil {
						return 0, err
					}
					d.XferPort = uint32(v)
					return n, nil
				case 5:
					v, n, err := consumeVarint(b)
					if err != nil {
						return 0, err
					}
					d.InfoPort = uint32(v)
					return n, nil
				case 6:
					v, n, err := consumeVarint(b)
					if err != nil {
						return 0, err
					}
					d.IPCPort = uint32(v)
					return n, nil
				case 7:
					v, n, err := consumeVarint(b)
					if err != nil {
						return 0, err
					}
					d.InfoSecurePort = uint32(v)
					return n, nil
				default:
					return 0, nil
				}
			}); err != nil {
				return 0, err
			}
			return n, nil
		case 2:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			d.Capacity = v
			return n, nil
		case 3:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			d.DfsUsed = v
			return n, nil
		case 4:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			d.Remaining = v
			return n, nil
		case 10:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			d.AdminState = AdminState(v)
			return n, nil
		default:
			return 0, nil
		}
	})
	return d, err
}

// LocatedBlock pairs a block's identity with the datanodes holding it,
// their per-replica storage type/id, and an offset into the file.
type LocatedBlock struct {
	Block        ExtendedBlock
	Offset       uint64
	Locations    []DatanodeInfo
	StorageIDs   []string
	StorageTypes []uint32
	Corrupt      bool
}

func unmarshalLocatedBlock(b []byte) (LocatedBlock, error) {
	var lb LocatedBlock
	err := rangeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			blk, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			eb, err := unmarshalExtendedBlock(blk)
			if err != nil {
				return 0, err
			}
			lb.Block = eb
			return n, nil
		case 2:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			lb.Offset = v
			return n, nil
		case 3:
			loc, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			d, err := unmarshalDatanodeInfo(loc)
			if err != nil {
				return 0, err
			}
			lb.Locations = append(lb.Locations, d)
			return n, nil
		case 4:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			lb.Corrupt = v != 0
			return n, nil
		case 7:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			lb.StorageTypes = append(lb.StorageTypes, uint32(v))
			return n, nil
		case 8:
			v, n, err := consumeString(b)
			if err != nil {
				return 0, err
			}
			lb.StorageIDs = append(lb.StorageIDs, v)
			return n, nil
		default:
			return 0, nil
		}
	})
	return lb, err
}

// LocatedBlocks is the full block-location manifest for a file: its
// known length, every block's location set, whether the file is still
// being written, and (if so) its still-growing last block.
type LocatedBlocks struct {
	FileLength          uint64
	Blocks              []LocatedBlock
	UnderConstruction   bool
	LastBlock           *LocatedBlock
	IsLastBlockComplete bool
}

func UnmarshalLocatedBlocks(b []byte) (LocatedBlocks, error) {
	var lbs LocatedBlocks
	err := rangeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			lbs.FileLength = v
			return n, nil
		case 2:
			blk, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			lb, err := unmarshalLocatedBlock(blk)
			if err != nil {
				return 0, err
			}
			lbs.Blocks = append(lbs.Blocks, lb)
			return n, nil
		case 3:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			lbs.UnderConstruction = v != 0
			return n, nil
		case 4:
			blk, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			lb, err := unmarshalLocatedBlock(blk)
			if err != nil {
				return 0, err
			}
			lbs.LastBlock = &lb
			return n, nil
		case 5:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			lbs.IsLastBlockComplete = v != 0
			return n, nil
		default:
			return 0, nil
		}
	})
	return lbs, err
}

// HdfsFileStatus is the projection of a directory entry's metadata
// returned by getFileInfo and getListing.
type HdfsFileStatus struct {
	FileType         FileType
	Path             []byte
	Length           uint64
	Permission       FsPermission
	Owner            string
	Group            string
	ModificationTime uint64
	AccessTime       uint64
	Symlink          []byte
	BlockReplication uint32
	BlockSize        uint64
	FileID           uint64
	ChildrenNum      int32 // -1 means absent
	StoragePolicy    uint32
	FileEncryption   *FileEncryptionInfo
	ECPolicy         *ErasureCodingPolicy
}

func UnmarshalHdfsFileStatus(b []byte) (HdfsFileStatus, error) {
	s := HdfsFileStatus{ChildrenNum: -1}
	err := rangeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			s.FileType = FileType(v)
			return n, nil
		case 2:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			s.Path = v
			return n, nil
		case 3:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			s.Length = v
			return n, nil
		case 4:
			perm, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			p, err := unmarshalFsPermission(perm)
			if err != nil {
				return 0, err
			}
			s.Permission = p
			return n, nil
		case 5:
			v, n, err := consumeString(b)
			if err != nil {
				return 0, err
			}
			s.Owner = v
			return n, nil
		case 6:
			v, n, err := consumeString(b)
			if err != nil {
				return 0, err
			}
			s.Group = v
			return n, nil
		case 7:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			s.ModificationTime = v
			return n, nil
		case 8:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			s.AccessTime = v
			return n, nil
		case 9:
			v, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			s.Symlink = v
			return n, nil
		case 10:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			s.BlockReplication = uint32(v)
			return n, nil
		case 11:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			s.BlockSize = v
			return n, nil
		case 13:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			s.FileID = v
			return n, nil
		case 14:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			s.ChildrenNum = int32(v)
			return n, nil
		case 16:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			s.StoragePolicy = uint32(v)
			return n, nil
		case 15:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			fe, err := unmarshalFileEncryptionInfo(raw)
			if err != nil {
				return 0, err
			}
			s.FileEncryption = &fe
			return n, nil
		case 17:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			ec, err := unmarshalErasureCodingPolicy(raw)
			if err != nil {
				return 0, err
			}
			s.ECPolicy = &ec
			return n, nil
		default:
			return 0, nil
		}
	})
	return s, err
}

// IsEncrypted reports whether the entry carries encryption-zone key
// material (it lives inside an encryption zone).
func (s HdfsFileStatus) IsEncrypted() bool { return s.FileEncryption != nil }

// IsErasureCoded reports whether the entry uses an erasure-coding policy
// rather than replication.
func (s HdfsFileStatus) IsErasureCoded() bool { return s.ECPolicy != nil }

// IsDir reports whether the entry is a directory.
func (s HdfsFileStatus) IsDir() bool { return s.FileType == IsDir }

// IsSymlink reports whether the entry is a symbolic link.
func (s HdfsFileStatus) IsSymlink() bool { return s.FileType == IsSymlink }

// HasChildrenNum reports whether the optional child-count field was set.
func (s HdfsFileStatus) HasChildrenNum() bool { return s.ChildrenNum >= 0 }

// DirectoryListing is one page of entries returned by getListing, plus
// the server's count of entries beyond this page.
type DirectoryListing struct {
	PartialListing   []HdfsFileStatus
	RemainingEntries uint32
}

func UnmarshalDirectoryListing(b []byte) (DirectoryListing, error) {
	var d DirectoryListing
	err := rangeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			entry, n, err := consumeBytes(b)
			if err != nil {
				return 0, err
			}
			s, err := UnmarshalHdfsFileStatus(entry)
			if err != nil {
				return 0, err
			}
			d.PartialListing = append(d.PartialListing, s)
			return n, nil
		case 2:
			v, n, err := consumeVarint(b)
			if err != nil {
				return 0, err
			}
			d.RemainingEntries = uint32(v)
			return n, nil
		default:
			return 0, nil
		}
	})
	return d, err
}
