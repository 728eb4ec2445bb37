package blockindex

import (
	"io"

	"github.com/bitcoin-sv/teranode-consensus/model"
)

// FileInfo tracks one block file's occupancy and the height/time range
// of blocks it holds (§6 "Block-file info record"). Every field is
// varint-encoded on disk.
type FileInfo struct {
	Blocks     uint32
	Size       uint32
	UndoSize   uint32
	HeightFirst uint32
	HeightLast  uint32
	TimeFirst   uint32
	TimeLast    uint32
}

// AddBlock extends the range to cover a newly written block. Block
// files are append-only: written once, sequentially, never rewritten
// in place.
func (f *FileInfo) AddBlock(height, blockTime uint32) {
	if f.Blocks == 0 || height < f.HeightFirst {
		f.HeightFirst = height
	}
	if height > f.HeightLast {
		f.HeightLast = height
	}

	if f.Blocks == 0 || blockTime < f.TimeFirst {
		f.TimeFirst = blockTime
	}
	if blockTime > f.TimeLast {
		f.TimeLast = blockTime
	}

	f.Blocks++
}

func WriteFileInfo(w io.Writer, f *FileInfo) error {
	fields := []uint64{
		uint64(f.Blocks),
		uint64(f.Size),
		uint64(f.UndoSize),
		uint64(f.HeightFirst),
		uint64(f.HeightLast),
		uint64(f.TimeFirst),
		uint64(f.TimeLast),
	}

	for _, v := range fields {
		if err := model.WriteVarInt(w, v); err != nil {
			return err
		}
	}

	return nil
}

func ReadFileInfo(r io.Reader) (*FileInfo, error) {
	vals := make([]uint64, 7)

	for i := range vals {
		v, err := model.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}

	return &FileInfo{
		Blocks:      uint32(vals[0]),
		Size:        uint32(vals[1]),
		UndoSize:    uint32(vals[2]),
		HeightFirst: uint32(vals[3]),
		HeightLast:  uint32(vals[4]),
		TimeFirst:   uint32(vals[5]),
		TimeLast:    uint32(vals[6]),
	}, nil
}

// DiskTxPos is a transaction's location within a block file: the
// block's own DiskPosition plus the byte offset of the transaction
// within the block, measured after the header (§6 "Disk transaction
// position").
type DiskTxPos struct {
	DiskPosition
	TxOffset uint32
}

func WriteDiskTxPos(w io.Writer, p DiskTxPos) error {
	if err := model.WriteVarInt(w, uint64(uint32(p.FileNumber))); err != nil {
		return err
	}
	if err := model.WriteVarInt(w, uint64(p.Offset)); err != nil {
		return err
	}
	return model.WriteVarInt(w, uint64(p.TxOffset))
}

func ReadDiskTxPos(r io.Reader) (DiskTxPos, error) {
	file, err := model.ReadVarInt(r)
	if err != nil {
		return DiskTxPos{}, err
	}

	offset, err := model.ReadVarInt(r)
	if err != nil {
		return DiskTxPos{}, err
	}

	txOffset, err := model.ReadVarInt(r)
	if err != nil {
		return DiskTxPos{}, err
	}

	return DiskTxPos{
		DiskPosition: DiskPosition{FileNumber: int32(file), Offset: uint32(offset)},
		TxOffset:     uint32(txOffset),
	}, nil
}
