package blockindex

import (
	"bytes"
	"io"

	"github.com/bitcoin-sv/teranode-consensus/chainwork"
	"github.com/bitcoin-sv/teranode-consensus/errors"
	"github.com/bitcoin-sv/teranode-consensus/model"
)

// SerializeVersion resolves Open Question 2 (§9): the on-disk record
// always carries the leading version varint, even though today there
// is only one format. A future incompatible layout bumps this and
// switches on the decoded value.
const SerializeVersion = 1

// WriteRecord implements §6's on-disk block-index record: the version
// varint, then height/status/n_tx, the conditional file/offset fields,
// then the raw header.
func WriteRecord(w io.Writer, n *Node) error {
	if err := model.WriteVarInt(w, SerializeVersion); err != nil {
		return err
	}

	if err := model.WriteVarInt(w, uint64(uint32(n.Height))); err != nil {
		return err
	}

	if err := model.WriteVarInt(w, uint64(n.Status)); err != nil {
		return err
	}

	if err := model.WriteVarInt(w, uint64(n.NTx)); err != nil {
		return err
	}

	if n.Status.HasData() || n.Status.HasUndo() {
		if err := model.WriteVarInt(w, uint64(uint32(n.File))); err != nil {
			return err
		}
	}

	if n.Status.HasData() {
		if err := model.WriteVarInt(w, uint64(n.DataOffset)); err != nil {
			return err
		}
	}

	if n.Status.HasUndo() {
		if err := model.WriteVarInt(w, uint64(n.UndoOffset)); err != nil {
			return err
		}
	}

	h := n.Header()

	return writeHeader(w, h)
}

// ReadRecord decodes a record written by WriteRecord. The caller is
// responsible for linking the returned node's Prev/Skip once every
// node's header hash has been computed and the full index is loaded -
// this function only reconstructs the fields that round-trip through
// the on-disk format.
func ReadRecord(r io.Reader) (*Node, error) {
	version, err := model.ReadVarInt(r)
	if err != nil {
		return nil, errors.NewProcessingError("blockindex: reading version", err)
	}

	if version != SerializeVersion {
		return nil, errors.NewProcessingError("blockindex: unsupported record version", nil)
	}

	height, err := model.ReadVarInt(r)
	if err != nil {
		return nil, errors.NewProcessingError("blockindex: reading height", err)
	}

	status, err := model.ReadVarInt(r)
	if err != nil {
		return nil, errors.NewProcessingError("blockindex: reading status", err)
	}

	nTx, err := model.ReadVarInt(r)
	if err != nil {
		return nil, errors.NewProcessingError("blockindex: reading n_tx", err)
	}

	n := &Node{
		Height: int32(height),
		Status: Status(status),
		NTx:    uint32(nTx),
		File:   -1,
	}

	if n.Status.HasData() || n.Status.HasUndo() {
		file, err := model.ReadVarInt(r)
		if err != nil {
			return nil, errors.NewProcessingError("blockindex: reading file", err)
		}

		n.File = int32(file)
	}

	if n.Status.HasData() {
		dataOffset, err := model.ReadVarInt(r)
		if err != nil {
			return nil, errors.NewProcessingError("blockindex: reading data_offset", err)
		}

		n.DataOffset = uint32(dataOffset)
	}

	if n.Status.HasUndo() {
		undoOffset, err := model.ReadVarInt(r)
		if err != nil {
			return nil, errors.NewProcessingError("blockindex: reading undo_offset", err)
		}

		n.UndoOffset = uint32(undoOffset)
	}

	if err := readHeaderInto(r, n); err != nil {
		return nil, err
	}

	if err := n.validate(); err != nil {
		return nil, err
	}

	return n, nil
}

func writeHeader(w io.Writer, h *model.BlockHeader) error {
	var buf [4]byte

	putUint32LE(buf[:], h.Version)
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}

	if _, err := w.Write(h.HashPrevBlock[:]); err != nil {
		return err
	}

	if _, err := w.Write(h.HashMerkleRoot[:]); err != nil {
		return err
	}

	putUint32LE(buf[:], h.Timestamp)
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}

	putUint32LE(buf[:], uint32(h.Bits))
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}

	putUint32LE(buf[:], h.Nonce)
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}

	return nil
}

func readHeaderInto(r io.Reader, n *Node) error {
	var buf [32]byte

	if _, err := io.ReadFull(r, buf[:4]); err != nil {
		return errors.NewProcessingError("blockindex: reading header version", err)
	}
	n.Version = getUint32LE(buf[:4])

	if _, err := io.ReadFull(r, n.PrevHash[:]); err != nil {
		return errors.NewProcessingError("blockindex: reading prev hash", err)
	}

	if _, err := io.ReadFull(r, n.MerkleRoot[:]); err != nil {
		return errors.NewProcessingError("blockindex: reading merkle root", err)
	}

	if _, err := io.ReadFull(r, buf[:4]); err != nil {
		return errors.NewProcessingError("blockindex: reading timestamp", err)
	}
	n.Time = getUint32LE(buf[:4])
	n.TimeMax = n.Time

	if _, err := io.ReadFull(r, buf[:4]); err != nil {
		return errors.NewProcessingError("blockindex: reading bits", err)
	}
	n.Bits = chainwork.Compact(getUint32LE(buf[:4]))

	if _, err := io.ReadFull(r, buf[:4]); err != nil {
		return errors.NewProcessingError("blockindex: reading nonce", err)
	}
	n.Nonce = getUint32LE(buf[:4])

	return nil
}

func putUint32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getUint32LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// EncodeRecord/DecodeRecord are byte-slice convenience wrappers around
// WriteRecord/ReadRecord for callers that already hold the record in
// memory (e.g. a key-value store's get/put).
func EncodeRecord(n *Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteRecord(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeRecord(b []byte) (*Node, error) {
	return ReadRecord(bytes.NewReader(b))
}
