package blockindex

import "github.com/bitcoin-sv/teranode-consensus/chainwork"

// blockProofOf implements §3's chain_work(n) = chain_work(prev) +
// block_proof(n); kept separate from Tree.Insert so tests can build
// the proof for a header before it is registered.
func blockProofOf(n *Node) chainwork.Uint256 {
	return chainwork.BlockProof(n.Bits)
}
