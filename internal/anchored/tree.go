// tree.go - Enumerated Merkle tree of anchor-bound leaves.
//
// Enrollment computes one leaf per integer x in [1, 2^range], in ascending
// order, and commits them in a binary Poseidon tree. The build is the
// dominant cost of the protocol (2^range scalar multiplications plus hashes),
// so leaves are computed by a bounded worker pool; the tree itself is
// immutable afterwards and safe for concurrent reads.

package anchored

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"runtime"

	"github.com/consensys/gnark-crypto/accumulator/merkletree"
	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/sync/errgroup"
)

// maxTreeRange bounds the tree exponent; beyond this the leaf buffer alone
// would exceed 128 GiB.
const maxTreeRange = 32

// Tree is the read-only set of 2^range bound leaves plus the derived root.
// Leaf x is stored at index x-1.
type Tree struct {
	depth  uint8
	leaves []byte // digestSize·n bytes, ascending x
	root   []byte
}

// BuildTree enumerates x = 1 .. 2^depth, computes each bound leaf
// Hash5(tag, split(anchor.x), split((G^(secret·x)).x)), and assembles the
// Merkle tree. Leaf computation runs on one worker per CPU; ctx cancels a
// long build.
func BuildTree(ctx context.Context, depth uint8, anchor *bn254.G1Affine, secret *fr.Element) (*Tree, error) {
	return BuildTreeWorkers(ctx, depth, anchor, secret, runtime.GOMAXPROCS(0))
}

// BuildTreeWorkers is BuildTree with an explicit worker count.
func BuildTreeWorkers(ctx context.Context, depth uint8, anchor *bn254.G1Affine, secret *fr.Element, workers int) (*Tree, error) {
	if depth < 1 || depth > maxTreeRange {
		return nil, fmt.Errorf("%w: tree range %d outside [1, %d]", ErrSetup, depth, maxTreeRange)
	}
	n := uint64(1) << depth
	leaves := make([]byte, n*digestSize)
	_, _, g, _ := bn254.Generators()

	if workers < 1 {
		workers = 1
	}
	chunk := n / uint64(workers)
	if chunk == 0 {
		chunk = 1
	}

	grp, ctx := errgroup.WithContext(ctx)
	for start := uint64(0); start < n; start += chunk {
		start := start
		end := start + chunk
		if end > n {
			end = n
		}
		grp.Go(func() error {
			var x, scalar fr.Element
			var s big.Int
			var p bn254.G1Affine
			for i := start; i < end; i++ {
				if i%1024 == 0 {
					select {
					case <-ctx.Done():
						return ctx.Err()
					default:
					}
				}
				x.SetUint64(i + 1)
				scalar.Mul(&x, secret)
				p.ScalarMultiplication(&g, scalar.BigInt(&s))
				leaf, err := boundLeaf(&anchor.X, &p.X)
				if err != nil {
					return fmt.Errorf("hashing leaf %d: %w", i+1, err)
				}
				copy(leaves[i*digestSize:], leaf[:])
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	root, _, _, err := merkletree.BuildReaderProof(bytes.NewReader(leaves), newMerkleHasher(), digestSize, 0)
	if err != nil {
		return nil, fmt.Errorf("deriving root: %w", err)
	}
	return &Tree{depth: depth, leaves: leaves, root: root}, nil
}

// Depth returns the tree exponent.
func (t *Tree) Depth() uint8 { return t.depth }

// NumLeaves returns 2^depth.
func (t *Tree) NumLeaves() uint64 { return uint64(len(t.leaves)) / digestSize }

// Root returns a copy of the Merkle root.
func (t *Tree) Root() []byte { return append([]byte(nil), t.root...) }

// Leaf returns a copy of the leaf at the given index.
func (t *Tree) Leaf(index uint64) ([]byte, error) {
	if index >= t.NumLeaves() {
		return nil, fmt.Errorf("leaf index %d out of range", index)
	}
	return append([]byte(nil), t.leaves[index*digestSize:(index+1)*digestSize]...), nil
}

// FindLeaf scans the leaf set for an exact match and returns its index.
func (t *Tree) FindLeaf(leaf []byte) (uint64, bool) {
	for i := uint64(0); i < t.NumLeaves(); i++ {
		if bytes.Equal(t.leaves[i*digestSize:(i+1)*digestSize], leaf) {
			return i, true
		}
	}
	return 0, false
}

// Prove returns the inclusion proof set for the leaf at index. The first
// element of the set is the leaf data itself, followed by the sibling hashes
// up to the root.
func (t *Tree) Prove(index uint64) ([][]byte, error) {
	if index >= t.NumLeaves() {
		return nil, fmt.Errorf("leaf index %d out of range", index)
	}
	_, proofSet, _, err := merkletree.BuildReaderProof(bytes.NewReader(t.leaves), newMerkleHasher(), digestSize, index)
	if err != nil {
		return nil, fmt.Errorf("building inclusion path: %w", err)
	}
	return proofSet, nil
}

// Summary returns a short human-readable description of the tree.
func (t *Tree) Summary() string {
	return fmt.Sprintf("root=%x... depth=%d leaves=%d", t.root[:4], t.depth, t.NumLeaves())
}
