// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// sequence is the primary key of a log row. Block number takes the high bits and
// the log index the low 31 bits, so rows sort by position in the ledger.
type sequence int64

const (
	indexBits = 31
	indexMask = 1<<indexBits - 1
	maxIndex  = uint32(indexMask)
)

func newSequence(blockNum uint32, index uint32) sequence {
	if index > maxIndex {
		panic("log index overflows sequence")
	}
	return sequence(blockNum)<<indexBits | sequence(index)
}

func (s sequence) BlockNumber() uint32 { return uint32(s >> indexBits) }

func (s sequence) Index() uint32 { return uint32(s & indexMask) }
