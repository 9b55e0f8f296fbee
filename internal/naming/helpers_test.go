package naming

import (
	"github.com/Klingon-tech/klingnet-names/pkg/types"
)

// testOutpoint builds a distinct outpoint from a seed byte.
func testOutpoint(seed byte) types.Outpoint {
	return types.Outpoint{TxID: types.Hash{seed}, Index: uint32(seed)}
}

// testAddr builds a distinct address from a seed byte.
func testAddr(seed byte) types.Address {
	var addr types.Address
	for i := range addr {
		addr[i] = seed
	}
	return addr
}
