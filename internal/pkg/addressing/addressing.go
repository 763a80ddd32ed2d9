// Package addressing classifies wallet address strings into a chain family
// and resolves the default chain set to scan for that family. Classification
// is pure and deterministic; no I/O happens here.
package addressing

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"

	"wallet_analyzer/internal/domain/entity"
)

// Rule order matters: Tron and Bitcoin shapes overlap with the generic
// base58 test, so the broad Solana rule runs last.
var (
	btcLegacyRe  = regexp.MustCompile(`^[13][a-km-zA-HJ-NP-Z1-9]{25,34}$`)
	btcBech32Re  = regexp.MustCompile(`^bc1[a-zA-HJ-NP-Z0-9]{25,90}$`)
	tronRe       = regexp.MustCompile(`^T[a-zA-Z0-9]{33}$`)
	solanaLenMin = 32
	solanaLenMax = 44
)

// Classify detects the address family from the address format alone.
func Classify(address string) entity.AddressFamily {
	address = strings.TrimSpace(address)

	if strings.HasPrefix(address, "0x") && common.IsHexAddress(address) {
		return entity.AddressFamilyEVM
	}
	if btcBech32Re.MatchString(address) {
		return entity.AddressFamilyBitcoin
	}
	if btcLegacyRe.MatchString(address) && isBase58(address) {
		return entity.AddressFamilyBitcoin
	}
	if tronRe.MatchString(address) {
		return entity.AddressFamilyTron
	}
	if len(address) >= solanaLenMin && len(address) <= solanaLenMax && isBase58(address) {
		return entity.AddressFamilySolana
	}
	return entity.AddressFamilyUnknown
}

// DefaultChains returns the chain identifiers scanned by default for an
// address family. Callers may override with an explicit subset; no
// compatibility check is performed on overrides.
func DefaultChains(family entity.AddressFamily) []string {
	switch family {
	case entity.AddressFamilyEVM:
		chains := make([]string, len(entity.EVMChainIDs))
		copy(chains, entity.EVMChainIDs)
		return chains
	case entity.AddressFamilySolana:
		return []string{"solana"}
	case entity.AddressFamilyBitcoin:
		return []string{"bitcoin"}
	case entity.AddressFamilyTron:
		return []string{"tron"}
	}
	return nil
}

// isBase58 reports whether the string decodes under the Bitcoin base58
// alphabet. The decoder rejects 0, O, I and l, which the regexp character
// classes alone would let through for some shapes.
func isBase58(s string) bool {
	if s == "" {
		return false
	}
	_, err := base58.Decode(s)
	return err == nil
}
