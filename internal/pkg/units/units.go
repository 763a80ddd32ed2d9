// Package units converts smallest-unit integer amounts (wei, lamports,
// satoshi, SUN) into display-unit floats and applies the construction-time
// rounding used across the report model.
package units

import (
	"math"
	"math/big"
)

const (
	WeiPerEther    = 1e18
	LamportsPerSol = 1e9
	SatoshiPerBTC  = 1e8
	SunPerTRX      = 1e6
	usdDecimals    = 2
	nativeDecimals = 8
)

// FromSmallestUnit divides a raw integer amount by 10^decimals.
// Amounts larger than float64 can hold exactly go through big.Float so the
// division itself stays precise.
func FromSmallestUnit(raw *big.Int, decimals int) float64 {
	if raw == nil || raw.Sign() == 0 {
		return 0
	}
	amount := new(big.Float).SetInt(raw)
	divisor := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	value, _ := new(big.Float).Quo(amount, divisor).Float64()
	return value
}

// ParseBigInt parses a base-10 integer string, tolerating empty input.
func ParseBigInt(s string) *big.Int {
	if s == "" {
		return big.NewInt(0)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return big.NewInt(0)
	}
	return v
}

// WeiToEther converts wei to ether.
func WeiToEther(wei *big.Int) float64 {
	return FromSmallestUnit(wei, 18)
}

// LamportsToSol converts lamports to SOL.
func LamportsToSol(lamports int64) float64 {
	return float64(lamports) / LamportsPerSol
}

// SatoshiToBTC converts satoshi to BTC.
func SatoshiToBTC(satoshi int64) float64 {
	return float64(satoshi) / SatoshiPerBTC
}

// SunToTRX converts SUN to TRX.
func SunToTRX(sun int64) float64 {
	return float64(sun) / SunPerTRX
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}

// RoundUSD rounds a USD amount to 2 decimal places. Monetary fields are
// rounded when the report is built, not at presentation time.
func RoundUSD(v float64) float64 {
	return RoundTo(v, usdDecimals)
}

// RoundNative rounds a native-unit amount to 8 decimal places.
func RoundNative(v float64) float64 {
	return RoundTo(v, nativeDecimals)
}
