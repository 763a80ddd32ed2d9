package entity

// AddressFamily is the classification bucket an address falls into. It drives
// which chains and providers apply to the address.
type AddressFamily string

const (
	AddressFamilyEVM     AddressFamily = "evm"
	AddressFamilySolana  AddressFamily = "solana"
	AddressFamilyBitcoin AddressFamily = "bitcoin"
	AddressFamilyTron    AddressFamily = "tron"
	AddressFamilyUnknown AddressFamily = "unknown"
)
