package domain

const (
	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// Default gas multiplier applied on top of the node's estimate
	DEFAULT_GAS_MULTIPLIER = 1.2

	// Gas limit sent when no estimate can be obtained
	DEFAULT_GAS_LIMIT = 500000

	// Status texts written by the ledger contract itself
	STATUS_CREATED_BY_FARMER          = "Created by Farmer"
	STATUS_TRANSFERRED_TO_DISTRIBUTOR = "Transferred to Distributor"
	STATUS_TRANSFERRED_TO_RETAILER    = "Transferred to Retailer"
	STATUS_SOLD_TO_CONSUMER           = "Sold to Consumer"
)
