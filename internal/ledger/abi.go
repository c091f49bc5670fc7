package ledger

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
)

// SupplyChainABI is the interface of the deployed SupplyChain contract.
// It does not declare BatchCompleted; contracts that emit it are loaded with LoadABI.
const SupplyChainABI = `[
  {"anonymous":false,"type":"event","name":"BatchCreated","inputs":[
    {"indexed":true,"name":"batchId","type":"string"},
    {"indexed":false,"name":"product","type":"string"},
    {"indexed":false,"name":"quantity","type":"uint256"},
    {"indexed":false,"name":"farmer","type":"address"}]},
  {"anonymous":false,"type":"event","name":"BatchUpdated","inputs":[
    {"indexed":true,"name":"batchId","type":"string"},
    {"indexed":false,"name":"status","type":"string"},
    {"indexed":false,"name":"updatedBy","type":"address"}]},
  {"anonymous":false,"type":"event","name":"BatchTransferred","inputs":[
    {"indexed":true,"name":"batchId","type":"string"},
    {"indexed":false,"name":"from","type":"address"},
    {"indexed":false,"name":"to","type":"address"},
    {"indexed":false,"name":"role","type":"string"}]},
  {"type":"function","name":"createBatch","stateMutability":"nonpayable","outputs":[],"inputs":[
    {"name":"_batchId","type":"string"},
    {"name":"_product","type":"string"},
    {"name":"_quantity","type":"uint256"}]},
  {"type":"function","name":"updateBatchStatus","stateMutability":"nonpayable","outputs":[],"inputs":[
    {"name":"_batchId","type":"string"},
    {"name":"_status","type":"string"}]},
  {"type":"function","name":"transferToDistributor","stateMutability":"nonpayable","outputs":[],"inputs":[
    {"name":"_batchId","type":"string"},
    {"name":"_distributor","type":"address"}]},
  {"type":"function","name":"transferToRetailer","stateMutability":"nonpayable","outputs":[],"inputs":[
    {"name":"_batchId","type":"string"},
    {"name":"_retailer","type":"address"}]},
  {"type":"function","name":"transferToConsumer","stateMutability":"nonpayable","outputs":[],"inputs":[
    {"name":"_batchId","type":"string"},
    {"name":"_consumer","type":"address"}]},
  {"type":"function","name":"getBatchInfo","stateMutability":"view","inputs":[
    {"name":"_batchId","type":"string"}],"outputs":[
    {"name":"","type":"string"},
    {"name":"","type":"uint256"},
    {"name":"","type":"address"},
    {"name":"","type":"address"},
    {"name":"","type":"address"},
    {"name":"","type":"address"},
    {"name":"","type":"uint256"},
    {"name":"","type":"uint256"},
    {"name":"","type":"string"}]},
  {"type":"function","name":"batchExists","stateMutability":"view","inputs":[
    {"name":"_batchId","type":"string"}],"outputs":[
    {"name":"","type":"bool"}]},
  {"type":"function","name":"getAllBatchIds","stateMutability":"view","inputs":[],"outputs":[
    {"name":"","type":"string[]"}]},
  {"type":"function","name":"getBatchCount","stateMutability":"view","inputs":[],"outputs":[
    {"name":"","type":"uint256"}]}
]`

// Contract method names
const (
	methodCreateBatch           = "createBatch"
	methodUpdateBatchStatus     = "updateBatchStatus"
	methodTransferToDistributor = "transferToDistributor"
	methodTransferToRetailer    = "transferToRetailer"
	methodTransferToConsumer    = "transferToConsumer"
	methodGetBatchInfo          = "getBatchInfo"
	methodBatchExists           = "batchExists"
	methodGetAllBatchIds        = "getAllBatchIds"
	methodGetBatchCount         = "getBatchCount"
)

// eventNames lists the contract event names accepted for each kind, in lookup order
var eventNames = map[domain.EventKind][]string{
	domain.EventKindCreated:     {"BatchCreated"},
	domain.EventKindTransferred: {"BatchTransferred"},
	domain.EventKindUpdated:     {"BatchUpdated", "BatchStatusUpdated"},
	domain.EventKindCompleted:   {"BatchCompleted"},
}

// LoadABI parses the contract ABI from path, or the built-in ABI when path is empty
func LoadABI(path string) (abi.ABI, error) {
	if path == "" {
		return abi.JSON(strings.NewReader(SupplyChainABI))
	}

	raw, err := os.ReadFile(path) //nolint:gosec,G304
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to read ABI file: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(string(raw)))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse ABI: %w", err)
	}
	return parsed, nil
}

// lookupEvent finds the ABI event backing kind
func lookupEvent(contract abi.ABI, kind domain.EventKind) (abi.Event, error) {
	for _, name := range eventNames[kind] {
		if ev, ok := contract.Events[name]; ok {
			return ev, nil
		}
	}
	return abi.Event{}, fmt.Errorf("%w: %s", domain.ErrEventKindUnsupported, kind)
}

// custodyMethod returns the contract function that assigns the custody slot of role
func custodyMethod(role domain.Role) (string, error) {
	switch role {
	case domain.RoleDistributor:
		return methodTransferToDistributor, nil
	case domain.RoleRetailer:
		return methodTransferToRetailer, nil
	case domain.RoleConsumer:
		return methodTransferToConsumer, nil
	default:
		return "", fmt.Errorf("%w: no custody assignment targets %q", domain.ErrUnknownRole, role)
	}
}
