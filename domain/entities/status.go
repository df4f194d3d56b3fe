package entities

import "fmt"

// Status is a network response code: returned both as the node-local
// precheck result at submission time and as the consensus-confirmed
// terminal status inside a receipt. Values mirror the network's response
// code enumeration and are a fixed external contract.
type Status uint32

// The subset of network status codes the engine interprets. Codes the
// engine does not special-case still round-trip through Status unchanged.
const (
	StatusOK                            Status = 0
	StatusInvalidTransaction            Status = 1
	StatusPayerAccountNotFound          Status = 2
	StatusInvalidNodeAccount            Status = 3
	StatusTransactionExpired            Status = 4
	StatusInvalidTransactionStart       Status = 5
	StatusInvalidTransactionDuration    Status = 6
	StatusInvalidSignature              Status = 7
	StatusMemoTooLong                   Status = 8
	StatusInsufficientTxFee             Status = 9
	StatusInsufficientPayerBalance      Status = 10
	StatusDuplicateTransaction          Status = 11
	StatusBusy                          Status = 12
	StatusNotSupported                  Status = 13
	StatusInvalidAccountID              Status = 15
	StatusInvalidTransactionID          Status = 17
	StatusReceiptNotFound               Status = 18
	StatusRecordNotFound                Status = 19
	StatusUnknown                       Status = 21
	StatusSuccess                       Status = 22
	StatusFailInvalid                   Status = 23
	StatusFailFee                       Status = 24
	StatusFailBalance                   Status = 25
	StatusKeyRequired                   Status = 26
	StatusBadEncoding                   Status = 27
	StatusInsufficientAccountBalance    Status = 28
	StatusPlatformNotActive             Status = 67
	StatusPlatformTransactionNotCreated Status = 69
)

var statusNames = map[Status]string{
	StatusOK:                            "OK",
	StatusInvalidTransaction:            "INVALID_TRANSACTION",
	StatusPayerAccountNotFound:          "PAYER_ACCOUNT_NOT_FOUND",
	StatusInvalidNodeAccount:            "INVALID_NODE_ACCOUNT",
	StatusTransactionExpired:            "TRANSACTION_EXPIRED",
	StatusInvalidTransactionStart:       "INVALID_TRANSACTION_START",
	StatusInvalidTransactionDuration:    "INVALID_TRANSACTION_DURATION",
	StatusInvalidSignature:              "INVALID_SIGNATURE",
	StatusMemoTooLong:                   "MEMO_TOO_LONG",
	StatusInsufficientTxFee:             "INSUFFICIENT_TX_FEE",
	StatusInsufficientPayerBalance:      "INSUFFICIENT_PAYER_BALANCE",
	StatusDuplicateTransaction:          "DUPLICATE_TRANSACTION",
	StatusBusy:                          "BUSY",
	StatusNotSupported:                  "NOT_SUPPORTED",
	StatusInvalidAccountID:              "INVALID_ACCOUNT_ID",
	StatusInvalidTransactionID:          "INVALID_TRANSACTION_ID",
	StatusReceiptNotFound:               "RECEIPT_NOT_FOUND",
	StatusRecordNotFound:                "RECORD_NOT_FOUND",
	StatusUnknown:                       "UNKNOWN",
	StatusSuccess:                       "SUCCESS",
	StatusFailInvalid:                   "FAIL_INVALID",
	StatusFailFee:                       "FAIL_FEE",
	StatusFailBalance:                   "FAIL_BALANCE",
	StatusKeyRequired:                   "KEY_REQUIRED",
	StatusBadEncoding:                   "BAD_ENCODING",
	StatusInsufficientAccountBalance:    "INSUFFICIENT_ACCOUNT_BALANCE",
	StatusPlatformNotActive:             "PLATFORM_NOT_ACTIVE",
	StatusPlatformTransactionNotCreated: "PLATFORM_TRANSACTION_NOT_CREATED",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STATUS_%d", uint32(s))
}
