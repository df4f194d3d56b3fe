package query

import (
	"github.com/tr11/hiero-sdk-go/domain/entities"
	"github.com/tr11/hiero-sdk-go/infrastructure/wire"
)

// BalanceQuery reads an account's current hbar balance. Balance reads are
// free and answered from the serving node's latest signed state.
type BalanceQuery struct {
	queryBase
	AccountID entities.AccountID
}

// NewBalanceQuery builds a balance probe for one account.
func NewBalanceQuery(account entities.AccountID) *BalanceQuery {
	return &BalanceQuery{AccountID: account}
}

// GrpcMethod returns the full gRPC method serving balance reads.
func (q *BalanceQuery) GrpcMethod() string {
	return "/proto.CryptoService/cryptoGetBalance"
}

const (
	balanceQueryAccountField    = 2
	balanceResponseAccountField = 2
	balanceResponseBalanceField = 3
)

// RequestFor returns the serialized query, identical for every node.
func (q *BalanceQuery) RequestFor(entities.AccountID) ([]byte, error) {
	return wrapQuery(queryBalanceField, func(w *wire.Writer) {
		w.Message(balanceQueryAccountField, q.AccountID.ToWire)
	}), nil
}

// PrecheckStatus extracts the node-local precheck status from a raw
// response.
func (q *BalanceQuery) PrecheckStatus(response []byte) (entities.Status, error) {
	status, _, err := unwrapResponse(response, queryBalanceField, nil)
	return status, err
}

// BalanceFromResponse extracts the account balance from a raw response.
func BalanceFromResponse(response []byte) (entities.Hbar, error) {
	var balance entities.Hbar
	_, _, err := unwrapResponse(response, queryBalanceField, func(r *wire.Reader) error {
		switch r.FieldNumber() {
		case balanceResponseBalanceField:
			v, balanceErr := r.Uint64()
			balance = entities.HbarFromTinybars(int64(v))
			return balanceErr
		default:
			return r.Skip()
		}
	})
	return balance, err
}
