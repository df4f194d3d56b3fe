package transaction

import (
	"github.com/pkg/errors"
	"github.com/tr11/hiero-sdk-go/domain/entities"
	"github.com/tr11/hiero-sdk-go/infrastructure/wire"
	"google.golang.org/protobuf/encoding/protowire"
)

// Transfer is one leg of a crypto transfer: a debit when Amount is negative,
// a credit when positive. IsApproval marks a leg spent from an allowance
// rather than from the payer's own balance.
type Transfer struct {
	AccountID  entities.AccountID
	Amount     entities.Hbar
	IsApproval bool
}

// TransferData moves hbar between accounts. The legs must balance: the sum
// of all amounts is zero, debits funding credits exactly.
type TransferData struct {
	Transfers []Transfer
}

// NewTransfer starts a crypto transfer transaction.
func NewTransfer() *Transaction {
	return New(&TransferData{})
}

// AddTransfer appends one leg.
func (d *TransferData) AddTransfer(account entities.AccountID, amount entities.Hbar) *TransferData {
	d.Transfers = append(d.Transfers, Transfer{AccountID: account, Amount: amount})
	return d
}

// AddApprovedTransfer appends one leg spent from an allowance.
func (d *TransferData) AddApprovedTransfer(account entities.AccountID, amount entities.Hbar) *TransferData {
	d.Transfers = append(d.Transfers, Transfer{AccountID: account, Amount: amount, IsApproval: true})
	return d
}

func (d *TransferData) validate() error {
	if len(d.Transfers) == 0 {
		return errors.New("transfer has no legs")
	}
	var sum int64
	for _, t := range d.Transfers {
		sum += t.Amount.Tinybars()
	}
	if sum != 0 {
		return errors.Errorf("transfer legs do not balance: sum is %d tinybars", sum)
	}
	return nil
}

func (d *TransferData) fieldNumber() protowire.Number {
	return cryptoTransferField
}

// GrpcMethod implements Data.
func (d *TransferData) GrpcMethod() string {
	return "/proto.CryptoService/cryptoTransfer"
}

const (
	transferListField          = 1
	accountAmountsField        = 1
	accountAmountAccountField  = 1
	accountAmountAmountField   = 2
	accountAmountApprovalField = 3
)

func (d *TransferData) toWire(w *wire.Writer) {
	w.Message(transferListField, func(w *wire.Writer) {
		for _, t := range d.Transfers {
			leg := t
			w.Message(accountAmountsField, func(w *wire.Writer) {
				w.Message(accountAmountAccountField, leg.AccountID.ToWire)
				w.Sint64(accountAmountAmountField, leg.Amount.Tinybars())
				w.Bool(accountAmountApprovalField, leg.IsApproval)
			})
		}
	})
}

func transferDataFromWire(r *wire.Reader) (*TransferData, error) {
	d := &TransferData{}
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case transferListField:
			err = r.Message(func(r *wire.Reader) error {
				return d.transferListFromWire(r)
			})
		default:
			err = r.Skip()
		}
		if err != nil {
			return nil, err
		}
	}
	return d, r.Err()
}

func (d *TransferData) transferListFromWire(r *wire.Reader) error {
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case accountAmountsField:
			err = r.Message(func(r *wire.Reader) error {
				leg, legErr := accountAmountFromWire(r)
				d.Transfers = append(d.Transfers, leg)
				return legErr
			})
		default:
			err = r.Skip()
		}
		if err != nil {
			return err
		}
	}
	return r.Err()
}

func accountAmountFromWire(r *wire.Reader) (Transfer, error) {
	var leg Transfer
	for r.Next() {
		var err error
		switch r.FieldNumber() {
		case accountAmountAccountField:
			err = r.Message(func(r *wire.Reader) error {
				leg.AccountID, err = entities.AccountIDFromWire(r)
				return err
			})
		case accountAmountAmountField:
			var v int64
			if v, err = r.Sint64(); err == nil {
				leg.Amount = entities.HbarFromTinybars(v)
			}
		case accountAmountApprovalField:
			leg.IsApproval, err = r.Bool()
		default:
			err = r.Skip()
		}
		if err != nil {
			return Transfer{}, err
		}
	}
	return leg, r.Err()
}
