// Package chain holds the block and transaction shapes handed to the engine.
package chain

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"github.com/tethys/tethyscore/kernel/engines/tsce/def"
	"github.com/tethys/tethyscore/lib/utils"
)

// Input groups of {key: value} records, see directive.Input.
type Input [][]map[string]string

// Signer is the user or one endorser of a transaction. Sig carries the
// signature itself; A and Z are the two halves of a GAMMA signature.
type Signer struct {
	Id  string `json:"id" cbor:"id"`
	Pk  string `json:"pk" cbor:"pk"`
	Sig string `json:"sig,omitempty" cbor:"sig,omitempty"`
	A   string `json:"a,omitempty" cbor:"a,omitempty"`
	Z   string `json:"z,omitempty" cbor:"z,omitempty"`
}

type TxBody struct {
	Cid      string `json:"cid" cbor:"cid"`
	Receiver string `json:"receiver" cbor:"receiver"`
	// 十进制字符串
	Fee   string `json:"fee" cbor:"fee"`
	Input Input  `json:"input" cbor:"input"`
}

type Transaction struct {
	TxId     string   `json:"txid" cbor:"txid"`
	Time     string   `json:"time" cbor:"time"`
	Body     TxBody   `json:"body" cbor:"body"`
	User     Signer   `json:"user" cbor:"user"`
	Endorser []Signer `json:"endorser" cbor:"endorser"`
}

// TimeSec is the transaction time in unix seconds, 0 when malformed.
func (t *Transaction) TimeSec() int64 {
	sec, err := strconv.ParseInt(utils.Trim(t.Time), 10, 64)
	if err != nil {
		return 0
	}
	return sec
}

// FeeAmount is the fee the user offers, 0 when malformed.
func (t *Transaction) FeeAmount() int64 {
	return utils.ParseInt(t.Body.Fee)
}

// CidParts splits kind::author::chain::world, nil unless all four are there.
func (t *Transaction) CidParts() []string {
	parts := strings.Split(t.Body.Cid, def.CidSeparator)
	if len(parts) < 4 {
		return nil
	}
	return parts
}

// EncodeTransaction returns base64(CBOR(tx)), the form carried in a block.
func EncodeTransaction(tx *Transaction) (string, error) {
	data, err := cbor.Marshal(tx)
	if err != nil {
		return "", errors.Wrap(err, "encode transaction")
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeTransaction is the inverse of EncodeTransaction.
func DecodeTransaction(s string) (*Transaction, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "decode transaction base64")
	}
	tx := &Transaction{}
	if err := cbor.Unmarshal(data, tx); err != nil {
		return nil, errors.Wrap(err, "decode transaction cbor")
	}
	return tx, nil
}
