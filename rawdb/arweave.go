package rawdb

import (
	"github.com/everFinance/dynft/schema"
	"github.com/everFinance/goar"
	"github.com/everFinance/goar/types"
)

const ArweaveType = "arweave"

// ArweaveDB stores payloads as plain arweave data transactions; the content
// handle is the tx id. Reads go through the configured gateway node, so a
// freshly stored blob may not be retrievable until the tx is seeded.
type ArweaveDB struct {
	wallet *goar.Wallet
	client *goar.Client
}

func NewArweaveDB(walletKeyPath, arNode string) (*ArweaveDB, error) {
	wallet, err := goar.NewWalletFromPath(walletKeyPath, arNode)
	if err != nil {
		return nil, err
	}
	log.Info("run with arweave blob store", "node", arNode)
	return &ArweaveDB{
		wallet: wallet,
		client: wallet.Client,
	}, nil
}

func (a *ArweaveDB) Type() string {
	return ArweaveType
}

func (a *ArweaveDB) Put(data []byte) (handle string, err error) {
	if len(data) == 0 {
		return "", schema.ErrNullData
	}
	tx, err := a.wallet.SendData(data, []types.Tag{
		{Name: "App-Name", Value: "dynft"},
		{Name: "Content-Type", Value: "application/json"},
	})
	if err != nil {
		return "", err
	}
	return tx.ID, nil
}

func (a *ArweaveDB) Get(handle string) (data []byte, err error) {
	data, err = a.client.GetTransactionData(handle)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, schema.ErrNotExist
	}
	return data, nil
}

func (a *ArweaveDB) Exist(handle string) bool {
	_, err := a.client.GetTransactionStatus(handle)
	return err == nil
}

func (a *ArweaveDB) Close() (err error) {
	return
}
