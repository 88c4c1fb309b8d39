// Package clients contains thin wrappers around the upstream services the
// monitor talks to: the Substrate node RPC and the Subscan web API.
package clients

import (
	"math/big"

	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/pkg/errors"
	subkey "github.com/vedhavyas/go-subkey/v2"
)

// SubstrateClient queries account state over the node RPC endpoint.
type SubstrateClient struct {
	api  *gsrpc.SubstrateAPI
	meta *types.Metadata
}

// NewSubstrateClient connects to the node at url (ws:// or wss://).
func NewSubstrateClient(url string) (*SubstrateClient, error) {
	api, err := gsrpc.NewSubstrateAPI(url)
	if err != nil {
		return nil, errors.Wrapf(err, "connect to node %s", url)
	}

	meta, err := api.RPC.State.GetMetadataLatest()
	if err != nil {
		return nil, errors.Wrap(err, "fetch chain metadata")
	}

	return &SubstrateClient{api: api, meta: meta}, nil
}

// TotalBalance returns free+reserved in base units at the latest state.
// An account the chain has never seen reports a zero balance.
func (c *SubstrateClient) TotalBalance(address string) (*big.Int, error) {
	key, err := c.accountKey(address)
	if err != nil {
		return nil, err
	}

	var info types.AccountInfo
	ok, err := c.api.RPC.State.GetStorageLatest(key, &info)
	if err != nil {
		return nil, errors.Wrapf(err, "query account %s", address)
	}
	if !ok {
		return big.NewInt(0), nil
	}

	return new(big.Int).Add(info.Data.Free.Int, info.Data.Reserved.Int), nil
}

// TotalBalanceAt returns free+reserved in base units as of the given block.
func (c *SubstrateClient) TotalBalanceAt(address string, block uint64) (*big.Int, error) {
	key, err := c.accountKey(address)
	if err != nil {
		return nil, err
	}

	hash, err := c.api.RPC.Chain.GetBlockHash(block)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve hash of block %d", block)
	}

	var info types.AccountInfo
	ok, err := c.api.RPC.State.GetStorage(key, &info, hash)
	if err != nil {
		return nil, errors.Wrapf(err, "query account %s at block %d", address, block)
	}
	if !ok {
		return big.NewInt(0), nil
	}

	return new(big.Int).Add(info.Data.Free.Int, info.Data.Reserved.Int), nil
}

// TokenDecimals reads the token decimal exponent from chain properties.
func (c *SubstrateClient) TokenDecimals() (int32, error) {
	props, err := c.api.RPC.System.Properties()
	if err != nil {
		return 0, errors.Wrap(err, "fetch chain properties")
	}

	return int32(props.AsTokenDecimals), nil
}

func (c *SubstrateClient) accountKey(address string) (types.StorageKey, error) {
	_, pub, err := subkey.SS58Decode(address)
	if err != nil {
		return nil, errors.Wrapf(err, "decode address %s", address)
	}

	key, err := types.CreateStorageKey(c.meta, "System", "Account", pub)
	if err != nil {
		return nil, errors.Wrapf(err, "build storage key for %s", address)
	}

	return key, nil
}
