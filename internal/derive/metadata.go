package derive

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"chainlens/internal/abicodec"
	"chainlens/internal/events"
	"chainlens/internal/model"
	"chainlens/internal/querysvc"
)

// TokenMetadata probes a token's name, symbol, decimals, and total
// supply with four parallel queries over a single-block window at the
// archive height. Each probe decodes its raw return payload manually;
// a failed probe leaves its field at the documented default without
// failing the others or the call.
func (s *Service) TokenMetadata(ctx context.Context, chainID uint64, token string) (model.TokenMetadata, error) {
	sess, err := s.ensure(chainID)
	if err != nil {
		return model.TokenMetadata{}, err
	}
	tokenAddr, err := parseWallet(token)
	if err != nil {
		return model.TokenMetadata{}, err
	}

	height, err := sess.client.Height(ctx)
	if err != nil {
		return model.TokenMetadata{}, fmt.Errorf("token metadata: %w", err)
	}

	meta := model.TokenMetadata{
		Address:     tokenAddr.Hex(),
		Name:        model.DefaultTokenName,
		Symbol:      model.DefaultTokenSymbol,
		Decimals:    model.DefaultTokenDecimals,
		TotalSupply: "0",
	}

	probe := func(selector events.Selector, apply func([]byte) error) func() error {
		return func() error {
			payload, err := s.probeReturnData(ctx, sess, tokenAddr, selector, height)
			if err == nil && payload != nil {
				err = apply(payload)
			}
			if err != nil {
				s.logger.Debug("metadata probe fell back to default",
					zap.String("token", tokenAddr.Hex()),
					zap.String("selector", string(selector)),
					zap.Error(err),
				)
			}
			// Probe faults never fail the join; the field keeps its default.
			return nil
		}
	}

	// Plain group: a fault in one probe must not cancel the others.
	var group errgroup.Group

	group.Go(probe(events.SelectorName, func(payload []byte) error {
		name, err := abicodec.DecodeString(payload)
		if err != nil {
			return err
		}
		meta.Name = name
		return nil
	}))
	group.Go(probe(events.SelectorSymbol, func(payload []byte) error {
		symbol, err := abicodec.DecodeString(payload)
		if err != nil {
			return err
		}
		meta.Symbol = symbol
		return nil
	}))
	group.Go(probe(events.SelectorDecimals, func(payload []byte) error {
		decimals, err := abicodec.DecodeUint8(payload)
		if err != nil {
			return err
		}
		meta.Decimals = decimals
		return nil
	}))
	group.Go(probe(events.SelectorTotalSupply, func(payload []byte) error {
		supply, err := abicodec.DecodeUint256(payload)
		if err != nil {
			return err
		}
		meta.TotalSupply = supply.String()
		return nil
	}))

	_ = group.Wait()
	return meta, nil
}

// probeReturnData issues one introspection query and extracts the raw
// return payload bytes, or nil when no matching row carries output.
func (s *Service) probeReturnData(ctx context.Context, sess session, token common.Address, selector events.Selector, height uint64) ([]byte, error) {
	query := querysvc.MetadataCall(token, selector, height)
	resp, err := sess.client.Execute(ctx, query)
	if err != nil {
		return nil, err
	}
	for _, tx := range resp.Data.Transactions {
		if tx.Output == "" || tx.Output == "0x" {
			continue
		}
		return abicodec.FromHex(tx.Output)
	}
	return nil, fmt.Errorf("no return data for selector %s", selector)
}
