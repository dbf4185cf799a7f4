package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GetTokenSupply retrieves the total supply and decimals for an SPL mint.
func (c *HTTPClient) GetTokenSupply(ctx context.Context, mint string) (*TokenSupply, error) {
	params := []interface{}{mint}

	var result struct {
		Value *struct {
			Amount   string `json:"amount"`
			Decimals int    `json:"decimals"`
		} `json:"value"`
	}
	if err := c.call(ctx, "getTokenSupply", params, &result); err != nil {
		return nil, err
	}
	if result.Value == nil {
		return nil, nil
	}
	return &TokenSupply{Amount: result.Value.Amount, Decimals: result.Value.Decimals}, nil
}

// TokenSupply is the decimal-string supply of an SPL mint.
type TokenSupply struct {
	Amount   string
	Decimals int
}

// GetMintInfo retrieves mint/freeze authority state for an SPL mint using
// jsonParsed account decoding. Returns nil if the mint account is absent.
func (c *HTTPClient) GetMintInfo(ctx context.Context, mint string) (*MintInfo, error) {
	params := []interface{}{
		mint,
		map[string]interface{}{"encoding": "jsonParsed"},
	}

	var result struct {
		Value *struct {
			Data struct {
				Parsed struct {
					Info struct {
						MintAuthority   *string `json:"mintAuthority"`
						FreezeAuthority *string `json:"freezeAuthority"`
						Supply          string  `json:"supply"`
						Decimals        int     `json:"decimals"`
					} `json:"info"`
				} `json:"parsed"`
			} `json:"data"`
		} `json:"value"`
	}
	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return nil, err
	}
	if result.Value == nil {
		return nil, nil
	}
	info := result.Value.Data.Parsed.Info
	return &MintInfo{
		MintAuthorityRevoked:   info.MintAuthority == nil,
		FreezeAuthorityRevoked: info.FreezeAuthority == nil,
		Supply:                 info.Supply,
		Decimals:               info.Decimals,
	}, nil
}

// MintInfo is the parsed mint-authority state of an SPL mint.
type MintInfo struct {
	MintAuthorityRevoked   bool
	FreezeAuthorityRevoked bool
	Supply                 string
	Decimals               int
}

// GetLargestTokenAccounts retrieves the top-20 holder accounts for a mint.
func (c *HTTPClient) GetLargestTokenAccounts(ctx context.Context, mint string) ([]TokenAccountBalance, error) {
	params := []interface{}{mint}

	var result struct {
		Value []struct {
			Address string `json:"address"`
			Amount  string `json:"amount"`
		} `json:"value"`
	}
	if err := c.call(ctx, "getTokenLargestAccounts", params, &result); err != nil {
		return nil, err
	}

	out := make([]TokenAccountBalance, len(result.Value))
	for i, v := range result.Value {
		out[i] = TokenAccountBalance{Address: v.Address, Amount: v.Amount}
	}
	return out, nil
}

// TokenAccountBalance is one row of getTokenLargestAccounts.
type TokenAccountBalance struct {
	Address string
	Amount  string
}

// GetAccountOwner retrieves the owner recorded in a token account's parsed
// data, i.e. the wallet (or program-derived address) holding the tokens.
func (c *HTTPClient) GetAccountOwner(ctx context.Context, tokenAccount string) (string, error) {
	params := []interface{}{
		tokenAccount,
		map[string]interface{}{"encoding": "jsonParsed"},
	}

	var result struct {
		Value *struct {
			Data struct {
				Parsed struct {
					Info struct {
						Owner string `json:"owner"`
					} `json:"info"`
				} `json:"parsed"`
			} `json:"data"`
		} `json:"value"`
	}
	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return "", err
	}
	if result.Value == nil {
		return "", nil
	}
	return result.Value.Data.Parsed.Info.Owner, nil
}

// dasCall invokes a Digital Asset Standard RPC method (getAsset,
// getAssetsByCreator), which unlike the standard Solana RPC surface takes a
// single object parameter rather than a positional array. Retries with the
// same backoff as call, but reimplemented here since rpcRequest.Params is
// array-shaped.
func (c *HTTPClient) dasCall(ctx context.Context, method string, params map[string]interface{}, result interface{}) error {
	reqID := c.requestID.Add(1)
	body, err := json.Marshal(struct {
		JSONRPC string      `json:"jsonrpc"`
		ID      uint64      `json:"id"`
		Method  string      `json:"method"`
		Params  interface{} `json:"params"`
	}{"2.0", reqID, method, params})
	if err != nil {
		return fmt.Errorf("marshal das request: %w", err)
	}

	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create das request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("das http request: %w", err)
			continue
		}
		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("das read response: %w", err)
			continue
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("das rate limited (429)")
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("das unexpected status %d: %s", resp.StatusCode, string(respBody))
			continue
		}

		var rpcResp rpcResponse
		if err := json.Unmarshal(respBody, &rpcResp); err != nil {
			lastErr = fmt.Errorf("das unmarshal response: %w", err)
			continue
		}
		if rpcResp.Error != nil {
			return rpcResp.Error
		}
		if result != nil && rpcResp.Result != nil {
			if err := json.Unmarshal(rpcResp.Result, result); err != nil {
				return fmt.Errorf("das unmarshal result: %w", err)
			}
		}
		return nil
	}

	return fmt.Errorf("das max retries exceeded: %w", lastErr)
}

// GetAsset fetches DAS metadata for a single asset (mint), used when the
// mint's creation record is needed but the metadata provider did not carry it.
func (c *HTTPClient) GetAsset(ctx context.Context, assetID string) (*Asset, error) {
	var result struct {
		ID           string `json:"id"`
		CreatedAt    string `json:"created_at"`
		Creators     []struct {
			Address string `json:"address"`
		} `json:"creators"`
	}
	if err := c.dasCall(ctx, "getAsset", map[string]interface{}{"id": assetID}, &result); err != nil {
		return nil, err
	}
	asset := &Asset{ID: result.ID}
	if len(result.Creators) > 0 {
		asset.Creator = result.Creators[0].Address
	}
	return asset, nil
}

// GetAssetsByCreator lists assets minted by a creator wallet, used by the
// creator-history check to detect serial launchers.
func (c *HTTPClient) GetAssetsByCreator(ctx context.Context, creator string, limit int) ([]Asset, error) {
	var result struct {
		Items []struct {
			ID        string `json:"id"`
			CreatedAt string `json:"created_at"`
			Interface string `json:"interface"`
			TokenInfo *struct {
				Supply   float64 `json:"supply"`
				Decimals int     `json:"decimals"`
			} `json:"token_info"`
		} `json:"items"`
	}
	params := map[string]interface{}{
		"creatorAddress": creator,
		"onlyVerified":   false,
		"limit":          limit,
	}
	if err := c.dasCall(ctx, "getAssetsByCreator", params, &result); err != nil {
		return nil, err
	}
	out := make([]Asset, len(result.Items))
	for i, it := range result.Items {
		a := Asset{ID: it.ID, CreatedAt: it.CreatedAt, Interface: it.Interface}
		if it.TokenInfo != nil {
			a.Supply = it.TokenInfo.Supply
		}
		out[i] = a
	}
	return out, nil
}

// Asset is a minimal DAS asset projection.
type Asset struct {
	ID        string
	Creator   string
	CreatedAt string
	Interface string
	Supply    float64
}
