// Package mint is a client for the Mint transaction API. It fetches
// ledger entries and pushes itemizations back.
package mint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/ledger"
)

const dateFormat = "2006-01-02"

// Client talks to the Mint transaction API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialProvider
	logger     *slog.Logger
}

// New creates a Mint client. Transient HTTP failures are retried with
// backoff; auth failures go through the credential provider once.
func New(baseURL string, creds CredentialProvider, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: retryClient.StandardClient(),
		creds:      creds,
		logger:     logger.With(slog.String("system", "mint")),
	}
}

// GetTransactions fetches ledger entries dated on or after since.
// Unsplit entries are given a single synthetic child carrying the
// entry's own description and amount.
func (c *Client) GetTransactions(ctx context.Context, since time.Time) ([]*ledger.Transaction, error) {
	endpoint := fmt.Sprintf("%s/api/v1/transactions?since=%s",
		c.baseURL, url.QueryEscape(since.Format(dateFormat)))

	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var resp transactionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}

	txns := make([]*ledger.Transaction, 0, len(resp.Transactions))
	for _, dto := range resp.Transactions {
		tx, err := mapTransaction(dto)
		if err != nil {
			c.logger.Warn("skipping malformed transaction",
				slog.String("id", dto.ID), slog.String("error", err.Error()))
			continue
		}
		txns = append(txns, tx)
	}

	c.logger.Debug("fetched transactions", slog.Int("count", len(txns)))
	return txns, nil
}

// UpdateTransaction pushes a joined record back to the ledger. A
// single-item record only relabels the entry; a multi-item record
// replaces its itemization. Child amounts are negated for positive
// (refund) entries, which the API stores debit-signed.
func (c *Client) UpdateTransaction(ctx context.Context, record *ledger.JoinedRecord) error {
	var req updateRequest
	if len(record.Items) == 1 {
		req.Description = record.Items[0].Description
	} else {
		children := make([]childDTO, 0, len(record.Items))
		for _, item := range record.Items {
			amount := item.Amount
			if record.Amount > 0 {
				amount = -amount
			}
			children = append(children, childDTO{
				Description: item.Description,
				Amount:      amount,
			})
		}
		req.Children = children
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal update: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/v1/transactions/%s",
		c.baseURL, url.PathEscape(record.TransactionID))

	if _, err := c.do(ctx, http.MethodPatch, endpoint, payload); err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", record.TransactionID, err)
	}

	c.logger.Debug("updated transaction",
		slog.String("id", record.TransactionID),
		slog.Int("items", len(record.Items)))
	return nil
}

// do issues a request with current credentials. On a 401 it refreshes
// credentials and retries once.
func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	creds, err := c.creds.Credentials(ctx)
	if err != nil {
		return nil, err
	}

	body, status, err := c.send(ctx, method, endpoint, payload, creds)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		c.logger.Info("credentials rejected, refreshing")
		creds, err = c.creds.Refresh(ctx)
		if err != nil {
			return nil, fmt.Errorf("credential refresh failed: %w", err)
		}
		body, status, err = c.send(ctx, method, endpoint, payload, creds)
		if err != nil {
			return nil, err
		}
	}

	if status < 200 || status >= 300 {
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("api error (status %d): %s", status, apiErr.Error)
		}
		return nil, fmt.Errorf("unexpected status %d", status)
	}

	return body, nil
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload []byte, creds *Credentials) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+creds.APIToken)
	if creds.Cookie != "" {
		req.Header.Set("Cookie", creds.Cookie)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func mapTransaction(dto transactionDTO) (*ledger.Transaction, error) {
	date, err := time.Parse(dateFormat, dto.Date)
	if err != nil {
		return nil, fmt.Errorf("bad date %q: %w", dto.Date, err)
	}

	tx := &ledger.Transaction{
		ID:     dto.ID,
		Amount: dto.Amount,
		Date:   date,
	}

	if len(dto.Children) > 0 {
		tx.Children = make([]ledger.Child, 0, len(dto.Children))
		for _, child := range dto.Children {
			tx.Children = append(tx.Children, ledger.Child{
				Description: child.Description,
				Amount:      child.Amount,
			})
		}
	} else {
		tx.Children = []ledger.Child{{Description: dto.Description, Amount: dto.Amount}}
	}

	return tx, nil
}
