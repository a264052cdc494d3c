package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
)

// TransactionsClient talks to /api/transactions.
type TransactionsClient struct {
	*Client
}

func NewTransactionsClient(c *Client) *TransactionsClient {
	return &TransactionsClient{Client: c}
}

func transactionPath(id models.ID) string {
	return "/api/transactions/" + url.PathEscape(id.String())
}

func (c *TransactionsClient) List(ctx context.Context) ([]models.Transaction, error) {
	var out []models.Transaction
	if err := c.do(ctx, http.MethodGet, "/api/transactions", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TransactionsClient) Get(ctx context.Context, id models.ID) (*models.Transaction, error) {
	var out models.Transaction
	if err := c.do(ctx, http.MethodGet, transactionPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HighRisk lists transactions the backend considers high risk.
func (c *TransactionsClient) HighRisk(ctx context.Context) ([]models.Transaction, error) {
	var out []models.Transaction
	if err := c.do(ctx, http.MethodGet, "/api/transactions/high-risk", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TransactionsClient) Stats(ctx context.Context) (*models.TransactionStats, error) {
	var out models.TransactionStats
	if err := c.do(ctx, http.MethodGet, "/api/transactions/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TransactionsClient) Create(ctx context.Context, txn models.Transaction) (*models.Transaction, error) {
	var out models.Transaction
	if err := c.do(ctx, http.MethodPost, "/api/transactions", nil, txn, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStatus sets the review status. The status travels as a query
// parameter, not in the body.
func (c *TransactionsClient) UpdateStatus(ctx context.Context, id models.ID, status string) (*models.Transaction, error) {
	var out models.Transaction
	q := url.Values{"status": {status}}
	if err := c.do(ctx, http.MethodPatch, transactionPath(id)+"/status", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TransactionsClient) Delete(ctx context.Context, id models.ID) error {
	return c.do(ctx, http.MethodDelete, transactionPath(id), nil, nil, nil)
}

// FraudCheck submits a POS transaction for scoring and returns the stored
// record including its risk score and status.
func (c *TransactionsClient) FraudCheck(ctx context.Context, req models.FraudCheckRequest) (*models.Transaction, error) {
	var out models.Transaction
	if err := c.do(ctx, http.MethodPost, "/api/transactions/fraud-check", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
