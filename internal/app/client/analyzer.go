package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
)

// AnalyzerClient asks the analysis service to explain a transaction's score.
type AnalyzerClient struct {
	*Client
}

func NewAnalyzerClient(c *Client) *AnalyzerClient {
	return &AnalyzerClient{Client: c}
}

type analysis struct {
	Reason string `json:"reason"`
}

// Explain returns a human readable reason for the transaction's risk.
func (c *AnalyzerClient) Explain(ctx context.Context, txn models.Transaction) (string, error) {
	var out analysis
	if err := c.do(withoutToken(ctx), http.MethodPost, "/analyze-transaction", nil, txn, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Reason), nil
}
