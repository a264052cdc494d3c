package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The backend binds amounts to doubles; send numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Transaction statuses written by the backend or by analysts.
const (
	StatusApproved    = "APPROVED"
	StatusFlagged     = "FLAGGED"
	StatusBlocked     = "BLOCKED"
	StatusFraud       = "FRAUD"
	StatusLegitimate  = "LEGITIMATE"
	StatusUnderReview = "UNDER_REVIEW"
)

// ReviewStatuses are the values an analyst may set from the detail view.
var ReviewStatuses = []string{StatusLegitimate, StatusFraud, StatusUnderReview}

// ID is an opaque backend identifier. The backend has served both numeric
// and UUID ids, so both JSON numbers and strings decode into it.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes canonical integers as JSON numbers. Anything else,
// including "007" or "+5", stays a string so it round-trips unchanged.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string { return string(id) }

// Timestamp accepts the backend's zone-less LocalDateTime as well as RFC 3339.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// Transaction is a read-only projection of a backend record.
type Transaction struct {
	ID            ID              `json:"id"`
	TransactionID string          `json:"transactionId,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type,omitempty"`
	Category      string          `json:"category,omitempty"`
	Description   string          `json:"description,omitempty"`
	Merchant      string          `json:"merchant,omitempty"`
	Channel       string          `json:"channel,omitempty"`
	CCNumber      string          `json:"ccNumber,omitempty"`
	Latitude      *float64        `json:"latitude,omitempty"`
	Longitude     *float64        `json:"longitude,omitempty"`
	RiskScore     *float64        `json:"riskScore,omitempty"`
	FraudScore    *float64        `json:"fraudScore,omitempty"`
	RiskLevel     string          `json:"riskLevel,omitempty"`
	Status        string          `json:"status,omitempty"`
	Timestamp     Timestamp       `json:"timestamp"`
}

// Score is the risk score in [0,1]. Records that only carry the legacy
// 0-100 fraud score are scaled down.
func (t Transaction) Score() float64 {
	switch {
	case t.RiskScore != nil:
		return ClampScore(*t.RiskScore)
	case t.FraudScore != nil:
		return ClampScore(*t.FraudScore / 100)
	default:
		return 0
	}
}

// Level is always derived from the score; the stored label is ignored.
func (t Transaction) Level() RiskLevel {
	return RiskLevelFor(t.Score())
}

// Reference is the human-facing identifier.
func (t Transaction) Reference() string {
	if t.TransactionID != "" {
		return t.TransactionID
	}
	return t.ID.String()
}

func (t Transaction) HasLocation() bool {
	return t.Latitude != nil && t.Longitude != nil
}

// TransactionStats mirrors GET /api/transactions/stats.
type TransactionStats struct {
	Total      int64 `json:"total"`
	LowRisk    int64 `json:"lowRisk"`
	MediumRisk int64 `json:"mediumRisk"`
	HighRisk   int64 `json:"highRisk"`
	Critical   int64 `json:"critical"`
	Flagged    int64 `json:"flagged"`
	Blocked    int64 `json:"blocked"`
}

// LatestTransactions returns a copy sorted newest first and capped at limit.
// A non-positive limit keeps everything.
func LatestTransactions(txns []Transaction, limit int) []Transaction {
	out := slices.Clone(txns)
	slices.SortStableFunc(out, func(a, b Transaction) int {
		return b.Timestamp.Compare(a.Timestamp.Time)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FraudCheckRequest is the POS simulator payload for
// POST /api/transactions/fraud-check.
type FraudCheckRequest struct {
	CCNumber  string          `json:"cc_number"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	Channel   string          `json:"channel,omitempty"`
	Merchant  string          `json:"merchant,omitempty"`
	DeviceID  string          `json:"device_id,omitempty"`
}
