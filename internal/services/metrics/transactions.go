package metrics

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/piewatch/internal/common"
	"github.com/bobmcallan/piewatch/internal/models"
)

// TimestampFields are the upstream field names that may carry a transaction time, in lookup order.
var TimestampFields = []string{"dateTime", "date", "time", "timestamp", "createdAt"}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeTransactions converts raw history items into typed transactions.
// Items with an unparsable timestamp are kept with a zero Timestamp so the
// ledger can still see them.
func NormalizeTransactions(raw []models.RawTransaction) []models.Transaction {
	txs := make([]models.Transaction, 0, len(raw))
	for _, item := range raw {
		txs = append(txs, normalizeTransaction(item))
	}
	return txs
}

func normalizeTransaction(item models.RawTransaction) models.Transaction {
	tx := models.Transaction{
		Type:   stringField(item, "type"),
		Amount: common.ToSafeNumber(item["amount"]),
	}

	// Every field is tried; an empty or unparsable one does not stop the lookup.
	// With no parsable field the first non-empty raw value keeps the id stable.
	var fallbackRaw string
	for _, field := range TimestampFields {
		v, ok := item[field]
		if !ok || v == nil {
			continue
		}
		raw := rawString(v)
		if ts, ok := parseTimestampValue(v); ok {
			tx.Timestamp = ts
			tx.RawTimestamp = raw
			break
		}
		if fallbackRaw == "" && strings.TrimSpace(raw) != "" {
			fallbackRaw = raw
		}
	}
	if tx.RawTimestamp == "" {
		tx.RawTimestamp = fallbackRaw
	}

	tx.ID = stringField(item, "id")
	if tx.ID == "" {
		tx.ID = stringField(item, "reference")
	}
	if tx.ID == "" {
		tx.ID = tx.Type + "-" + tx.RawTimestamp
	}
	return tx
}

// ParseTimestamp parses the string forms the history endpoint has used.
// Values without a zone are read as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseTimestampValue also accepts epoch numbers, in milliseconds when large.
func parseTimestampValue(v interface{}) (time.Time, bool) {
	if s, ok := v.(string); ok {
		return ParseTimestamp(s)
	}
	n := common.ToSafeNumber(v)
	if n <= 0 {
		return time.Time{}, false
	}
	if n > 1e12 {
		return time.UnixMilli(int64(n)).UTC(), true
	}
	return time.Unix(int64(n), 0).UTC(), true
}

func stringField(item models.RawTransaction, key string) string {
	v, ok := item[key]
	if !ok || v == nil {
		return ""
	}
	return rawString(v)
}

func rawString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return ""
	}
}
