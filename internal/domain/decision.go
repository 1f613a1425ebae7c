package domain

import (
	"fmt"
	"strings"
	"time"
)

// Action is the proposed trade direction
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// ParseAction normalizes free-form action strings at the boundary
func ParseAction(s string) (Action, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return ActionBuy, nil
	case "SELL":
		return ActionSell, nil
	case "HOLD":
		return ActionHold, nil
	default:
		return "", fmt.Errorf("unknown action %q", s)
	}
}

// AssetClass categorizes instruments for schedule and freshness rules.
// Crypto is the only 24/7 class; everything else trades in sessions.
type AssetClass string

const (
	AssetCrypto    AssetClass = "crypto"
	AssetEquity    AssetClass = "equity"
	AssetForex     AssetClass = "forex"
	AssetCommodity AssetClass = "commodity"
)

// Is247 reports whether the class trades around the clock
func (c AssetClass) Is247() bool {
	return c == AssetCrypto
}

// ParseAssetClass normalizes free-form class strings at the boundary
func ParseAssetClass(s string) (AssetClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "crypto", "cryptocurrency":
		return AssetCrypto, nil
	case "equity", "stock":
		return AssetEquity, nil
	case "forex", "fx":
		return AssetForex, nil
	case "commodity":
		return AssetCommodity, nil
	default:
		return "", fmt.Errorf("unknown asset class %q", s)
	}
}

// ReplayMode selects live vs backtest evaluation semantics
type ReplayMode string

const (
	ModeLive     ReplayMode = "live"
	ModeBacktest ReplayMode = "backtest"
)

// MarketSnapshot carries the market state attached to a decision.
// DataTimestamp is the raw RFC3339 string from the upstream feed; parse
// failures are handled per replay mode in the temporal check.
type MarketSnapshot struct {
	IsOpen        bool   `json:"is_open"`
	Session       string `json:"session,omitempty"`
	DataTimestamp string `json:"data_timestamp,omitempty"`
}

// TradeDecision is a proposed trade awaiting risk validation
type TradeDecision struct {
	ID         string         `json:"id"`
	Action     Action         `json:"action"`
	Asset      string         `json:"asset"`
	AssetClass AssetClass     `json:"asset_class"`
	Venue      string         `json:"venue"`
	Volatility float64        `json:"volatility"` // fraction, e.g. 0.06 = 6%
	Confidence float64        `json:"confidence"` // canonical [0,1] after NormalizeConfidence
	Market     MarketSnapshot `json:"market"`
	Timestamp  time.Time      `json:"timestamp"`
}

// NormalizeConfidence folds the legacy 0-100 integer scale into the
// canonical [0,1] fraction. Upstream ensembles emit both scales; anything
// above 1 is treated as a percentage.
func NormalizeConfidence(raw float64) float64 {
	if raw > 1.0 {
		raw = raw / 100.0
	}
	if raw < 0 {
		return 0
	}
	if raw > 1.0 {
		return 1.0
	}
	return raw
}
