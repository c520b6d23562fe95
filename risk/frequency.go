package risk

import (
	"fmt"
	"time"
)

// CheckFrequency rate-limits admission: daily total, spacing between trades,
// per-symbol count, and a rolling one-minute window, violated in that order.
func CheckFrequency(in Input, lim Limits) Decision {
	f := lim.Frequency
	ds := in.Daily

	if f.MaxTradesPerDay > 0 && ds.TotalTrades >= f.MaxTradesPerDay {
		return reject(RuleFrequency,
			fmt.Sprintf("daily trade limit reached: %d trades today, max %d", ds.TotalTrades, f.MaxTradesPerDay),
			ratio(float64(ds.TotalTrades), float64(f.MaxTradesPerDay)),
			map[string]any{"trades_today": ds.TotalTrades, "max_trades_per_day": f.MaxTradesPerDay})
	}

	if f.MinTimeBetweenTrades > 0 && ds.HasTraded {
		elapsed := in.Now.Sub(ds.LastTrade).Seconds()
		min := float64(f.MinTimeBetweenTrades)
		if elapsed < min {
			score := min // elapsed can be zero
			if elapsed > 0 {
				score = min / elapsed
			}
			return reject(RuleFrequency,
				fmt.Sprintf("only %.1fs since last trade, minimum %.0fs", elapsed, min),
				score,
				map[string]any{"elapsed_seconds": elapsed, "min_time_between_trades": f.MinTimeBetweenTrades})
		}
	}

	if f.MaxTradesPerSymbol > 0 {
		if n := ds.SymbolCounts[in.Signal.Symbol]; n >= f.MaxTradesPerSymbol {
			return reject(RuleFrequency,
				fmt.Sprintf("symbol trade limit reached for %s: %d trades today, max %d", in.Signal.Symbol, n, f.MaxTradesPerSymbol),
				ratio(float64(n), float64(f.MaxTradesPerSymbol)),
				map[string]any{"symbol": in.Signal.Symbol, "symbol_trades": n, "max_trades_per_symbol": f.MaxTradesPerSymbol})
		}
	}

	if f.MaxTradesPerMinute > 0 {
		n := ds.TradesSince(in.Now.Add(-time.Minute))
		if n >= f.MaxTradesPerMinute {
			return reject(RuleFrequency,
				fmt.Sprintf("rate limit reached: %d trades in the last minute, max %d", n, f.MaxTradesPerMinute),
				ratio(float64(n), float64(f.MaxTradesPerMinute)),
				map[string]any{"trades_last_minute": n, "max_trades_per_minute": f.MaxTradesPerMinute})
		}
	}

	return pass(RuleFrequency,
		ratio(float64(ds.TotalTrades), float64(f.MaxTradesPerDay)),
		map[string]any{"trades_today": ds.TotalTrades})
}
