package keeper

import (
	"math/big"
	"strconv"
	"sync"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/paw-chain/lpool/x/liquidity/types"
)

// LiquidityMetrics holds all Prometheus metrics for the liquidity module
type LiquidityMetrics struct {
	// Swap metrics
	SwapsTotal       *prometheus.CounterVec
	SwapVolume       *prometheus.CounterVec
	FeesDistributed  *prometheus.CounterVec
	FeesClaimed      *prometheus.CounterVec
	InvariantRejects *prometheus.CounterVec

	// Liquidity metrics
	LiquidityAdded   *prometheus.CounterVec
	LiquidityRemoved *prometheus.CounterVec
	PoolReserves     *prometheus.GaugeVec
	PoolShares       *prometheus.GaugeVec

	// Pool metrics
	PoolsTotal prometheus.Gauge
}

var (
	liquidityMetricsOnce sync.Once
	liquidityMetrics     *LiquidityMetrics
)

// NewLiquidityMetrics creates and registers liquidity metrics (singleton pattern)
func NewLiquidityMetrics() *LiquidityMetrics {
	liquidityMetricsOnce.Do(func() {
		liquidityMetrics = &LiquidityMetrics{
			SwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "lpool",
					Subsystem: types.ModuleName,
					Name:      "swaps_total",
					Help:      "Total number of swaps by outcome",
				},
				[]string{"pool_id", "denom_out", "status"},
			),
			SwapVolume: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "lpool",
					Subsystem: types.ModuleName,
					Name:      "swap_volume_total",
					Help:      "Total swap volume in base units",
				},
				[]string{"pool_id", "denom"},
			),
			FeesDistributed: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "lpool",
					Subsystem: types.ModuleName,
					Name:      "fees_distributed_total",
					Help:      "Total fees credited to the per-share accumulators",
				},
				[]string{"pool_id", "denom"},
			),
			FeesClaimed: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "lpool",
					Subsystem: types.ModuleName,
					Name:      "fees_claimed_total",
					Help:      "Total fees paid out to providers",
				},
				[]string{"pool_id", "denom"},
			),
			InvariantRejects: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "lpool",
					Subsystem: types.ModuleName,
					Name:      "invariant_rejections_total",
					Help:      "Swaps rejected by the post-trade invariant check",
				},
				[]string{"pool_id"},
			),
			LiquidityAdded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "lpool",
					Subsystem: types.ModuleName,
					Name:      "liquidity_added_total",
					Help:      "Total liquidity added to pools",
				},
				[]string{"pool_id", "denom"},
			),
			LiquidityRemoved: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "lpool",
					Subsystem: types.ModuleName,
					Name:      "liquidity_removed_total",
					Help:      "Total liquidity removed from pools",
				},
				[]string{"pool_id", "denom"},
			),
			PoolReserves: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "lpool",
					Subsystem: types.ModuleName,
					Name:      "pool_reserves",
					Help:      "Current pool reserves",
				},
				[]string{"pool_id", "denom"},
			),
			PoolShares: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "lpool",
					Subsystem: types.ModuleName,
					Name:      "pool_shares",
					Help:      "Outstanding liquidity shares per pool",
				},
				[]string{"pool_id"},
			),
			PoolsTotal: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "lpool",
					Subsystem: types.ModuleName,
					Name:      "pools_total",
					Help:      "Number of initialized pools",
				},
			),
		}
	})
	return liquidityMetrics
}

// observePool refreshes the reserve and share gauges after a committed mutation.
func (m *LiquidityMetrics) observePool(pool types.Pool) {
	if m == nil {
		return
	}
	id := strconv.FormatUint(pool.Id, 10)
	m.PoolReserves.WithLabelValues(id, pool.TokenA).Set(toFloat(pool.ReserveA))
	m.PoolReserves.WithLabelValues(id, pool.TokenB).Set(toFloat(pool.ReserveB))
	m.PoolShares.WithLabelValues(id).Set(toFloat(pool.TotalShares))
}

func toFloat(i math.Int) float64 {
	if i.IsNil() {
		return 0
	}
	f, _ := new(big.Float).SetInt(i.BigInt()).Float64()
	return f
}
