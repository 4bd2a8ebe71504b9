package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/paw-chain/lpool/x/liquidity/types"
)

// poolIDParam parses :pool_id, writing a 400 on failure.
func poolIDParam(c *gin.Context) (uint64, bool) {
	poolID, err := ParsePoolID(c.Param("pool_id"))
	if err != nil {
		badRequest(c, "Invalid pool ID", err)
		return 0, false
	}
	return poolID, true
}

// handleGetPools returns all liquidity pools
func (s *Server) handleGetPools(c *gin.Context) {
	pools, err := s.engine.Pools()
	if err != nil {
		abortWithError(c, err)
		return
	}
	if pools == nil {
		pools = []types.Pool{}
	}
	c.JSON(http.StatusOK, PoolsResponse{Pools: pools, Count: len(pools)})
}

// handleGetPool returns a specific pool
func (s *Server) handleGetPool(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}
	resp, err := s.engine.Queries().Pool(c.Request.Context(), &types.QueryPoolRequest{PoolId: poolID})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetReserves(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}
	resp, err := s.engine.Queries().Reserves(c.Request.Context(), &types.QueryReservesRequest{PoolId: poolID})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetCollectedFees(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}
	resp, err := s.engine.Queries().CollectedFees(c.Request.Context(), &types.QueryCollectedFeesRequest{PoolId: poolID})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleGetPosition returns a provider's position; the position field is absent when
// the provider holds no shares.
func (s *Server) handleGetPosition(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}
	resp, err := s.engine.Queries().Position(c.Request.Context(), &types.QueryPositionRequest{
		PoolId:   poolID,
		Provider: c.Param("address"),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetPendingFees(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}
	resp, err := s.engine.Queries().PendingFees(c.Request.Context(), &types.QueryPendingFeesRequest{
		PoolId:   poolID,
		Provider: c.Param("address"),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleGetQuote prices a swap. Exactly one of amount_out (input needed to buy it) or
// amount_in (output bought with it) must be given; buy_a picks the asset bought.
func (s *Server) handleGetQuote(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}

	buyA := false
	if raw := c.Query("buy_a"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "Invalid buy_a", err)
			return
		}
		buyA = v
	}

	rawOut, rawIn := c.Query("amount_out"), c.Query("amount_in")
	if (rawOut == "") == (rawIn == "") {
		badRequest(c, "Exactly one of amount_out or amount_in is required", nil)
		return
	}

	quote := QuoteResponse{PoolID: poolID, BuyA: buyA}
	if rawOut != "" {
		out, err := ParseAmount(rawOut, false)
		if err != nil {
			badRequest(c, "Invalid amount_out", err)
			return
		}
		resp, err := s.engine.Queries().QuoteSwap(c.Request.Context(), &types.QueryQuoteSwapRequest{
			PoolId:         poolID,
			BuyA:           buyA,
			ExactAmountOut: out,
		})
		if err != nil {
			abortWithError(c, err)
			return
		}
		quote.AmountIn, quote.AmountOut, quote.Fee = resp.AmountIn, out, resp.Fee
	} else {
		in, err := ParseAmount(rawIn, false)
		if err != nil {
			badRequest(c, "Invalid amount_in", err)
			return
		}
		out, fee, err := s.engine.QuoteSwapOutput(poolID, !buyA, in)
		if err != nil {
			abortWithError(c, err)
			return
		}
		quote.AmountIn, quote.AmountOut, quote.Fee = in, out, fee
	}

	c.JSON(http.StatusOK, quote)
}

func (s *Server) handleGetBalances(c *gin.Context) {
	addr, err := ValidateAddress(c.Param("address"))
	if err != nil {
		badRequest(c, "Invalid address", err)
		return
	}
	c.JSON(http.StatusOK, BalancesResponse{
		Address:  addr.String(),
		Balances: s.engine.Balances(addr),
	})
}
