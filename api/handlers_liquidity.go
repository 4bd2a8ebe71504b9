package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paw-chain/lpool/x/liquidity/types"
)

// callerAddress returns the authenticated address, writing a 401 when absent.
func callerAddress(c *gin.Context) (string, bool) {
	address, err := GetAddressFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
			Error: err.Error(),
			Code:  "UNAUTHENTICATED",
		})
		return "", false
	}
	return address, true
}

// handleInitializePool creates a pool; only the engine authority's token may do so.
func (s *Server) handleInitializePool(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	var req InitializePoolRequest
	if err := ValidateAndBindJSON(c, &req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	resp, err := s.engine.InitializePool(&types.MsgInitializePool{
		Authority: caller,
		TokenA:    req.TokenA,
		TokenB:    req.TokenB,
		FeeRate:   req.FeeRate,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	s.logger.Info("pool initialized", "pool_id", resp.PoolId, "token_a", req.TokenA, "token_b", req.TokenB)
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleAddLiquidity(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}
	var req AddLiquidityRequest
	if err := ValidateAndBindJSON(c, &req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}
	msg, err := ValidateAddLiquidityRequest(caller, poolID, &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp, err := s.engine.AddLiquidity(msg)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRemoveLiquidity(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}
	var req RemoveLiquidityRequest
	if err := ValidateAndBindJSON(c, &req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}
	msg, all, err := ValidateRemoveLiquidityRequest(caller, poolID, &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	remove := s.engine.RemoveLiquidity
	if all {
		remove = s.engine.RemoveAllLiquidity
	}
	resp, err := remove(msg)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSwap(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}
	var req SwapRequest
	if err := ValidateAndBindJSON(c, &req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}
	msg, err := ValidateSwapRequest(caller, poolID, &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp, err := s.engine.Swap(msg)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleClaimFees(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}

	resp, err := s.engine.ClaimFees(&types.MsgClaimFees{Provider: caller, PoolId: poolID})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleDistributeFee donates tokens from the caller to the pool's providers.
func (s *Server) handleDistributeFee(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}
	var req DistributeFeeRequest
	if err := ValidateAndBindJSON(c, &req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}
	amount, err := ParseAmount(req.Amount, false)
	if err != nil {
		badRequest(c, "Invalid amount", err)
		return
	}
	sender, err := ValidateAddress(caller)
	if err != nil {
		abortWithError(c, types.ErrInvalidAddress.Wrap(err.Error()))
		return
	}

	if err := s.engine.DistributeFee(sender, poolID, req.Denom, amount); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, DistributeFeeResponse{PoolID: poolID, Denom: req.Denom, Amount: amount})
}
