package api

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	api := s.router.Group("/api")
	{
		pools := api.Group("/pools")
		{
			pools.GET("", s.handleGetPools)
			pools.GET("/:pool_id", s.handleGetPool)
			pools.GET("/:pool_id/reserves", s.handleGetReserves)
			pools.GET("/:pool_id/fees", s.handleGetCollectedFees)
			pools.GET("/:pool_id/quote", s.handleGetQuote)
			pools.GET("/:pool_id/positions/:address", s.handleGetPosition)
			pools.GET("/:pool_id/positions/:address/pending-fees", s.handleGetPendingFees)

			poolsProtected := pools.Group("")
			poolsProtected.Use(s.AuthMiddleware())
			{
				poolsProtected.POST("", s.handleInitializePool)
				poolsProtected.POST("/:pool_id/liquidity", s.handleAddLiquidity)
				poolsProtected.POST("/:pool_id/withdraw", s.handleRemoveLiquidity)
				poolsProtected.POST("/:pool_id/swap", s.handleSwap)
				poolsProtected.POST("/:pool_id/claim", s.handleClaimFees)
				poolsProtected.POST("/:pool_id/fees", s.handleDistributeFee)
			}
		}

		api.GET("/accounts/:address/balances", s.handleGetBalances)
	}
}
