package keeper_test

import (
	"cosmossdk.io/math"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	keepertest "github.com/paw-chain/lpool/testutil/keeper"
	"github.com/paw-chain/lpool/x/liquidity/keeper"
	"github.com/paw-chain/lpool/x/liquidity/types"
)

func (s *KeeperTestSuite) TestMsgServerInitializePool() {
	ms := keeper.NewMsgServerImpl(s.keeper)

	_, err := ms.InitializePool(s.ctx, &types.MsgInitializePool{
		Authority: s.alice.String(),
		TokenA:    denomA,
		TokenB:    denomB,
		FeeRate:   30,
	})
	s.Require().ErrorIs(err, types.ErrUnauthorized)

	resp, err := ms.InitializePool(s.ctx, &types.MsgInitializePool{
		Authority: keepertest.Authority.String(),
		TokenA:    denomA,
		TokenB:    denomB,
		FeeRate:   30,
	})
	s.Require().NoError(err)
	s.Require().Equal(uint64(1), resp.PoolId)

	_, err = ms.InitializePool(s.ctx, &types.MsgInitializePool{
		Authority: keepertest.Authority.String(),
		TokenA:    denomB,
		TokenB:    denomA,
		FeeRate:   30,
	})
	s.Require().ErrorIs(err, types.ErrInvalidAssetOrdering)
}

func (s *KeeperTestSuite) TestMsgServerLifecycle() {
	ms := keeper.NewMsgServerImpl(s.keeper)
	poolResp, err := ms.InitializePool(s.ctx, &types.MsgInitializePool{
		Authority: keepertest.Authority.String(),
		TokenA:    denomA,
		TokenB:    denomB,
		FeeRate:   30,
	})
	s.Require().NoError(err)
	poolID := poolResp.PoolId

	s.fund(s.alice, 10000, 20000)
	addResp, err := ms.AddLiquidity(s.ctx, types.NewMsgAddLiquidity(s.alice.String(), poolID,
		math.NewInt(10000), math.ZeroInt(), math.NewInt(20000), math.ZeroInt()))
	s.Require().NoError(err)
	s.Require().Equal(int64(14142), addResp.Result.Shares.Int64())

	s.fund(s.bob, 1000, 0)
	swapResp, err := ms.Swap(s.ctx, types.NewMsgSwap(s.bob.String(), poolID, false, math.NewInt(1813), math.NewInt(1000)))
	s.Require().NoError(err)
	s.Require().Equal(int64(1000), swapResp.Result.AmountIn.Int64())

	claimResp, err := ms.ClaimFees(s.ctx, &types.MsgClaimFees{Provider: s.alice.String(), PoolId: poolID})
	s.Require().NoError(err)
	s.Require().True(claimResp.FeeA.LTE(math.NewInt(3)))

	removeResp, err := ms.RemoveLiquidity(s.ctx, types.NewMsgRemoveLiquidity(s.alice.String(), poolID,
		addResp.Result.Shares, math.ZeroInt(), math.ZeroInt()))
	s.Require().NoError(err)
	s.Require().Equal(int64(10997), removeResp.Result.AmountA.Int64())
	s.Require().Equal(int64(18187), removeResp.Result.AmountB.Int64())
	s.requireInvariants()
}

func (s *KeeperTestSuite) TestMsgServerRejectsInvalidMessages() {
	ms := keeper.NewMsgServerImpl(s.keeper)

	_, err := ms.AddLiquidity(s.ctx, types.NewMsgAddLiquidity("bad", 1,
		math.NewInt(1), math.ZeroInt(), math.NewInt(1), math.ZeroInt()))
	s.Require().ErrorIs(err, types.ErrInvalidAddress)

	_, err = ms.Swap(s.ctx, types.NewMsgSwap(s.bob.String(), 1, true, math.ZeroInt(), math.OneInt()))
	s.Require().ErrorIs(err, types.ErrInvalidAmount)

	_, err = ms.RemoveLiquidity(s.ctx, types.NewMsgRemoveLiquidity(s.bob.String(), 1,
		math.OneInt(), math.ZeroInt(), math.ZeroInt()))
	s.Require().ErrorIs(err, types.ErrPoolNotFound)

	_, err = ms.ClaimFees(s.ctx, &types.MsgClaimFees{Provider: s.bob.String()})
	s.Require().ErrorIs(err, types.ErrPoolNotFound)
}

func (s *KeeperTestSuite) TestQueryServer() {
	qs := keeper.NewQueryServerImpl(s.keeper)
	poolID := s.createPool(30, 10000, 20000)

	poolResp, err := qs.Pool(s.ctx, &types.QueryPoolRequest{PoolId: poolID})
	s.Require().NoError(err)
	s.Require().Equal(denomA, poolResp.Pool.TokenA)

	reserves, err := qs.Reserves(s.ctx, &types.QueryReservesRequest{PoolId: poolID})
	s.Require().NoError(err)
	s.Require().Equal(int64(10000), reserves.ReserveA.Int64())
	s.Require().Equal(int64(20000), reserves.ReserveB.Int64())

	posResp, err := qs.Position(s.ctx, &types.QueryPositionRequest{PoolId: poolID, Provider: s.alice.String()})
	s.Require().NoError(err)
	s.Require().NotNil(posResp.Position)
	s.Require().Equal(int64(14142), posResp.Position.Shares.Int64())

	posResp, err = qs.Position(s.ctx, &types.QueryPositionRequest{PoolId: poolID, Provider: s.bob.String()})
	s.Require().NoError(err)
	s.Require().Nil(posResp.Position)

	quote, err := qs.QuoteSwap(s.ctx, &types.QueryQuoteSwapRequest{PoolId: poolID, ExactAmountOut: math.NewInt(1813)})
	s.Require().NoError(err)
	s.Require().Equal(int64(1000), quote.AmountIn.Int64())
	s.Require().Equal(int64(3), quote.Fee.Int64())

	pending, err := qs.PendingFees(s.ctx, &types.QueryPendingFeesRequest{PoolId: poolID, Provider: s.alice.String()})
	s.Require().NoError(err)
	s.Require().True(pending.PendingA.IsZero())

	collected, err := qs.CollectedFees(s.ctx, &types.QueryCollectedFeesRequest{PoolId: poolID})
	s.Require().NoError(err)
	s.Require().True(collected.FeeA.IsZero())
}

func (s *KeeperTestSuite) TestQueryServerErrors() {
	qs := keeper.NewQueryServerImpl(s.keeper)
	poolID := s.createPool(30, 10000, 20000)

	_, err := qs.Pool(s.ctx, nil)
	s.Require().Equal(codes.InvalidArgument, status.Code(err))

	_, err = qs.Pool(s.ctx, &types.QueryPoolRequest{PoolId: 99})
	s.Require().Equal(codes.NotFound, status.Code(err))

	_, err = qs.Position(s.ctx, &types.QueryPositionRequest{PoolId: poolID, Provider: "nope"})
	s.Require().Equal(codes.InvalidArgument, status.Code(err))

	_, err = qs.QuoteSwap(s.ctx, &types.QueryQuoteSwapRequest{PoolId: poolID, ExactAmountOut: math.NewInt(20000)})
	s.Require().Equal(codes.InvalidArgument, status.Code(err))

	_, err = qs.QuoteSwap(s.ctx, &types.QueryQuoteSwapRequest{PoolId: poolID, ExactAmountOut: math.ZeroInt()})
	s.Require().Equal(codes.InvalidArgument, status.Code(err))

	_, err = qs.CollectedFees(s.ctx, &types.QueryCollectedFeesRequest{PoolId: 99})
	s.Require().Equal(codes.NotFound, status.Code(err))
}
