package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/paw-chain/lpool/x/liquidity/types"
)

type queryServer struct {
	Keeper
}

// NewQueryServerImpl returns an implementation of the liquidity QueryServer interface
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

// Pool queries a pool by ID
func (qs queryServer) Pool(goCtx context.Context, req *types.QueryPoolRequest) (*types.QueryPoolResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	pool, err := qs.GetPool(goCtx, req.PoolId)
	if err != nil {
		return nil, grpcError(err)
	}
	return &types.QueryPoolResponse{Pool: pool}, nil
}

// Reserves queries the current reserves of a pool
func (qs queryServer) Reserves(goCtx context.Context, req *types.QueryReservesRequest) (*types.QueryReservesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	reserveA, reserveB, err := qs.GetReserves(goCtx, req.PoolId)
	if err != nil {
		return nil, grpcError(err)
	}
	return &types.QueryReservesResponse{ReserveA: reserveA, ReserveB: reserveB}, nil
}

// Position queries a provider's position; the response carries no position when the
// provider holds no shares.
func (qs queryServer) Position(goCtx context.Context, req *types.QueryPositionRequest) (*types.QueryPositionResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	provider, err := sdk.AccAddressFromBech32(req.Provider)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid provider address: %v", err)
	}
	if _, err := qs.GetPool(goCtx, req.PoolId); err != nil {
		return nil, grpcError(err)
	}

	pos, found, err := qs.GetPosition(goCtx, req.PoolId, provider)
	if err != nil {
		return nil, grpcError(err)
	}
	if !found {
		return &types.QueryPositionResponse{}, nil
	}
	return &types.QueryPositionResponse{Position: &pos}, nil
}

// PendingFees queries the fees a provider could claim
func (qs queryServer) PendingFees(goCtx context.Context, req *types.QueryPendingFeesRequest) (*types.QueryPendingFeesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}
	provider, err := sdk.AccAddressFromBech32(req.Provider)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid provider address: %v", err)
	}

	pendingA, pendingB, err := qs.Keeper.PendingFees(goCtx, req.PoolId, provider)
	if err != nil {
		return nil, grpcError(err)
	}
	return &types.QueryPendingFeesResponse{PendingA: pendingA, PendingB: pendingB}, nil
}

// CollectedFees queries the lifetime fee totals of a pool
func (qs queryServer) CollectedFees(goCtx context.Context, req *types.QueryCollectedFeesRequest) (*types.QueryCollectedFeesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	feeA, feeB, err := qs.Keeper.CollectedFees(goCtx, req.PoolId)
	if err != nil {
		return nil, grpcError(err)
	}
	return &types.QueryCollectedFeesResponse{FeeA: feeA, FeeB: feeB}, nil
}

// QuoteSwap quotes the input needed for an exact-output swap
func (qs queryServer) QuoteSwap(goCtx context.Context, req *types.QueryQuoteSwapRequest) (*types.QueryQuoteSwapResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid request")
	}

	amountIn, fee, err := qs.QuoteSwapInput(goCtx, req.PoolId, req.BuyA, req.ExactAmountOut)
	if err != nil {
		return nil, grpcError(err)
	}
	return &types.QueryQuoteSwapResponse{AmountIn: amountIn, Fee: fee}, nil
}

// grpcError maps module errors onto gRPC status codes.
func grpcError(err error) error {
	switch {
	case errorsmod.IsOf(err, types.ErrPoolNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errorsmod.IsOf(err, types.ErrInvalidAmount, types.ErrInsufficientLiquidity):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
