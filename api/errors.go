package api

import (
	"errors"
	"net/http"

	errorsmod "cosmossdk.io/errors"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/paw-chain/lpool/x/liquidity/types"
)

// httpStatus maps module and query errors onto HTTP status codes and stable error codes.
func httpStatus(err error) (int, string) {
	var verr *ValidationErrors
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "INVALID_REQUEST"
	case errorsmod.IsOf(err, types.ErrPoolNotFound, types.ErrNoPositionFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errorsmod.IsOf(err, types.ErrUnauthorized):
		return http.StatusForbidden, "FORBIDDEN"
	case errorsmod.IsOf(err, types.ErrAlreadyInitialized):
		return http.StatusConflict, "ALREADY_EXISTS"
	case errorsmod.IsOf(err,
		types.ErrInvalidAmount, types.ErrInvalidDenom, types.ErrInvalidAddress,
		types.ErrInvalidAssetOrdering, types.ErrInvalidFeeRate,
		sdkerrors.ErrInvalidCoins):
		return http.StatusBadRequest, "INVALID_REQUEST"
	case errorsmod.IsOf(err,
		types.ErrSlippageExceeded, types.ErrExcessiveInputRequired,
		types.ErrInsufficientShares, types.ErrInsufficientBalance,
		types.ErrInsufficientLiquidity, types.ErrOverflow,
		sdkerrors.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, "REJECTED"
	}

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.NotFound:
			return http.StatusNotFound, "NOT_FOUND"
		case codes.InvalidArgument:
			return http.StatusBadRequest, "INVALID_REQUEST"
		}
	}
	return http.StatusInternalServerError, "INTERNAL"
}

// abortWithError writes err as an ErrorResponse.
func abortWithError(c *gin.Context, err error) {
	code, kind := httpStatus(err)
	msg := err.Error()
	// query errors carry a gRPC code; module errors report Unknown
	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		msg = st.Message()
	}
	c.AbortWithStatusJSON(code, ErrorResponse{Error: msg, Code: kind})
}

func badRequest(c *gin.Context, msg string, err error) {
	resp := ErrorResponse{Error: msg, Code: "INVALID_REQUEST"}
	if err != nil {
		resp.Details = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}
