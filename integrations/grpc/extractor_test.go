package grpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMetadataTokenExtractor(t *testing.T) {
	testCases := []struct {
		name      string
		ctx       context.Context
		wantToken string
		wantErr   error
	}{
		{name: "no metadata", ctx: context.Background()},
		{name: "empty metadata", ctx: incoming()},
		{name: "bearer", ctx: incoming("authorization", "Bearer abc"), wantToken: "abc"},
		{name: "lowercase scheme", ctx: incoming("authorization", "bearer abc"), wantToken: "abc"},
		{name: "access token", ctx: incoming("access_token", "abc"), wantToken: "abc"},
		{name: "blank authorization falls back", ctx: incoming("authorization", " ", "access_token", "abc"), wantToken: "abc"},
		{name: "authorization wins", ctx: incoming("authorization", "Bearer abc", "access_token", "def"), wantToken: "abc"},
		{name: "empty access token", ctx: incoming("access_token", ""), wantErr: ErrEmptyToken},
		{name: "basic scheme", ctx: incoming("authorization", "Basic abc"), wantErr: ErrInvalidAuthFormat},
		{name: "missing token", ctx: incoming("authorization", "Bearer"), wantErr: ErrInvalidAuthFormat},
		{name: "multiple entries", ctx: incoming("authorization", "Bearer a", "authorization", "Bearer b"), wantErr: ErrMultipleAuthHeaders},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			token, err := MetadataTokenExtractor(testCase.ctx)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.wantToken, token)
		})
	}
}

func TestDefaultErrorHandler(t *testing.T) {
	assert.NoError(t, DefaultErrorHandler(nil))

	err := DefaultErrorHandler(ErrInvalidAuthFormat)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.NotContains(t, err.Error(), "Bearer")
}
