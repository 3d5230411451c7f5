package hgrpc

import (
	"context"
	"net"
	"testing"

	"banking-service/internal/handler/facade"
	"banking-service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

func newTestClient(t *testing.T) *BankingServiceClient {
	t.Helper()
	env := testutil.NewEnv(t)
	f := facade.New(env.Accounts, env.Ledger, env.Deposits, env.Sessions, zap.NewNop())

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(UnaryInterceptor(zap.NewNop())))
	RegisterBankingServiceServer(srv, NewBankingGRPCHandler(f, zap.NewNop()))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewBankingServiceClient(conn)
}

func call(t *testing.T, c *BankingServiceClient, op string, params map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	t.Helper()
	req, err := structpb.NewStruct(map[string]any{"operation": op, "params": params})
	require.NoError(t, err)
	return c.Dispatch(context.Background(), req, opts...)
}

func TestDispatchOverGRPC(t *testing.T) {
	c := newTestClient(t)

	_, err := call(t, c, "register", map[string]any{"username": "alice", "password": "pw", "account_type": "1"})
	require.NoError(t, err)

	out, err := call(t, c, "deposit", map[string]any{"username": "alice", "amount": 99.5})
	require.NoError(t, err)
	assert.Equal(t, "success", out.Fields["status"].GetStringValue())
	assert.Equal(t, 99.5, out.Fields["balance"].GetNumberValue())

	out, err = call(t, c, "transaction-history", map[string]any{"username": "alice"})
	require.NoError(t, err)
	txs := out.Fields["transactions"].GetListValue().GetValues()
	require.Len(t, txs, 1)
	assert.Equal(t, "Deposit", txs[0].GetStructValue().Fields["description"].GetStringValue())
}

func TestGRPCErrorCodes(t *testing.T) {
	c := newTestClient(t)
	_, err := call(t, c, "register", map[string]any{"username": "alice", "password": "pw", "account_type": "1"})
	require.NoError(t, err)

	var trailer metadata.MD
	_, err = call(t, c, "withdraw", map[string]any{"username": "alice", "amount": "10"}, grpc.Trailer(&trailer))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	assert.Equal(t, []string{"INSUFFICIENT_FUNDS"}, trailer.Get(ErrorKeyTrailer))

	_, err = call(t, c, "register", map[string]any{"username": "alice", "password": "pw", "account_type": "1"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = call(t, c, "balance", map[string]any{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = call(t, c, "balance", map[string]any{"username": "ghost"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	req, err := structpb.NewStruct(map[string]any{"params": map[string]any{}})
	require.NoError(t, err)
	_, err = c.Dispatch(context.Background(), req)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
