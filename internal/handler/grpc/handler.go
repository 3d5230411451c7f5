package hgrpc

import (
	"context"
	"encoding/json"
	"strconv"

	"banking-service/internal/handler/facade"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrorKeyTrailer carries the machine-readable error key on failed calls.
const ErrorKeyTrailer = "x-error-key"

type BankingGRPCHandler struct {
	facade *facade.Facade
	logger *zap.Logger
}

func NewBankingGRPCHandler(f *facade.Facade, logger *zap.Logger) *BankingGRPCHandler {
	return &BankingGRPCHandler{facade: f, logger: logger}
}

func (h *BankingGRPCHandler) Dispatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	op := fields["operation"].GetStringValue()
	if op == "" {
		return nil, status.Error(codes.InvalidArgument, "operation is required")
	}

	params := facade.Params{}
	for k, v := range fields["params"].GetStructValue().GetFields() {
		params[k] = stringify(v)
	}

	reply := h.facade.Dispatch(ctx, op, params)
	if reply.Code != facade.CodeOK {
		msg, _ := reply.Result["message"].(string)
		if key, ok := reply.Result["error"].(string); ok {
			_ = grpc.SetTrailer(ctx, metadata.Pairs(ErrorKeyTrailer, key))
		}
		return nil, status.Error(GRPCCode(reply.Code), msg)
	}

	out, err := toStruct(reply.Result)
	if err != nil {
		h.logger.Error("failed to encode reply", zap.String("op", op), zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to encode reply")
	}
	return out, nil
}

// GRPCCode maps an outcome class to a gRPC status code.
func GRPCCode(c facade.Code) codes.Code {
	switch c {
	case facade.CodeOK:
		return codes.OK
	case facade.CodeMalformed:
		return codes.InvalidArgument
	case facade.CodeNotFound:
		return codes.NotFound
	case facade.CodeAlreadyExists:
		return codes.AlreadyExists
	case facade.CodeRejected:
		return codes.FailedPrecondition
	case facade.CodeUnauthenticated:
		return codes.Unauthenticated
	case facade.CodeConflict:
		return codes.Aborted
	case facade.CodeUnavailable:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

func stringify(v *structpb.Value) string {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64)
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(k.BoolValue)
	default:
		return ""
	}
}

// toStruct goes through JSON so json.Number amounts become plain numbers.
func toStruct(r facade.Result) (*structpb.Struct, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}
