// Package facade turns an operation name and flat string parameters into a
// typed usecase call and a rendered result. Transport bindings (HTTP, gRPC)
// only move params in and results out.
package facade

import (
	"context"
	"sort"

	"banking-service/internal/usecase"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Metrics
var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banking_operations_total",
			Help: "Total number of dispatched banking operations",
		},
		[]string{"operation", "status"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "banking_operation_duration_seconds",
			Help:    "Duration of dispatched banking operations",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"operation"},
	)
)

// Result is the rendered payload of one operation. Values are JSON-friendly
// (strings, bools, numbers, nested maps and []any).
type Result map[string]any

// Reply pairs a result with its outcome class.
type Reply struct {
	Code   Code
	Result Result
}

type handlerFunc func(ctx context.Context, p Params) (Result, error)

type Facade struct {
	accounts *usecase.AccountUsecase
	ledger   *usecase.TransactionUsecase
	deposits *usecase.DepositUsecase
	sessions *usecase.SessionUsecase
	logger   *zap.Logger

	handlers map[string]handlerFunc
}

func New(
	accounts *usecase.AccountUsecase,
	ledger *usecase.TransactionUsecase,
	deposits *usecase.DepositUsecase,
	sessions *usecase.SessionUsecase,
	logger *zap.Logger,
) *Facade {
	f := &Facade{
		accounts: accounts,
		ledger:   ledger,
		deposits: deposits,
		sessions: sessions,
		logger:   logger,
	}
	f.handlers = map[string]handlerFunc{
		"register":            f.register,
		"login":               f.login,
		"logout":              f.logout,
		"session":             f.session,
		"deposit":             f.deposit,
		"withdraw":            f.withdraw,
		"transfer":            f.transfer,
		"create-deposit":      f.createDeposit,
		"withdraw-deposit":    f.withdrawDeposit,
		"balance":             f.balance,
		"get-deposits":        f.getDeposits,
		"get-deposit-details": f.getDepositDetails,
		"transaction-history": f.transactionHistory,
		"accounts":            f.listAccounts,
	}
	return f
}

// Operations lists the names Dispatch accepts.
func (f *Facade) Operations() []string {
	out := make([]string, 0, len(f.handlers))
	for name := range f.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Dispatch runs op. It never returns nil and never panics on bad input; every
// failure is reported through Reply.Code and a {status: "error"} result.
func (f *Facade) Dispatch(ctx context.Context, op string, params Params) *Reply {
	h, ok := f.handlers[op]
	if !ok {
		operationsTotal.WithLabelValues("unknown", "not_found").Inc()
		return &Reply{
			Code: CodeNotFound,
			Result: Result{
				"status":  "error",
				"error":   "UNKNOWN_OPERATION",
				"message": "unknown operation: " + op,
			},
		}
	}

	timer := prometheus.NewTimer(operationDuration.WithLabelValues(op))
	defer timer.ObserveDuration()

	res, err := h(ctx, params)
	if err != nil {
		code, key := classify(err)
		operationsTotal.WithLabelValues(op, code.String()).Inc()
		f.logFailure(op, params, code, err)
		return &Reply{
			Code: code,
			Result: Result{
				"status":  "error",
				"error":   key,
				"message": publicMessage(code, err),
			},
		}
	}

	operationsTotal.WithLabelValues(op, "success").Inc()
	if res == nil {
		res = Result{}
	}
	res["status"] = "success"
	return &Reply{Code: CodeOK, Result: res}
}

func (f *Facade) logFailure(op string, params Params, code Code, err error) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("username", params["username"]),
		zap.Error(err),
	}
	switch code {
	case CodeUnavailable, CodeInternal:
		f.logger.Error("operation failed", fields...)
	case CodeConflict:
		f.logger.Warn("operation gave up after conflicts", fields...)
	default:
		f.logger.Debug("operation rejected", fields...)
	}
}
