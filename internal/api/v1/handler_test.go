package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Behyna/cinefund/internal/api"
	v1 "github.com/Behyna/cinefund/internal/api/v1"
	"github.com/Behyna/cinefund/internal/api/validator"
	"github.com/Behyna/cinefund/internal/constants"
	middleware "github.com/Behyna/cinefund/internal/error"
	"github.com/Behyna/cinefund/internal/mocks"
	"github.com/Behyna/cinefund/internal/service"
	pkgmocks "github.com/Behyna/cinefund/pkg/mocks"
	playground "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const basePath = "/api/v1/funding/"

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

type handlerFixture struct {
	app         *fiber.App
	investments *mocks.InvestmentService
	returns     *mocks.ReturnsService
	publisher   *pkgmocks.Publisher
	pingErr     error
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	xValidator, err := validator.NewXValidator(playground.New(), nil)
	require.NoError(t, err)

	f := &handlerFixture{
		investments: new(mocks.InvestmentService),
		returns:     new(mocks.ReturnsService),
		publisher:   new(pkgmocks.Publisher),
	}

	logger := zap.NewNop()
	handler := v1.NewHandler(logger, f.investments, f.returns, f.publisher, xValidator)
	root := api.NewHandler(logger, pingerFunc(func(ctx context.Context) error { return f.pingErr }))

	f.app = fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logger)})
	api.SetupRoutes(f.app, root, handler, prometheus.NewRegistry())

	t.Cleanup(func() {
		f.investments.AssertExpectations(t)
		f.returns.AssertExpectations(t)
		f.publisher.AssertExpectations(t)
	})

	return f
}

func (f *handlerFixture) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	payload := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload), string(raw))
	}

	return resp.StatusCode, payload
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func result(t *testing.T, payload map[string]any) map[string]any {
	t.Helper()
	res, ok := payload["result"].(map[string]any)
	require.True(t, ok, "missing result in %v", payload)
	return res
}

func TestHandler_Invest(t *testing.T) {
	t.Run("creates a pending investment", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.investments.On("Create", mock.Anything, mock.MatchedBy(func(cmd service.CreateInvestmentCommand) bool {
			return cmd.UserID == 11 && cmd.MovieID == 7 && cmd.Amount.Equal(dec("1000.50")) &&
				cmd.Currency == "INR" && cmd.ExpectedReturnPercentage == nil
		})).Return(service.Investment{
			ID:            1,
			UserID:        11,
			MovieID:       7,
			Amount:        dec("1000.50"),
			TransactionID: "TXN_ABC",
			Status:        "PENDING",
		}, nil).Once()

		status, payload := f.do(t, http.MethodPost, basePath+"invest",
			`{"user_id":11,"movie_id":7,"amount":"1000.50","currency":"INR"}`)

		assert.Equal(t, http.StatusCreated, status)
		assert.Equal(t, true, payload["successful"])
		assert.Equal(t, constants.MsgInvestmentCreated, payload["message"])
		assert.Equal(t, "TXN_ABC", result(t, payload)["transaction_id"])
	})

	t.Run("rejects invalid fields", func(t *testing.T) {
		testCases := []struct {
			name  string
			body  string
			field string
		}{
			{name: "zero amount", body: `{"user_id":1,"movie_id":7,"amount":"0"}`, field: "amount"},
			{name: "three decimals", body: `{"user_id":1,"movie_id":7,"amount":"10.005"}`, field: "amount"},
			{name: "missing user", body: `{"movie_id":7,"amount":"10"}`, field: "user_id"},
			{name: "bad currency", body: `{"user_id":1,"movie_id":7,"amount":"10","currency":"RUPEE"}`, field: "currency"},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				f := newHandlerFixture(t)

				status, payload := f.do(t, http.MethodPost, basePath+"invest", tc.body)

				assert.Equal(t, http.StatusUnprocessableEntity, status)
				assert.Equal(t, constants.ErrCodeValidationFailed, payload["code"])
				assert.Contains(t, payload["message"], tc.field)
				f.investments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		f := newHandlerFixture(t)

		status, payload := f.do(t, http.MethodPost, basePath+"invest", `{"user_id":`)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, constants.ErrCodeInvalidRequestBody, payload["code"])
	})

	t.Run("maps service errors to status", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.investments.On("Create", mock.Anything, mock.Anything).Return(service.Investment{},
			service.NewServiceError(constants.ErrCodeMovieNotFundable, service.ErrMovieNotFundable)).Once()

		status, payload := f.do(t, http.MethodPost, basePath+"invest", `{"user_id":1,"movie_id":7,"amount":"10"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Equal(t, constants.ErrCodeMovieNotFundable, payload["code"])
		assert.Equal(t, false, payload["successful"])
	})
}

func TestHandler_ConfirmAndCancel(t *testing.T) {
	t.Run("confirm conflict on invalid state", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.investments.On("Confirm", mock.Anything, "TXN_1").Return(service.Investment{},
			service.NewServiceError(constants.ErrCodeInvalidState, service.ErrInvalidState)).Once()

		status, payload := f.do(t, http.MethodPut, basePath+"confirm/TXN_1", "")

		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, constants.ErrCodeInvalidState, payload["code"])
	})

	t.Run("cancel forwards the reason", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.investments.On("Cancel", mock.Anything, service.CancelInvestmentCommand{
			TransactionID: "TXN_2",
			Reason:        "changed mind",
		}).Return(service.Investment{TransactionID: "TXN_2", Status: "CANCELLED"}, nil).Once()

		status, payload := f.do(t, http.MethodPut, basePath+"cancel/TXN_2?reason=changed%20mind", "")

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "CANCELLED", result(t, payload)["status"])
	})

	t.Run("missing investment is not found", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.investments.On("Cancel", mock.Anything, mock.Anything).Return(service.Investment{},
			service.NewServiceError(constants.ErrCodeInvestmentNotFound, service.ErrInvestmentNotFound)).Once()

		status, _ := f.do(t, http.MethodPut, basePath+"cancel/TXN_X", "")

		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestHandler_Queries(t *testing.T) {
	t.Run("invalid path id", func(t *testing.T) {
		f := newHandlerFixture(t)

		status, payload := f.do(t, http.MethodGet, basePath+"investment/abc", "")

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, constants.ErrCodeInvalidPathParam, payload["code"])
	})

	t.Run("user investments include confirmed total", func(t *testing.T) {
		f := newHandlerFixture(t)

		investments := []service.Investment{{ID: 1, UserID: 5}, {ID: 2, UserID: 5}}
		f.investments.On("ListByUser", mock.Anything, int64(5)).Return(investments, nil).Once()
		f.investments.On("TotalConfirmedByUser", mock.Anything, int64(5)).Return(dec("250"), nil).Once()

		status, payload := f.do(t, http.MethodGet, basePath+"user/5", "")

		assert.Equal(t, http.StatusOK, status)
		res := result(t, payload)
		assert.EqualValues(t, 2, res["count"])
		assert.Equal(t, "250", res["total_amount"])
	})

	t.Run("movie investments include investor count", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.investments.On("ListByMovie", mock.Anything, int64(7)).Return([]service.Investment{{ID: 1}}, nil).Once()
		f.investments.On("TotalConfirmedByMovie", mock.Anything, int64(7)).Return(dec("400"), nil).Once()
		f.investments.On("CountInvestorsByMovie", mock.Anything, int64(7)).Return(int64(2), nil).Once()

		status, payload := f.do(t, http.MethodGet, basePath+"movie/7", "")

		assert.Equal(t, http.StatusOK, status)
		res := result(t, payload)
		assert.EqualValues(t, 2, res["investor_count"])
		assert.Equal(t, "400", res["total_amount"])
	})

	t.Run("unpaid returns route is not shadowed by movie id", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.investments.On("ListUnpaidReturns", mock.Anything).Return([]service.Investment{}, nil).Once()

		status, payload := f.do(t, http.MethodGet, basePath+"returns/unpaid", "")

		assert.Equal(t, http.StatusOK, status)
		assert.EqualValues(t, 0, result(t, payload)["count"])
	})

	t.Run("database failure is an internal error", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.investments.On("ListByProducer", mock.Anything, int64(3)).Return([]service.Investment(nil),
			service.NewServiceError(service.ErrCodeDatabase, errors.New("connection refused"))).Once()

		status, payload := f.do(t, http.MethodGet, basePath+"producer/3", "")

		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, constants.ErrCodeInternalError, payload["code"])
		assert.Empty(t, payload["error"])
	})
}

func TestHandler_ProcessReturns(t *testing.T) {
	t.Run("runs the allocator inline", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.returns.On("ProcessReturns", mock.Anything, mock.MatchedBy(func(cmd service.ProcessReturnsCommand) bool {
			return cmd.MovieID == 7 && cmd.TotalRevenue.Equal(dec("40"))
		})).Return(service.ProcessReturnsResponse{MovieID: 7, InvestmentsProcessed: 2}, nil).Once()

		status, payload := f.do(t, http.MethodPost, basePath+"returns/7?total_revenue=40", "")

		assert.Equal(t, http.StatusOK, status)
		assert.EqualValues(t, 2, result(t, payload)["investments_processed"])
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("queues the command when async", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.publisher.On("Publish", mock.Anything, "", constants.QueueReturns, mock.MatchedBy(func(body []byte) bool {
			var cmd service.ProcessReturnsCommand
			return json.Unmarshal(body, &cmd) == nil && cmd.MovieID == 7 && cmd.TotalRevenue.Equal(dec("40"))
		})).Return(nil).Once()

		status, payload := f.do(t, http.MethodPost, basePath+"returns/7?total_revenue=40&async=true", "")

		assert.Equal(t, http.StatusAccepted, status)
		assert.Equal(t, constants.QueueReturns, result(t, payload)["queue"])
		f.returns.AssertNotCalled(t, "ProcessReturns", mock.Anything, mock.Anything)
	})

	t.Run("async rejects non-positive revenue before publishing", func(t *testing.T) {
		f := newHandlerFixture(t)

		status, payload := f.do(t, http.MethodPost, basePath+"returns/7?total_revenue=0&async=true", "")

		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Equal(t, constants.ErrCodeInvalidAmount, payload["code"])
	})

	t.Run("publish failure is service unavailable", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.publisher.On("Publish", mock.Anything, "", constants.QueueReturns, mock.Anything).
			Return(errors.New("channel closed")).Once()

		status, payload := f.do(t, http.MethodPost, basePath+"returns/7?total_revenue=40&async=true", "")

		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, constants.ErrCodeQueueUnavailable, payload["code"])
	})

	t.Run("unparseable revenue", func(t *testing.T) {
		f := newHandlerFixture(t)

		status, payload := f.do(t, http.MethodPost, basePath+"returns/7?total_revenue=lots", "")

		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Equal(t, constants.ErrCodeValidationFailed, payload["code"])
	})

	t.Run("no eligible investments", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.returns.On("ProcessReturns", mock.Anything, mock.Anything).Return(service.ProcessReturnsResponse{},
			service.NewServiceError(constants.ErrCodeNoEligibleInvestments, service.ErrNoEligibleInvestments)).Once()

		status, payload := f.do(t, http.MethodPost, basePath+"returns/7?total_revenue=40", "")

		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Equal(t, constants.ErrCodeNoEligibleInvestments, payload["code"])
	})
}

func TestHandler_UpdateCollection(t *testing.T) {
	t.Run("defaults auto distribution and parses the date", func(t *testing.T) {
		f := newHandlerFixture(t)

		expectedDate := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
		f.returns.On("UpdateCollectionAndDistribute", mock.Anything,
			mock.MatchedBy(func(cmd service.UpdateCollectionCommand) bool {
				return cmd.ProducerID == 3 && cmd.MovieID == 7 && cmd.AutoDistribute &&
					cmd.CollectionAmount.Equal(dec("500")) && cmd.CollectionDate.Equal(expectedDate) &&
					cmd.Notes == "opening week"
			})).Return(service.CollectionReport{Message: service.MsgReturnsDistributed, ReturnsDistributed: true}, nil).Once()

		status, payload := f.do(t, http.MethodPost, basePath+"producer/3/movie/7/collection",
			`{"collection_amount":"500","collection_date":"2024-03-01","notes":"opening week"}`)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, service.MsgReturnsDistributed, payload["message"])
		assert.Equal(t, true, result(t, payload)["returns_distributed"])
	})

	t.Run("honours explicit opt out", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.returns.On("UpdateCollectionAndDistribute", mock.Anything,
			mock.MatchedBy(func(cmd service.UpdateCollectionCommand) bool {
				return !cmd.AutoDistribute
			})).Return(service.CollectionReport{Message: service.MsgAutoDistributionDisabled}, nil).Once()

		status, _ := f.do(t, http.MethodPost, basePath+"producer/3/movie/7/collection",
			`{"collection_amount":"500","auto_distribute_returns":false}`)

		assert.Equal(t, http.StatusOK, status)
	})

	for name, body := range map[string]string{
		"negative": `{"collection_amount":"-5"}`,
		"zero":     `{"collection_amount":"0"}`,
		"omitted":  `{"notes":"no figures yet"}`,
	} {
		t.Run("rejects "+name+" collection", func(t *testing.T) {
			f := newHandlerFixture(t)

			status, payload := f.do(t, http.MethodPost, basePath+"producer/3/movie/7/collection", body)

			assert.Equal(t, http.StatusUnprocessableEntity, status)
			assert.Equal(t, constants.ErrCodeValidationFailed, payload["code"])
			f.returns.AssertNotCalled(t, "UpdateCollectionAndDistribute", mock.Anything, mock.Anything)
		})
	}

	t.Run("rejects malformed date", func(t *testing.T) {
		f := newHandlerFixture(t)

		status, _ := f.do(t, http.MethodPost, basePath+"producer/3/movie/7/collection",
			`{"collection_amount":"5","collection_date":"01/03/2024"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, status)
	})
}

func TestHandler_ProducerReturns(t *testing.T) {
	t.Run("single movie", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.returns.On("ProcessReturnsForProducer", mock.Anything,
			mock.MatchedBy(func(cmd service.ProducerReturnsCommand) bool {
				return cmd.ProducerID == 3 && cmd.MovieID == 7 && cmd.TotalRevenue.Equal(dec("40")) &&
					cmd.Notes == "week one"
			})).Return(service.ProducerReturnsResponse{ProducerID: 3}, nil).Once()

		status, _ := f.do(t, http.MethodPost, basePath+"producer/3/movie/7/returns",
			`{"total_revenue":"40","notes":"week one"}`)

		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("bulk maps movie keys", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.returns.On("ProcessReturnsForAllProducerMovies", mock.Anything,
			mock.MatchedBy(func(cmd service.BulkReturnsCommand) bool {
				return cmd.ProducerID == 3 && len(cmd.Revenues) == 2 &&
					cmd.Revenues[7].Equal(dec("40")) && cmd.Revenues[9].Equal(dec("20"))
			})).Return(service.BulkReturnsResponse{ProducerID: 3, TotalMovies: 2}, nil).Once()

		status, payload := f.do(t, http.MethodPost, basePath+"producer/3/returns/bulk",
			`{"revenues":{"movie_7":"40","movie_9":"20"}}`)

		assert.Equal(t, http.StatusOK, status)
		assert.EqualValues(t, 2, result(t, payload)["total_movies"])
	})

	t.Run("bulk rejects bad keys", func(t *testing.T) {
		testCases := []struct {
			name string
			body string
		}{
			{name: "missing prefix", body: `{"revenues":{"7":"40"}}`},
			{name: "non numeric id", body: `{"revenues":{"movie_x":"40"}}`},
			{name: "zero revenue", body: `{"revenues":{"movie_7":"0"}}`},
			{name: "empty", body: `{"revenues":{}}`},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				f := newHandlerFixture(t)

				status, payload := f.do(t, http.MethodPost, basePath+"producer/3/returns/bulk", tc.body)

				assert.Equal(t, http.StatusUnprocessableEntity, status)
				assert.Equal(t, constants.ErrCodeValidationFailed, payload["code"])
			})
		}
	})
}

func TestHandler_Health(t *testing.T) {
	t.Run("up", func(t *testing.T) {
		f := newHandlerFixture(t)

		status, payload := f.do(t, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "UP", payload["status"])
	})

	t.Run("down when database unreachable", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.pingErr = errors.New("dial tcp: connection refused")

		status, payload := f.do(t, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "DOWN", payload["database"])
	})
}
